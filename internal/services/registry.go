package services

import (
	"fishlog_backend/internal/auth"
	"fishlog_backend/internal/email"
	"fishlog_backend/internal/imageprocessor"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	UserService        UserService
	AuthService        AuthService
	CaptureService     CaptureService
	ImageUploadService ImageUploadService
	ImageService       ImageService
	EmailService       email.Provider
}

// Dependencies - внешние зависимости, из которых собирается контейнер
type Dependencies struct {
	Storage       storage.Storage
	Processor     *imageprocessor.Processor
	JWTManager    *auth.JWTManager
	EmailProvider email.Provider
	Upload        ImageUploadConfig
	Auth          AuthConfig
}

func NewServiceContainer(deps Dependencies) *ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	authUserRepo := repositories.NewAuthUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	verifyTokenRepo := repositories.NewVerificationTokenRepository()
	captureRepo := repositories.NewCaptureRepository()
	imageRepo := repositories.NewImageRepository()

	// --- Сервисы ---
	gate := NewCaptureGate(captureRepo)
	imageService := NewImageService(gate, captureRepo, imageRepo, deps.Storage)

	return &ServiceContainer{
		UserService: NewUserService(userRepo, authUserRepo),
		AuthService: NewAuthService(
			userRepo,
			authUserRepo,
			refreshTokenRepo,
			verifyTokenRepo,
			deps.JWTManager,
			deps.EmailProvider,
			deps.Auth,
		),
		CaptureService:     NewCaptureService(gate, captureRepo, imageRepo, imageService),
		ImageUploadService: NewImageUploadService(gate, imageRepo, deps.Processor, deps.Storage, deps.Upload),
		ImageService:       imageService,
		EmailService:       deps.EmailProvider,
	}
}
