package handlers

import (
	"fishlog_backend/internal/services"
	"fishlog_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	CaptureHandler *CaptureHandler
	ImageHandler   *ImageHandler
	AdminHandler   *AdminHandler
	HealthHandler  *HealthHandler
}

func NewAppHandlers(container *services.ServiceContainer, storageBackend string) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		AuthHandler:    NewAuthHandler(base, container.AuthService),
		UserHandler:    NewUserHandler(base, container.UserService),
		CaptureHandler: NewCaptureHandler(base, container.CaptureService),
		ImageHandler:   NewImageHandler(base, container.ImageUploadService, container.ImageService),
		AdminHandler:   NewAdminHandler(base, container.AuthService),
		HealthHandler:  NewHealthHandler(base, storageBackend),
	}
}
