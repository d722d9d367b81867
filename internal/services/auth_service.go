package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"fishlog_backend/internal/auth"
	"fishlog_backend/internal/email"
	"fishlog_backend/internal/logger"
	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/internal/services/dto"
	"fishlog_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	tokenTypeBearer        = "Bearer"
	defaultVerificationTTL = 24 * time.Hour
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, db *gorm.DB, refreshToken string) error
	VerifyEmail(ctx context.Context, db *gorm.DB, token string) error
	ResendVerification(ctx context.Context, db *gorm.DB, email string) error
	CleanupExpiredTokens(ctx context.Context, db *gorm.DB) (*dto.CleanupResult, error)
}

// AuthConfig - сроки жизни токенов и адрес фронтенда для ссылок в письмах
type AuthConfig struct {
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
	AppURL          string
}

type authService struct {
	userRepo         repositories.UserRepository
	authUserRepo     repositories.AuthUserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	verifyTokenRepo  repositories.VerificationTokenRepository
	jwtManager       *auth.JWTManager
	emailProvider    email.Provider
	config           AuthConfig
	now              func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	authUserRepo repositories.AuthUserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	verifyTokenRepo repositories.VerificationTokenRepository,
	jwtManager *auth.JWTManager,
	emailProvider email.Provider,
	config AuthConfig,
) AuthService {
	if config.VerificationTTL <= 0 {
		config.VerificationTTL = defaultVerificationTTL
	}
	return &authService{
		userRepo:         userRepo,
		authUserRepo:     authUserRepo,
		refreshTokenRepo: refreshTokenRepo,
		verifyTokenRepo:  verifyTokenRepo,
		jwtManager:       jwtManager,
		emailProvider:    emailProvider,
		config:           config,
		now:              time.Now,
	}
}

// Register - регистрация нового пользователя
func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: strings.TrimSpace(req.FullName),
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, mapRepoError(err)
	}

	authUser := &models.AuthUser{
		UserID:       user.ID,
		PasswordHash: hash,
		Role:         models.UserRoleUser,
	}
	if err := s.authUserRepo.Create(tx, authUser); err != nil {
		return nil, apperrors.InternalError(err)
	}

	verification, err := s.issueVerificationToken(tx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Письмо отправляется после коммита, ошибка не ломает регистрацию
	s.sendVerification(ctx, user, verification.Token)

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	return &dto.RegisterResponse{
		User:    dto.NewUserResponse(user, authUser.Role),
		Message: "Registro completado. Revisa tu email para confirmar la cuenta",
	}, nil
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByLogin(db, strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	authUser, err := s.authUserRepo.FindByUserID(db, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuthUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, authUser.PasswordHash) {
		logger.CtxWarn(ctx, "Login failed: wrong password", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.authUserRepo.UpdateLastLogin(db, user.ID, s.now()); err != nil {
		logger.CtxWithError(ctx, "Failed to update last login", err, "user_id", user.ID)
	}

	return s.issueSession(ctx, db, user, authUser.Role)
}

// Refresh - ротация: старый токен отзывается, выдается новая пара
func (s *authService) Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	stored, err := s.refreshTokenRepo.FindByToken(tx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !stored.IsActive(s.now()) {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(tx, stored.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	authUser, err := s.authUserRepo.FindByUserID(tx, user.ID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.refreshTokenRepo.Revoke(tx, stored.Token); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp, err := s.issueSession(ctx, tx, user, authUser.Role)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// Logout идемпотентен: неизвестный токен не считается ошибкой
func (s *authService) Logout(ctx context.Context, db *gorm.DB, refreshToken string) error {
	err := s.refreshTokenRepo.Revoke(db, refreshToken)
	if err != nil && !errors.Is(err, repositories.ErrTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, db *gorm.DB, token string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	stored, err := s.verifyTokenRepo.FindByToken(tx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return apperrors.ErrInvalidVerificationToken
		}
		return apperrors.InternalError(err)
	}
	if !stored.IsUsable(s.now()) {
		return apperrors.ErrInvalidVerificationToken
	}

	if err := s.verifyTokenRepo.MarkUsed(tx, stored.ID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.MarkVerified(tx, stored.UserID); err != nil {
		return mapRepoError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Email verified", "user_id", stored.UserID)
	return nil
}

// ResendVerification не раскрывает, существует ли email
func (s *authService) ResendVerification(ctx context.Context, db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}
	if user.IsVerified {
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.verifyTokenRepo.InvalidateForUser(tx, user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	verification, err := s.issueVerificationToken(tx, user.ID)
	if err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.sendVerification(ctx, user, verification.Token)
	return nil
}

// CleanupExpiredTokens вызывается вручную через admin endpoint
func (s *authService) CleanupExpiredTokens(ctx context.Context, db *gorm.DB) (*dto.CleanupResult, error) {
	now := s.now()

	refreshDeleted, err := s.refreshTokenRepo.DeleteExpired(db, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	verifyDeleted, err := s.verifyTokenRepo.DeleteExpired(db, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Expired tokens cleaned up",
		"refresh_tokens", refreshDeleted, "verification_tokens", verifyDeleted)
	return &dto.CleanupResult{
		RefreshTokensDeleted:      refreshDeleted,
		VerificationTokensDeleted: verifyDeleted,
	}, nil
}

// --- helpers ---

func (s *authService) issueSession(ctx context.Context, db *gorm.DB, user *models.User, role models.UserRole) (*dto.AuthResponse, error) {
	accessToken, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Username, string(role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	opaque, err := auth.GenerateOpaqueToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     opaque,
		ExpiresAt: s.now().Add(s.config.RefreshTTL),
	}
	if err := s.refreshTokenRepo.Create(db, refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		TokenType:    tokenTypeBearer,
		ExpiresAt:    expiresAt,
		User:         dto.NewUserResponse(user, role),
	}, nil
}

func (s *authService) issueVerificationToken(db *gorm.DB, userID string) (*models.VerificationToken, error) {
	opaque, err := auth.GenerateOpaqueToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	token := &models.VerificationToken{
		UserID:    userID,
		Token:     opaque,
		ExpiresAt: s.now().Add(s.config.VerificationTTL),
	}
	if err := s.verifyTokenRepo.Create(db, token); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return token, nil
}

func (s *authService) sendVerification(ctx context.Context, user *models.User, token string) {
	if s.emailProvider == nil {
		return
	}
	link := strings.TrimRight(s.config.AppURL, "/") + "/verify-email?token=" + token
	if err := s.emailProvider.SendVerification(user.Email, user.Username, link); err != nil {
		logger.CtxWithError(ctx, "Failed to send verification email", err, "user_id", user.ID)
	}
}
