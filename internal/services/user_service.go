package services

import (
	"context"
	"errors"

	"fishlog_backend/internal/auth"
	"fishlog_backend/internal/logger"
	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/internal/services/dto"
	"fishlog_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
	// EnsureFirstAdmin создает администратора, если в системе еще нет ни одного
	EnsureFirstAdmin(ctx context.Context, db *gorm.DB, username, email, password string) error
}

type userService struct {
	userRepo     repositories.UserRepository
	authUserRepo repositories.AuthUserRepository
}

func NewUserService(userRepo repositories.UserRepository, authUserRepo repositories.AuthUserRepository) UserService {
	return &userService{
		userRepo:     userRepo,
		authUserRepo: authUserRepo,
	}
}

func (s *userService) GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	role := models.UserRoleUser
	authUser, err := s.authUserRepo.FindByUserID(db, userID)
	switch {
	case err == nil:
		role = authUser.Role
	case !errors.Is(err, repositories.ErrAuthUserNotFound):
		return nil, apperrors.InternalError(err)
	}

	return dto.NewUserResponse(user, role), nil
}

func (s *userService) EnsureFirstAdmin(ctx context.Context, db *gorm.DB, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return nil
	}

	count, err := s.authUserRepo.CountByRole(db, models.UserRoleAdmin)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count > 0 {
		return nil
	}

	if err := auth.ValidatePassword(password); err != nil {
		return apperrors.ErrWeakPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user := &models.User{Username: username, Email: email, IsVerified: true}
	if err := s.userRepo.Create(tx, user); err != nil {
		return mapRepoError(err)
	}
	if err := s.authUserRepo.Create(tx, &models.AuthUser{
		UserID:       user.ID,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
	}); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "First admin created", "user_id", user.ID, "username", username)
	return nil
}
