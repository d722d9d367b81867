package repositories

import (
	"errors"
	"time"

	"fishlog_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAuthUserNotFound = errors.New("auth user not found")

// AuthUserRepository хранит учетные данные пользователей
type AuthUserRepository interface {
	Create(db *gorm.DB, authUser *models.AuthUser) error
	FindByUserID(db *gorm.DB, userID string) (*models.AuthUser, error)
	UpdateLastLogin(db *gorm.DB, userID string, at time.Time) error
	CountByRole(db *gorm.DB, role models.UserRole) (int64, error)
}

type authUserRepository struct{}

func NewAuthUserRepository() AuthUserRepository {
	return &authUserRepository{}
}

func (r *authUserRepository) Create(db *gorm.DB, authUser *models.AuthUser) error {
	return db.Create(authUser).Error
}

func (r *authUserRepository) FindByUserID(db *gorm.DB, userID string) (*models.AuthUser, error) {
	var authUser models.AuthUser
	if err := db.Where("user_id = ?", userID).First(&authUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthUserNotFound
		}
		return nil, err
	}
	return &authUser, nil
}

func (r *authUserRepository) UpdateLastLogin(db *gorm.DB, userID string, at time.Time) error {
	return db.Model(&models.AuthUser{}).Where("user_id = ?", userID).Update("last_login_at", at).Error
}

func (r *authUserRepository) CountByRole(db *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := db.Model(&models.AuthUser{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
