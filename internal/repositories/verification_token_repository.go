package repositories

import (
	"errors"
	"time"

	"fishlog_backend/internal/models"

	"gorm.io/gorm"
)

type VerificationTokenRepository interface {
	Create(db *gorm.DB, token *models.VerificationToken) error
	FindByToken(db *gorm.DB, tokenString string) (*models.VerificationToken, error)
	MarkUsed(db *gorm.DB, id string) error
	// InvalidateForUser помечает все неиспользованные токены пользователя использованными
	InvalidateForUser(db *gorm.DB, userID string) error
	DeleteExpired(db *gorm.DB, now time.Time) (int64, error)
}

type verificationTokenRepository struct{}

func NewVerificationTokenRepository() VerificationTokenRepository {
	return &verificationTokenRepository{}
}

func (r *verificationTokenRepository) Create(db *gorm.DB, token *models.VerificationToken) error {
	return db.Create(token).Error
}

func (r *verificationTokenRepository) FindByToken(db *gorm.DB, tokenString string) (*models.VerificationToken, error) {
	var token models.VerificationToken
	if err := db.Where("token = ?", tokenString).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *verificationTokenRepository) MarkUsed(db *gorm.DB, id string) error {
	return db.Model(&models.VerificationToken{}).Where("id = ?", id).Update("used", true).Error
}

func (r *verificationTokenRepository) InvalidateForUser(db *gorm.DB, userID string) error {
	return db.Model(&models.VerificationToken{}).
		Where("user_id = ? AND used = ?", userID, false).
		Update("used", true).Error
}

func (r *verificationTokenRepository) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.VerificationToken{})
	return result.RowsAffected, result.Error
}
