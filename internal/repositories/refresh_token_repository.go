package repositories

import (
	"errors"
	"time"

	"fishlog_backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrTokenNotFound возвращается, когда токен (refresh или verification) не найден в БД
	ErrTokenNotFound = errors.New("token not found")
)

// RefreshTokenRepository определяет интерфейс для операций с refresh-токенами
type RefreshTokenRepository interface {
	// Create создает новую запись о refresh-токене
	Create(db *gorm.DB, token *models.RefreshToken) error

	// FindByToken находит refresh-токен по его строковому значению
	FindByToken(db *gorm.DB, tokenString string) (*models.RefreshToken, error)

	// Revoke помечает токен отозванным; повторный вызов не является ошибкой
	Revoke(db *gorm.DB, tokenString string) error

	// RevokeByUserID отзывает все токены пользователя
	RevokeByUserID(db *gorm.DB, userID string) error

	// DeleteExpired удаляет все истекшие токены и возвращает их количество
	DeleteExpired(db *gorm.DB, now time.Time) (int64, error)

	// CountActiveByUserID возвращает количество активных токенов пользователя
	CountActiveByUserID(db *gorm.DB, userID string) (int64, error)
}

type refreshTokenRepository struct{}

// NewRefreshTokenRepository создает новый экземпляр RefreshTokenRepository
func NewRefreshTokenRepository() RefreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *refreshTokenRepository) FindByToken(db *gorm.DB, tokenString string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := db.Where("token = ?", tokenString).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) Revoke(db *gorm.DB, tokenString string) error {
	result := db.Model(&models.RefreshToken{}).Where("token = ?", tokenString).Update("revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) RevokeByUserID(db *gorm.DB, userID string) error {
	return db.Model(&models.RefreshToken{}).Where("user_id = ?", userID).Update("revoked", true).Error
}

func (r *refreshTokenRepository) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

func (r *refreshTokenRepository) CountActiveByUserID(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ? AND expires_at > ?", userID, false, time.Now()).
		Count(&count).Error
	return count, err
}
