package repositories

import (
	"errors"

	"fishlog_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCaptureNotFound = errors.New("capture not found")

type CaptureRepository interface {
	Create(db *gorm.DB, capture *models.Capture) error
	FindByID(db *gorm.DB, id string) (*models.Capture, error)
	FindByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Capture, int64, error)
	Update(db *gorm.DB, capture *models.Capture) error
	Delete(db *gorm.DB, id string) error
}

type captureRepository struct{}

func NewCaptureRepository() CaptureRepository {
	return &captureRepository{}
}

func (r *captureRepository) Create(db *gorm.DB, capture *models.Capture) error {
	return db.Create(capture).Error
}

func (r *captureRepository) FindByID(db *gorm.DB, id string) (*models.Capture, error) {
	var capture models.Capture
	if err := db.Where("id = ?", id).First(&capture).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaptureNotFound
		}
		return nil, err
	}
	return &capture, nil
}

func (r *captureRepository) FindByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Capture, int64, error) {
	var (
		captures []models.Capture
		total    int64
	)

	query := db.Model(&models.Capture{}).Where("user_id = ?", userID).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("capture_date DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&captures).Error
	return captures, total, err
}

func (r *captureRepository) Update(db *gorm.DB, capture *models.Capture) error {
	return db.Model(capture).
		Select("species", "weight", "capture_date", "location", "notes").
		Updates(capture).Error
}

func (r *captureRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Capture{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCaptureNotFound
	}
	return nil
}
