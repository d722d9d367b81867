package repositories

import (
	"errors"

	"fishlog_backend/internal/models"

	"gorm.io/gorm"
)

var ErrImageNotFound = errors.New("image not found")

type ImageRepository interface {
	Create(db *gorm.DB, image *models.Image) error
	FindByID(db *gorm.DB, id string) (*models.Image, error)
	// FindByCapture возвращает изображения в порядке загрузки
	FindByCapture(db *gorm.DB, captureID string) ([]models.Image, error)
	CountByCapture(db *gorm.DB, captureID string) (int64, error)
	Delete(db *gorm.DB, id string) error
	DeleteByCapture(db *gorm.DB, captureID string) (int64, error)
}

type imageRepository struct{}

func NewImageRepository() ImageRepository {
	return &imageRepository{}
}

func (r *imageRepository) Create(db *gorm.DB, image *models.Image) error {
	return db.Create(image).Error
}

func (r *imageRepository) FindByID(db *gorm.DB, id string) (*models.Image, error) {
	var image models.Image
	if err := db.Where("id = ?", id).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) FindByCapture(db *gorm.DB, captureID string) ([]models.Image, error) {
	var images []models.Image
	err := db.Where("capture_id = ?", captureID).
		Order("uploaded_at ASC, created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *imageRepository) CountByCapture(db *gorm.DB, captureID string) (int64, error) {
	var count int64
	err := db.Model(&models.Image{}).Where("capture_id = ?", captureID).Count(&count).Error
	return count, err
}

func (r *imageRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Image{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *imageRepository) DeleteByCapture(db *gorm.DB, captureID string) (int64, error) {
	result := db.Where("capture_id = ?", captureID).Delete(&models.Image{})
	return result.RowsAffected, result.Error
}
