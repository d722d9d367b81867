package services

import (
	"context"

	"fishlog_backend/internal/logger"
	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/internal/services/dto"
	"fishlog_backend/internal/storage"
	"fishlog_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ImageService - чтение и удаление изображений улова.
// Ошибки удаления блобов логируются и не прерывают удаление строк:
// источником истины считается БД.
type ImageService interface {
	ListByCapture(ctx context.Context, db *gorm.DB, captureID string) ([]*dto.ImageResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, imageID string) (*dto.ImageResponse, error)
	// Count не проверяет существование улова
	Count(ctx context.Context, db *gorm.DB, captureID string) (int64, error)
	DeleteOne(ctx context.Context, db *gorm.DB, imageID, userID string) (*dto.DeleteImageResponse, error)
	DeleteAllForCapture(ctx context.Context, db *gorm.DB, captureID, userID string) error
	// DeleteAllForCaptureInternal пропускает проверку владения; только для
	// внутренних сценариев (удаление самого улова)
	DeleteAllForCaptureInternal(ctx context.Context, db *gorm.DB, captureID string) error
	// DeleteRowsForCapture удаляет только строки и возвращает их. Блобы
	// вызывающий удаляет через DeleteBlobs после коммита своей транзакции.
	DeleteRowsForCapture(ctx context.Context, db *gorm.DB, captureID string) ([]models.Image, error)
	DeleteBlobs(ctx context.Context, images []models.Image)
}

type imageService struct {
	gate        CaptureGate
	captureRepo repositories.CaptureRepository
	imageRepo   repositories.ImageRepository
	storage     storage.Storage
}

func NewImageService(
	gate CaptureGate,
	captureRepo repositories.CaptureRepository,
	imageRepo repositories.ImageRepository,
	storage storage.Storage,
) ImageService {
	return &imageService{
		gate:        gate,
		captureRepo: captureRepo,
		imageRepo:   imageRepo,
		storage:     storage,
	}
}

func (s *imageService) ListByCapture(ctx context.Context, db *gorm.DB, captureID string) ([]*dto.ImageResponse, error) {
	if _, err := s.captureRepo.FindByID(db, captureID); err != nil {
		return nil, mapRepoError(err)
	}

	images, err := s.imageRepo.FindByCapture(db, captureID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewImageResponses(images), nil
}

func (s *imageService) GetByID(ctx context.Context, db *gorm.DB, imageID string) (*dto.ImageResponse, error) {
	image, err := s.imageRepo.FindByID(db, imageID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return dto.NewImageResponse(image), nil
}

func (s *imageService) Count(ctx context.Context, db *gorm.DB, captureID string) (int64, error) {
	count, err := s.imageRepo.CountByCapture(db, captureID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// DeleteOne: изображение -> улов -> проверка владения -> блобы (best-effort) -> строка
func (s *imageService) DeleteOne(ctx context.Context, db *gorm.DB, imageID, userID string) (*dto.DeleteImageResponse, error) {
	image, err := s.imageRepo.FindByID(db, imageID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if _, err := s.gate.LoadOwnedCapture(db, image.CaptureID, userID); err != nil {
		return nil, err
	}

	s.deleteBlobs(ctx, image)

	if err := s.imageRepo.Delete(db, image.ID); err != nil {
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "Image deleted", "image_id", image.ID, "capture_id", image.CaptureID)
	return &dto.DeleteImageResponse{
		ImageID:   image.ID,
		CaptureID: image.CaptureID,
		Deleted:   true,
		Message:   "Imagen eliminada correctamente",
	}, nil
}

func (s *imageService) DeleteAllForCapture(ctx context.Context, db *gorm.DB, captureID, userID string) error {
	if _, err := s.gate.LoadOwnedCapture(db, captureID, userID); err != nil {
		return err
	}
	return s.DeleteAllForCaptureInternal(ctx, db, captureID)
}

func (s *imageService) DeleteAllForCaptureInternal(ctx context.Context, db *gorm.DB, captureID string) error {
	images, err := s.imageRepo.FindByCapture(db, captureID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	s.DeleteBlobs(ctx, images)

	deleted, err := s.imageRepo.DeleteByCapture(db, captureID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Capture images deleted", "capture_id", captureID, "count", deleted)
	return nil
}

func (s *imageService) DeleteRowsForCapture(ctx context.Context, db *gorm.DB, captureID string) ([]models.Image, error) {
	images, err := s.imageRepo.FindByCapture(db, captureID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.imageRepo.DeleteByCapture(db, captureID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return images, nil
}

func (s *imageService) DeleteBlobs(ctx context.Context, images []models.Image) {
	for i := range images {
		s.deleteBlobs(ctx, &images[i])
	}
}

// deleteBlobs удаляет оригинал и миниатюру; ошибки только логируются
func (s *imageService) deleteBlobs(ctx context.Context, image *models.Image) {
	for _, key := range []string{image.StorageKey, s.thumbnailKey(image)} {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWarn(ctx, "Failed to delete blob, continuing",
				"image_id", image.ID, "key", key, "error", err)
		}
	}
}

// thumbnailKey берет сохраненный ключ, а для старых строк выводит его из URL
func (s *imageService) thumbnailKey(image *models.Image) string {
	if image.ThumbnailKey != "" {
		return image.ThumbnailKey
	}
	return s.storage.KeyFromURL(image.ThumbnailURL)
}
