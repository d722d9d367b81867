package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fishlog_backend/internal/imageprocessor"
	"fishlog_backend/internal/logger"
	"fishlog_backend/internal/metrics"
	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/internal/services/dto"
	"fishlog_backend/internal/storage"
	"fishlog_backend/pkg/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UploadFile - один файл из multipart-запроса. Open вызывается один раз.
type UploadFile struct {
	FileName string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

type ImageUploadConfig struct {
	MaxPerCapture int
	MaxFileSize   int64
	OptimizeWidth int
}

type ImageUploadService interface {
	UploadSingle(ctx context.Context, db *gorm.DB, captureID, userID string, file UploadFile) (*dto.ImageResponse, error)
	UploadBatch(ctx context.Context, db *gorm.DB, captureID, userID string, files []UploadFile) (*dto.BatchUploadResponse, error)
}

type imageUploadService struct {
	gate      CaptureGate
	imageRepo repositories.ImageRepository
	processor *imageprocessor.Processor
	storage   storage.Storage
	config    ImageUploadConfig
	now       func() time.Time
}

func NewImageUploadService(
	gate CaptureGate,
	imageRepo repositories.ImageRepository,
	processor *imageprocessor.Processor,
	storage storage.Storage,
	config ImageUploadConfig,
) ImageUploadService {
	if config.OptimizeWidth <= 0 {
		config.OptimizeWidth = 1920
	}
	return &imageUploadService{
		gate:      gate,
		imageRepo: imageRepo,
		processor: processor,
		storage:   storage,
		config:    config,
		now:       time.Now,
	}
}

// UploadSingle: владение -> квота -> валидация -> обработка -> загрузка
// обоих вариантов -> запись в БД. Строка создается только после успешной
// загрузки обоих блобов.
func (s *imageUploadService) UploadSingle(ctx context.Context, db *gorm.DB, captureID, userID string, file UploadFile) (*dto.ImageResponse, error) {
	capture, err := s.gate.LoadOwnedCapture(db, captureID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.checkQuota(db, captureID, 1); err != nil {
		return nil, err
	}

	image, err := s.processAndStore(ctx, db, capture, userID, file)
	metrics.RecordImageUpload(metrics.ModeSingle, file.Size, err)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Image uploaded", "image_id", image.ID, "capture_id", captureID, "size", image.FileSize)
	return dto.NewImageResponse(image), nil
}

// UploadBatch обрабатывает файлы по очереди. Ошибка одного файла
// записывается и не прерывает остальные; частичный успех - штатный результат.
func (s *imageUploadService) UploadBatch(ctx context.Context, db *gorm.DB, captureID, userID string, files []UploadFile) (*dto.BatchUploadResponse, error) {
	capture, err := s.gate.LoadOwnedCapture(db, captureID, userID)
	if err != nil {
		return nil, err
	}

	// Квота проверяется для всего пакета до чтения первого файла
	if err := s.checkQuota(db, captureID, len(files)); err != nil {
		return nil, err
	}

	result := &dto.BatchUploadResponse{
		CaptureID:      captureID,
		UploadedImages: make([]*dto.ImageResponse, 0, len(files)),
	}

	for _, file := range files {
		image, err := s.processAndStore(ctx, db, capture, userID, file)
		metrics.RecordImageUpload(metrics.ModeBatch, file.Size, err)
		if err != nil {
			logger.CtxWarn(ctx, "Batch image failed", "capture_id", captureID, "file", file.FileName, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("Error en imagen '%s': %s", file.FileName, errorMessage(err)))
			continue
		}
		result.UploadedImages = append(result.UploadedImages, dto.NewImageResponse(image))
	}

	result.TotalImages = len(result.UploadedImages)
	result.Message = batchMessage(result.TotalImages, len(files), len(result.Errors))

	logger.CtxInfo(ctx, "Batch upload finished",
		"capture_id", captureID, "uploaded", result.TotalImages, "failed", len(result.Errors))
	return result, nil
}

// checkQuota отклоняет загрузку, если existing + incoming > max
func (s *imageUploadService) checkQuota(db *gorm.DB, captureID string, incoming int) error {
	count, err := s.imageRepo.CountByCapture(db, captureID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if exceedsQuota(count, incoming, s.config.MaxPerCapture) {
		return s.quotaError()
	}
	return nil
}

func (s *imageUploadService) quotaError() error {
	return apperrors.InvalidImage(fmt.Sprintf(
		"Se ha alcanzado el límite de %d imágenes por captura", s.config.MaxPerCapture))
}

func exceedsQuota(existing int64, incoming, max int) bool {
	return existing+int64(incoming) > int64(max)
}

func (s *imageUploadService) processAndStore(ctx context.Context, db *gorm.DB, capture *models.Capture, userID string, file UploadFile) (*models.Image, error) {
	stream, err := s.openStream(file)
	if err != nil {
		return nil, err
	}

	if err := s.processor.Validate(stream, stream.Size()); err != nil {
		return nil, err
	}

	mimeType := imageprocessor.DetectMimeType(stream)
	format := imageprocessor.OutputFormat(mimeType)
	width, height := imageprocessor.Dimensions(stream)
	logger.CtxDebug(ctx, "Image validated", "file", file.FileName, "mime", mimeType, "format", format, "width", width, "height", height)

	optimized, err := s.processor.Optimize(stream, format, s.config.OptimizeWidth)
	if err != nil {
		return nil, err
	}
	thumbnail, err := s.processor.Thumbnail(stream, format)
	if err != nil {
		return nil, err
	}
	logger.CtxDebug(ctx, "Image transformed", "file", file.FileName,
		"optimized_bytes", optimized.Size(), "thumbnail_bytes", thumbnail.Size(), "content_type", optimized.ContentType)

	// Ключи получают расширение реально записанного формата
	fileName := storage.SanitizeFileName(file.FileName)
	blobName := storage.ReplaceExtension(fileName, imageprocessor.FileExtension(optimized.ContentType))
	originalKey := s.storage.BuildKey(userID, capture.ID, blobName)
	thumbnailKey := s.storage.BuildThumbnailKey(userID, capture.ID, blobName)

	originalURL, err := s.storage.Upload(ctx, originalKey, optimized.Reader(), optimized.Size(), optimized.ContentType)
	if err != nil {
		return nil, err
	}
	thumbnailURL, err := s.storage.Upload(ctx, thumbnailKey, thumbnail.Reader(), thumbnail.Size(), thumbnail.ContentType)
	if err != nil {
		s.discardBlobs(ctx, originalKey)
		return nil, err
	}

	size := file.Size
	if size <= 0 {
		size = stream.Size()
	}

	image := &models.Image{
		CaptureID:    capture.ID,
		OriginalURL:  originalURL,
		ThumbnailURL: thumbnailURL,
		StorageKey:   originalKey,
		ThumbnailKey: thumbnailKey,
		FileName:     fileName,
		FileSize:     size,
		MimeType:     mimeType,
		Width:        width,
		Height:       height,
		UploadedAt:   s.now(),
	}

	if err := s.persist(db, image); err != nil {
		s.discardBlobs(ctx, originalKey, thumbnailKey)
		return nil, err
	}
	return image, nil
}

func (s *imageUploadService) openStream(file UploadFile) (*bytes.Reader, error) {
	if file.Open == nil {
		return nil, apperrors.InvalidImage("El archivo está vacío")
	}
	r, err := file.Open()
	if err != nil {
		return nil, apperrors.InvalidImageCause(err, "No se pudo leer el archivo")
	}
	defer r.Close()

	return imageprocessor.ToReusableStream(r, s.config.MaxFileSize)
}

// persist записывает строку в отдельной транзакции. Строка улова
// блокируется, и квота проверяется повторно перед вставкой.
func (s *imageUploadService) persist(db *gorm.DB, image *models.Image) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	var locked models.Capture
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", image.CaptureID).
		First(&locked).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCaptureNotFound
		}
		return apperrors.InternalError(err)
	}

	count, err := s.imageRepo.CountByCapture(tx, image.CaptureID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if exceedsQuota(count, 1, s.config.MaxPerCapture) {
		return s.quotaError()
	}

	if err := s.imageRepo.Create(tx, image); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// discardBlobs удаляет уже загруженные блобы, если запись не состоялась
func (s *imageUploadService) discardBlobs(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWarn(ctx, "Failed to discard orphan blob", "key", key, "error", err)
		}
	}
}

func batchMessage(success, total, failed int) string {
	if failed > 0 {
		return fmt.Sprintf("%d de %d imagen(es) subida(s) correctamente. %d error(es)", success, total, failed)
	}
	return fmt.Sprintf("%d imagen(es) subida(s) correctamente", success)
}

// errorMessage возвращает сообщение для пользователя без внутренних деталей
func errorMessage(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
