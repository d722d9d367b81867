package services

import (
	"context"

	"fishlog_backend/internal/logger"
	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/internal/services/dto"
	"fishlog_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CaptureService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateCaptureRequest) (*dto.CaptureResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, captureID string) (*dto.CaptureResponse, error)
	ListMine(ctx context.Context, db *gorm.DB, userID string, page, pageSize int) (*dto.CaptureListResponse, error)
	Update(ctx context.Context, db *gorm.DB, captureID, userID string, req *dto.UpdateCaptureRequest) (*dto.CaptureResponse, error)
	// Delete удаляет изображения улова и сам улов в одной транзакции
	Delete(ctx context.Context, db *gorm.DB, captureID, userID string) error
}

type captureService struct {
	gate         CaptureGate
	captureRepo  repositories.CaptureRepository
	imageRepo    repositories.ImageRepository
	imageService ImageService
}

func NewCaptureService(
	gate CaptureGate,
	captureRepo repositories.CaptureRepository,
	imageRepo repositories.ImageRepository,
	imageService ImageService,
) CaptureService {
	return &captureService{
		gate:         gate,
		captureRepo:  captureRepo,
		imageRepo:    imageRepo,
		imageService: imageService,
	}
}

func (s *captureService) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateCaptureRequest) (*dto.CaptureResponse, error) {
	capture := &models.Capture{
		UserID:      userID,
		Species:     req.Species,
		Weight:      req.Weight,
		CaptureDate: req.CaptureDate,
		Location:    req.Location,
		Notes:       req.Notes,
	}
	if err := s.captureRepo.Create(db, capture); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Capture created", "capture_id", capture.ID, "species", capture.Species)
	return dto.NewCaptureResponse(capture, 0), nil
}

func (s *captureService) GetByID(ctx context.Context, db *gorm.DB, captureID string) (*dto.CaptureResponse, error) {
	capture, err := s.captureRepo.FindByID(db, captureID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return s.withCount(db, capture)
}

func (s *captureService) ListMine(ctx context.Context, db *gorm.DB, userID string, page, pageSize int) (*dto.CaptureListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	captures, total, err := s.captureRepo.FindByUser(db, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.CaptureResponse, 0, len(captures))
	for i := range captures {
		resp, err := s.withCount(db, &captures[i])
		if err != nil {
			return nil, err
		}
		items = append(items, resp)
	}

	return &dto.CaptureListResponse{
		Captures: items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *captureService) Update(ctx context.Context, db *gorm.DB, captureID, userID string, req *dto.UpdateCaptureRequest) (*dto.CaptureResponse, error) {
	capture, err := s.gate.LoadOwnedCapture(db, captureID, userID)
	if err != nil {
		return nil, err
	}

	if req.Species != nil {
		capture.Species = *req.Species
	}
	if req.Weight != nil {
		capture.Weight = *req.Weight
	}
	if req.CaptureDate != nil {
		capture.CaptureDate = *req.CaptureDate
	}
	if req.Location != nil {
		capture.Location = *req.Location
	}
	if req.Notes != nil {
		capture.Notes = *req.Notes
	}

	if err := s.captureRepo.Update(db, capture); err != nil {
		return nil, mapRepoError(err)
	}
	return s.withCount(db, capture)
}

func (s *captureService) Delete(ctx context.Context, db *gorm.DB, captureID, userID string) error {
	if _, err := s.gate.LoadOwnedCapture(db, captureID, userID); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	images, err := s.imageService.DeleteRowsForCapture(ctx, tx, captureID)
	if err != nil {
		return err
	}
	if err := s.captureRepo.Delete(tx, captureID); err != nil {
		return mapRepoError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	// Блобы удаляются только после коммита: при откате строки и файлы остаются
	s.imageService.DeleteBlobs(ctx, images)

	logger.CtxInfo(ctx, "Capture deleted", "capture_id", captureID, "images", len(images))
	return nil
}

func (s *captureService) withCount(db *gorm.DB, capture *models.Capture) (*dto.CaptureResponse, error) {
	count, err := s.imageRepo.CountByCapture(db, capture.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewCaptureResponse(capture, count), nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
