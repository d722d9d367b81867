package services

import (
	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CaptureGate загружает улов и проверяет, что запрашивающий - владелец.
// Используется перед каждой изменяющей операцией над изображениями.
type CaptureGate interface {
	LoadOwnedCapture(db *gorm.DB, captureID, userID string) (*models.Capture, error)
}

type captureGate struct {
	captureRepo repositories.CaptureRepository
}

func NewCaptureGate(captureRepo repositories.CaptureRepository) CaptureGate {
	return &captureGate{captureRepo: captureRepo}
}

// LoadOwnedCapture: 404 если улова нет, 403 если владелец другой
func (g *captureGate) LoadOwnedCapture(db *gorm.DB, captureID, userID string) (*models.Capture, error) {
	capture, err := g.captureRepo.FindByID(db, captureID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !capture.IsOwnedBy(userID) {
		return nil, apperrors.ErrNotCaptureOwner
	}
	return capture, nil
}
