package dto

import (
	"time"

	"fishlog_backend/internal/models"
)

type CreateCaptureRequest struct {
	Species     string    `json:"species" validate:"required,max=100"`
	Weight      float64   `json:"weight" validate:"gt=0,lte=1000"`
	CaptureDate time.Time `json:"captureDate" validate:"required,notfuture"`
	Location    string    `json:"location" validate:"max=255"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

// UpdateCaptureRequest - частичное обновление, nil поля не меняются
type UpdateCaptureRequest struct {
	Species     *string    `json:"species" validate:"omitempty,min=1,max=100"`
	Weight      *float64   `json:"weight" validate:"omitempty,gt=0,lte=1000"`
	CaptureDate *time.Time `json:"captureDate" validate:"omitempty,notfuture"`
	Location    *string    `json:"location" validate:"omitempty,max=255"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
}

type CaptureResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Species     string    `json:"species"`
	Weight      float64   `json:"weight"`
	CaptureDate time.Time `json:"captureDate"`
	Location    string    `json:"location,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	ImagesCount int64     `json:"imagesCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CaptureListResponse struct {
	Captures []*CaptureResponse `json:"captures"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

func NewCaptureResponse(c *models.Capture, imagesCount int64) *CaptureResponse {
	return &CaptureResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Species:     c.Species,
		Weight:      c.Weight,
		CaptureDate: c.CaptureDate,
		Location:    c.Location,
		Notes:       c.Notes,
		ImagesCount: imagesCount,
		CreatedAt:   c.CreatedAt,
	}
}
