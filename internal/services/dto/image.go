package dto

import (
	"time"

	"fishlog_backend/internal/models"
)

// ImageResponse - публичное представление изображения
type ImageResponse struct {
	ID           string    `json:"id"`
	OriginalURL  string    `json:"originalUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	FileName     string    `json:"fileName"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// BatchUploadResponse - результат пакетной загрузки. Частичный успех
// не является ошибкой: ошибки по файлам попадают в Errors и Message.
type BatchUploadResponse struct {
	CaptureID      string           `json:"captureId"`
	UploadedImages []*ImageResponse `json:"uploadedImages"`
	TotalImages    int              `json:"totalImages"`
	Message        string           `json:"message"`
	Errors         []string         `json:"errors,omitempty"`
}

type ImageCountResponse struct {
	Count int64 `json:"count"`
}

type DeleteImageResponse struct {
	ImageID   string `json:"imageId"`
	CaptureID string `json:"captureId"`
	Deleted   bool   `json:"deleted"`
	Message   string `json:"message"`
}

func NewImageResponse(img *models.Image) *ImageResponse {
	return &ImageResponse{
		ID:           img.ID,
		OriginalURL:  img.OriginalURL,
		ThumbnailURL: img.ThumbnailURL,
		FileName:     img.FileName,
		FileSize:     img.FileSize,
		MimeType:     img.MimeType,
		Width:        img.Width,
		Height:       img.Height,
		UploadedAt:   img.UploadedAt,
	}
}

func NewImageResponses(images []models.Image) []*ImageResponse {
	result := make([]*ImageResponse, 0, len(images))
	for i := range images {
		result = append(result, NewImageResponse(&images[i]))
	}
	return result
}
