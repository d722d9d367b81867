package models

import (
	"time"
)

// Image - метаданные одной фотографии улова. Строка создается только после
// успешной загрузки обоих вариантов в хранилище.
type Image struct {
	BaseModel
	CaptureID    string    `gorm:"type:varchar(36);not null;index;<-:create"`
	OriginalURL  string    `gorm:"column:original_url;not null"`
	ThumbnailURL string    `gorm:"column:thumbnail_url;not null"`
	StorageKey   string    `gorm:"column:storage_key;not null"`
	ThumbnailKey string    `gorm:"column:thumbnail_key"`
	FileName     string    `gorm:"column:file_name;type:varchar(255)"`
	FileSize     int64     `gorm:"column:file_size"`
	MimeType     string    `gorm:"column:mime_type;type:varchar(100)"`
	Width        int       `gorm:"column:width"`
	Height       int       `gorm:"column:height"`
	UploadedAt   time.Time `gorm:"column:uploaded_at;not null"`
}
