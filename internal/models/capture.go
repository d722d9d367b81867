package models

import "time"

// Capture - одна рыбалка (улов), принадлежит ровно одному пользователю
type Capture struct {
	BaseModel
	UserID      string    `gorm:"type:varchar(36);not null;index"`
	Species     string    `gorm:"type:varchar(100);not null"`
	Weight      float64   `gorm:"not null"` // кг
	CaptureDate time.Time `gorm:"not null"`
	Location    string    `gorm:"type:varchar(255)"`
	Notes       string    `gorm:"type:text"`

	Images []Image `gorm:"foreignKey:CaptureID;constraint:OnDelete:RESTRICT"`
}

func (c *Capture) IsOwnedBy(userID string) bool {
	return c.UserID == userID
}
