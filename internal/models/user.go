package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User - публичный профиль рыбака
type User struct {
	BaseModel
	Username   string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email      string `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName   string `gorm:"type:varchar(255)"`
	IsVerified bool   `gorm:"default:false"`

	// Relations
	AuthUser *AuthUser `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Captures []Capture `gorm:"foreignKey:UserID"`
}

// AuthUser хранит учетные данные отдельно от профиля
type AuthUser struct {
	BaseModel
	UserID       string   `gorm:"type:varchar(36);uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'"`
	LastLoginAt  *time.Time
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
}

func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

type VerificationToken struct {
	BaseModel
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"default:false"`
}

func (t *VerificationToken) IsUsable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
