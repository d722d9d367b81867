package dto

import (
	"time"

	"fishlog_backend/internal/models"
)

type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName,omitempty"`
	Role       string    `json:"role,omitempty"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewUserResponse(user *models.User, role models.UserRole) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       string(role),
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}
