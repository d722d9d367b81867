package dto

import "time"

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"max=255"`
}

// LoginRequest - вход по username или email
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest - запрос обновления токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest - запрос выхода
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// VerifyEmailRequest - запрос подтверждения email
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ResendVerificationRequest - повторная отправка письма подтверждения
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResponse - ответ с токенами
type AuthResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	TokenType    string        `json:"tokenType"`
	ExpiresAt    time.Time     `json:"expiresAt"`
	User         *UserResponse `json:"user"`
}

// RegisterResponse - ответ на регистрацию
type RegisterResponse struct {
	User    *UserResponse `json:"user"`
	Message string        `json:"message"`
}

// CleanupResult - результат очистки просроченных токенов
type CleanupResult struct {
	RefreshTokensDeleted      int64 `json:"refreshTokensDeleted"`
	VerificationTokensDeleted int64 `json:"verificationTokensDeleted"`
}
