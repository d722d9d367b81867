package middleware

import (
	"strings"

	"fishlog_backend/internal/auth"
	"fishlog_backend/internal/logger"
	"fishlog_backend/pkg/apperrors"
	"fishlog_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// Auth проверяет bearer-токены через JWTManager
type Auth struct {
	jwt *auth.JWTManager
}

func NewAuth(jwtManager *auth.JWTManager) *Auth {
	return &Auth{jwt: jwtManager}
}

// Required - middleware проверки JWT. Без валидного токена отвечает 401.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, bearerPrefix) {
			apperrors.HandleError(c, apperrors.Unauthenticated("Falta el token de autorización"))
			return
		}

		claims, err := a.jwt.ParseToken(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Invalid access token", "error", err)
			apperrors.HandleError(c, apperrors.Unauthenticated("Token de acceso inválido o expirado"))
			return
		}

		// Сохраняем claims в контекст
		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.UsernameKey, claims.Username)
		c.Set(contextkeys.RoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequirePermission проверяет разрешение роли по RBAC-таблице
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasPermission(GetRole(c), permission) {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Acceso denegado: permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func GetUsername(c *gin.Context) string {
	return c.GetString(contextkeys.UsernameKey)
}

func GetRole(c *gin.Context) string {
	return c.GetString(contextkeys.RoleKey)
}
