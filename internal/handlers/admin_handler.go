package handlers

import (
	"net/http"

	"fishlog_backend/internal/auth"
	"fishlog_backend/internal/middleware"
	"fishlog_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAdminHandler(base *BaseHandler, authService services.AuthService) *AdminHandler {
	return &AdminHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(authRequired, middleware.RequirePermission(auth.PermTokensCleanup))
	{
		admin.POST("/tokens/cleanup", h.CleanupTokens)
	}
}

// CleanupTokens - ручная очистка просроченных токенов
func (h *AdminHandler) CleanupTokens(c *gin.Context) {
	result, err := h.authService.CleanupExpiredTokens(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
