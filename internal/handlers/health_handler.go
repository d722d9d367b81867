package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	*BaseHandler
	storageBackend string
}

func NewHealthHandler(base *BaseHandler, storageBackend string) *HealthHandler {
	return &HealthHandler{BaseHandler: base, storageBackend: storageBackend}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health проверяет доступность БД
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "ok", http.StatusOK

	sqlDB, err := h.GetDB(c).DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"storage": h.storageBackend,
	})
}
