package routes

import (
	"fishlog_backend/internal/handlers"
	"fishlog_backend/internal/logger"
	"fishlog_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options - необязательные служебные маршруты
type Options struct {
	MetricsEnabled bool
	MetricsPath    string
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMiddleware *middleware.Auth,
	opts Options,
) {
	authRequired := authMiddleware.Required()

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api, authRequired)
		appHandlers.CaptureHandler.RegisterRoutes(api, authRequired)
		appHandlers.ImageHandler.RegisterRoutes(api, authRequired)
		appHandlers.AdminHandler.RegisterRoutes(api, authRequired)
	}

	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	if opts.MetricsEnabled {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		ginRouter.GET(path, gin.WrapH(promhttp.Handler()))
		logger.Info("Metrics route registered", "path", path)
	}
}
