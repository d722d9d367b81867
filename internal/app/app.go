package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fishlog_backend/database"
	"fishlog_backend/internal/auth"
	"fishlog_backend/internal/config"
	"fishlog_backend/internal/email"
	"fishlog_backend/internal/handlers"
	"fishlog_backend/internal/imageprocessor"
	"fishlog_backend/internal/logger"
	"fishlog_backend/internal/middleware"
	"fishlog_backend/internal/routes"
	"fishlog_backend/internal/services"
	"fishlog_backend/internal/storage"
	"fishlog_backend/pkg/apperrors"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Migration failed", "error", err)
		}
		logger.Info("Database migrated")
	}

	storageInstance, err := storage.NewStorage(storageConfig(cfg))
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", storageInstance.Backend())

	ginRouter, container, err := SetupRouter(cfg, gormDB, storageInstance, newEmailProvider(cfg))
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	// Без администратора сервер не запускаем
	if err := container.UserService.EnsureFirstAdmin(context.Background(), gormDB,
		cfg.FirstAdmin.Username, cfg.FirstAdmin.Email, cfg.FirstAdmin.Password); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	serve(ginRouter, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
}

// serve запускает HTTP сервер и корректно останавливает его по SIGINT/SIGTERM
func serve(handler http.Handler, address string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// SetupRouter собирает сервисы, хэндлеры и маршруты
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage, emailProvider email.Provider) (*gin.Engine, *services.ServiceContainer, error) {
	jwtManager, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	if err != nil {
		return nil, nil, err
	}

	// 1. Инициализируем сервисы
	container := services.NewServiceContainer(services.Dependencies{
		Storage: storageInstance,
		Processor: imageprocessor.NewProcessor(imageprocessor.Config{
			MaxFileSize:     cfg.Images.MaxFileSize,
			AllowedTypes:    cfg.Images.AllowedTypes,
			ThumbnailWidth:  cfg.Images.ThumbnailWidth,
			ThumbnailHeight: cfg.Images.ThumbnailHeight,
		}),
		JWTManager:    jwtManager,
		EmailProvider: emailProvider,
		Upload: services.ImageUploadConfig{
			MaxPerCapture: cfg.Images.MaxPerCapture,
			MaxFileSize:   cfg.Images.MaxFileSize,
			OptimizeWidth: cfg.Images.OptimizeWidth,
		},
		Auth: services.AuthConfig{
			RefreshTTL: cfg.JWT.RefreshTTL,
			AppURL:     cfg.Email.AppURL,
		},
	})

	// 2. Инициализируем хэндлеры
	appHandlers := handlers.NewAppHandlers(container, storageInstance.Backend())

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// Локальное хранилище отдается самим сервером
	if cfg.Storage.Type == "local" && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		ginRouter.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)
	}

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, middleware.NewAuth(jwtManager), routes.Options{
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})

	return ginRouter, container, nil
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	apperrors.SetDebug(cfg.IsDevelopment())

	router := gin.New()
	router.MaxMultipartMemory = cfg.Images.MaxFileSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.DBMiddleware(db))

	if cfg.IsDevelopment() {
		pprof.Register(router)
	}
	return router
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Type:             cfg.Storage.Type,
		BasePath:         cfg.Storage.BasePath,
		BaseURL:          cfg.Storage.BaseURL,
		Bucket:           cfg.Storage.Bucket,
		Region:           cfg.Storage.Region,
		AccessKey:        cfg.Storage.AccessKey,
		SecretKey:        cfg.Storage.SecretKey,
		Endpoint:         cfg.Storage.Endpoint,
		UseSSL:           cfg.Storage.UseSSL,
		CloudinaryCloud:  cfg.Storage.CloudinaryCloud,
		CloudinaryKey:    cfg.Storage.CloudinaryKey,
		CloudinarySecret: cfg.Storage.CloudinarySecret,
	}
}

// newEmailProvider: SMTP при email.enabled, иначе MockProvider
func newEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email sending disabled, using mock provider")
		return email.NewMockProvider()
	}

	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, email.NewTemplateManager())
	if err := provider.Validate(); err != nil {
		logger.Warn("Invalid SMTP configuration, using mock provider", "error", err)
		return email.NewMockProvider()
	}
	return provider
}
