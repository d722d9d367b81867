package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Email    EmailConfig    `yaml:"email"`
	Storage  StorageConfig  `yaml:"storage"`
	Images   ImagesConfig   `yaml:"images"`
	CORS     CORSConfig     `yaml:"cors"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	FirstAdmin FirstAdminConfig `yaml:"first_admin"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
	Env  string `yaml:"env" env:"SERVER_ENV"` // development, production, test
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver" env:"DATABASE_DRIVER"` // postgres, mysql, sqlite
	DSN         string `yaml:"url" env:"DATABASE_URL"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DATABASE_AUTO_MIGRATE"`
}

type JWTConfig struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL"`
}

type EmailConfig struct {
	Enabled      bool   `yaml:"enabled" env:"EMAIL_ENABLED"`
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUsername string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromEmail    string `yaml:"from_email" env:"EMAIL_FROM"`
	FromName     string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	AppURL       string `yaml:"app_url" env:"APP_URL"` // база для ссылок подтверждения
}

type StorageConfig struct {
	Type      string `yaml:"type" env:"STORAGE_TYPE"`             // s3, minio, cloudinary, local
	BasePath  string `yaml:"base_path" env:"STORAGE_BASE_PATH"`   // For local storage
	BaseURL   string `yaml:"base_url" env:"STORAGE_BASE_URL"`     // Public URL base
	Bucket    string `yaml:"bucket" env:"STORAGE_BUCKET"`         // For S3/MinIO
	Region    string `yaml:"region" env:"STORAGE_REGION"`         // For S3
	AccessKey string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"` // For S3/MinIO
	SecretKey string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"` // For S3/MinIO
	Endpoint  string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`     // For R2, MinIO or custom S3
	UseSSL    bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL"`

	CloudinaryCloud  string `yaml:"cloudinary_cloud" env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryKey    string `yaml:"cloudinary_key" env:"CLOUDINARY_API_KEY"`
	CloudinarySecret string `yaml:"cloudinary_secret" env:"CLOUDINARY_API_SECRET"`
}

type ImagesConfig struct {
	MaxPerCapture   int      `yaml:"max_per_capture" env:"IMAGES_MAX_PER_CAPTURE"`
	MaxFileSize     int64    `yaml:"max_file_size" env:"IMAGES_MAX_FILE_SIZE"` // bytes
	AllowedTypes    []string `yaml:"allowed_types" env:"IMAGES_ALLOWED_TYPES" envSeparator:","`
	ThumbnailWidth  int      `yaml:"thumbnail_width" env:"IMAGES_THUMBNAIL_WIDTH"`
	ThumbnailHeight int      `yaml:"thumbnail_height" env:"IMAGES_THUMBNAIL_HEIGHT"`
	OptimizeWidth   int      `yaml:"optimize_width" env:"IMAGES_OPTIMIZE_WIDTH"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `yaml:"path" env:"METRICS_PATH"`
}

type FirstAdminConfig struct {
	Username string `yaml:"username" env:"FIRST_ADMIN_USERNAME"`
	Email    string `yaml:"email" env:"FIRST_ADMIN_EMAIL"`
	Password string `yaml:"password" env:"FIRST_ADMIN_PASSWORD"`
}

var AppConfig *Config

// Default возвращает конфигурацию по умолчанию, поверх которой читаются YAML и env
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"

	cfg.Database.Driver = "postgres"
	cfg.Database.AutoMigrate = true

	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "FishLog"
	cfg.Email.AppURL = "http://localhost:3000"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/files"
	cfg.Storage.Region = "us-east-1"

	cfg.Images.MaxPerCapture = 5
	cfg.Images.MaxFileSize = 10 * 1024 * 1024 // 10MB
	cfg.Images.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	cfg.Images.ThumbnailWidth = 300
	cfg.Images.ThumbnailHeight = 300
	cfg.Images.OptimizeWidth = 1920

	cfg.CORS.AllowedOrigins = []string{"*"}

	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return cfg
}

// Load читает YAML (если файл существует), затем накладывает переменные окружения.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Работаем только на env и значениях по умолчанию
		default:
			return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig загружает конфигурацию из CONFIG_PATH и сохраняет ее в AppConfig
func LoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}
	AppConfig = cfg
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) is required")
	}
	if c.Images.MaxPerCapture <= 0 {
		return fmt.Errorf("images.max_per_capture must be positive, got %d", c.Images.MaxPerCapture)
	}
	if c.Images.MaxFileSize <= 0 {
		return fmt.Errorf("images.max_file_size must be positive, got %d", c.Images.MaxFileSize)
	}
	if c.Images.ThumbnailWidth <= 0 || c.Images.ThumbnailHeight <= 0 {
		return errors.New("images thumbnail box must be positive")
	}
	if len(c.Images.AllowedTypes) == 0 {
		return errors.New("images.allowed_types must not be empty")
	}

	switch c.Storage.Type {
	case "local", "s3", "minio", "cloudinary":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
