package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrObjectNotFound is returned by GetMetadata when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectMetadata describes a stored blob.
type ObjectMetadata struct {
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Storage defines the uniform contract of an object storage backend.
// Errors returned from Upload, Delete and GetMetadata are *apperrors.AppError
// with code STORAGE_ERROR.
type Storage interface {
	// Upload stores the stream at key and returns its public URL
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists probes for the object; backend errors are reported as false
	Exists(ctx context.Context, key string) bool

	// GetMetadata returns size, content type and modification time of the object
	GetMetadata(ctx context.Context, key string) (*ObjectMetadata, error)

	// KeyFromURL maps a public URL produced by Upload back to its key
	KeyFromURL(url string) string

	KeyBuilder
	Backend() string
}

// Config holds storage configuration
type Config struct {
	Type      string // local, s3, minio, cloudinary
	BasePath  string // For local storage
	BaseURL   string // Public URL base
	Bucket    string // For S3/MinIO
	Region    string // For S3
	AccessKey string // For S3/MinIO
	SecretKey string // For S3/MinIO
	Endpoint  string // For R2, MinIO or custom S3
	UseSSL    bool   // For MinIO

	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
}

// NewStorage creates a new storage instance based on configuration.
// Every backend is wrapped with operation metrics.
func NewStorage(cfg Config) (Storage, error) {
	var (
		s   Storage
		err error
	)
	switch cfg.Type {
	case "local":
		s, err = NewLocalStorage(cfg)
	case "s3":
		s, err = NewS3Storage(cfg)
	case "minio":
		s, err = NewMinioStorage(cfg)
	case "cloudinary":
		s, err = NewCloudinaryStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return WithMetrics(s), nil
}
