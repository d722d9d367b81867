package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"fishlog_backend/pkg/apperrors"
)

// LocalStorage implements Storage on the local filesystem (development)
type LocalStorage struct {
	DefaultKeyBuilder
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./uploads"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/files"
	}

	// Create base directory if it doesn't exist
	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: cfg.BasePath,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

func (s *LocalStorage) Backend() string { return "local" }

// Upload stores a file locally
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", apperrors.Storage(err, "Error al subir el archivo al almacenamiento")
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.Storage(err, "Error al subir el archivo al almacenamiento")
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", apperrors.Storage(err, "Error al subir el archivo al almacenamiento")
	}

	_, err = io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// partial files must not stay behind
		_ = os.Remove(fullPath)
		return "", apperrors.Storage(err, "Error al subir el archivo al almacenamiento")
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Delete removes a file from local storage
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return apperrors.Storage(err, "Error al eliminar el archivo del almacenamiento")
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return apperrors.Storage(err, "Error al eliminar el archivo del almacenamiento")
	}
	return nil
}

// Exists checks if a file exists in local storage
func (s *LocalStorage) Exists(ctx context.Context, key string) bool {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

func (s *LocalStorage) GetMetadata(ctx context.Context, key string) (*ObjectMetadata, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, apperrors.Storage(err, "Error al obtener los metadatos del archivo")
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			err = ErrObjectNotFound
		}
		return nil, apperrors.Storage(err, "Error al obtener los metadatos del archivo")
	}

	contentType := mime.TypeByExtension(filepath.Ext(fullPath))
	if contentType == "" {
		contentType = defaultContentType
	}
	return &ObjectMetadata{
		Size:         info.Size(),
		ContentType:  contentType,
		LastModified: info.ModTime(),
	}, nil
}

func (s *LocalStorage) KeyFromURL(url string) string {
	return keyFromPublicURL(s.baseURL, "", url)
}

// resolve maps a key into basePath, rejecting keys that escape it
func (s *LocalStorage) resolve(key string) (string, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.basePath, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("invalid storage key")
	}
	return fullPath, nil
}
