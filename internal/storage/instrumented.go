package storage

import (
	"context"
	"io"

	"fishlog_backend/internal/metrics"
)

// instrumentedStorage records every backend call in
// fishlog_storage_operations_total.
type instrumentedStorage struct {
	Storage
}

// WithMetrics wraps s with operation counters
func WithMetrics(s Storage) Storage {
	if _, ok := s.(*instrumentedStorage); ok {
		return s
	}
	return &instrumentedStorage{Storage: s}
}

func (s *instrumentedStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	url, err := s.Storage.Upload(ctx, key, reader, size, contentType)
	metrics.RecordStorageOperation(s.Backend(), "upload", err)
	return url, err
}

func (s *instrumentedStorage) Delete(ctx context.Context, key string) error {
	err := s.Storage.Delete(ctx, key)
	metrics.RecordStorageOperation(s.Backend(), "delete", err)
	return err
}

func (s *instrumentedStorage) GetMetadata(ctx context.Context, key string) (*ObjectMetadata, error) {
	meta, err := s.Storage.GetMetadata(ctx, key)
	metrics.RecordStorageOperation(s.Backend(), "metadata", err)
	return meta, err
}
