package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fishlog_backend/pkg/apperrors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultContentType = "application/octet-stream"

// MinioClient is the subset of *minio.Client used by MinioStorage.
type MinioClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// MinioStorage implements Storage for a self-hosted MinIO server.
type MinioStorage struct {
	DefaultKeyBuilder
	client  MinioClient
	bucket  string
	baseURL string
}

func NewMinioStorage(cfg Config) (*MinioStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for MinIO storage")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for MinIO storage")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return newMinioStorageWithClient(client, cfg.Bucket, baseURL), nil
}

func newMinioStorageWithClient(client MinioClient, bucket, baseURL string) *MinioStorage {
	return &MinioStorage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *MinioStorage) Backend() string { return "minio" }

func (s *MinioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", apperrors.Storage(err, "Error al subir el archivo al almacenamiento")
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isMinioNotFound(err) {
		return apperrors.Storage(err, "Error al eliminar el archivo del almacenamiento")
	}
	return nil
}

func (s *MinioStorage) Exists(ctx context.Context, key string) bool {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	return err == nil
}

func (s *MinioStorage) GetMetadata(ctx context.Context, key string) (*ObjectMetadata, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			err = ErrObjectNotFound
		}
		return nil, apperrors.Storage(err, "Error al obtener los metadatos del archivo")
	}
	return &ObjectMetadata{
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

func (s *MinioStorage) KeyFromURL(url string) string {
	return keyFromPublicURL(s.baseURL, s.bucket, url)
}

func isMinioNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
