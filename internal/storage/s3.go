package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fishlog_backend/pkg/apperrors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// S3Storage implements Storage for AWS S3 and S3-compatible services
// (Cloudflare R2, DigitalOcean Spaces, ...) using the same SDK.
type S3Storage struct {
	DefaultKeyBuilder
	client   s3iface.S3API
	uploader s3manageriface.UploaderAPI
	bucket   string
	baseURL  string
}

// NewS3Storage creates a new S3 storage instance.
// A custom Endpoint switches the client to path-style addressing.
func NewS3Storage(cfg Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for S3 storage")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsConfig := &aws.Config{
		Region: aws.String(region),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}

	return newS3StorageWithClients(s3.New(sess), s3manager.NewUploader(sess), cfg.Bucket, baseURL), nil
}

func newS3StorageWithClients(client s3iface.S3API, uploader s3manageriface.UploaderAPI, bucket, baseURL string) *S3Storage {
	return &S3Storage{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *S3Storage) Backend() string { return "s3" }

// Upload uploads a file to S3
func (s *S3Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	input := &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return "", apperrors.Storage(err, "Error al subir el archivo al almacenamiento")
	}

	return s.publicURL(key), nil
}

// Delete removes a file from S3
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	if _, err := s.client.DeleteObjectWithContext(ctx, input); err != nil {
		if isS3NotFound(err) {
			return nil
		}
		return apperrors.Storage(err, "Error al eliminar el archivo del almacenamiento")
	}
	return nil
}

// Exists checks if a file exists in S3
func (s *S3Storage) Exists(ctx context.Context, key string) bool {
	_, err := s.head(ctx, key)
	return err == nil
}

func (s *S3Storage) GetMetadata(ctx context.Context, key string) (*ObjectMetadata, error) {
	out, err := s.head(ctx, key)
	if err != nil {
		if isS3NotFound(err) {
			err = ErrObjectNotFound
		}
		return nil, apperrors.Storage(err, "Error al obtener los metadatos del archivo")
	}

	meta := &ObjectMetadata{
		Size:        aws.Int64Value(out.ContentLength),
		ContentType: aws.StringValue(out.ContentType),
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	return meta, nil
}

func (s *S3Storage) KeyFromURL(url string) string {
	return keyFromPublicURL(s.baseURL, s.bucket, url)
}

func (s *S3Storage) head(ctx context.Context, key string) (*s3.HeadObjectOutput, error) {
	return s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
}

func (s *S3Storage) publicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
