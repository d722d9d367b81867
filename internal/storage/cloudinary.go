package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"fishlog_backend/pkg/apperrors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryNotFound = "not found"

var versionSegment = regexp.MustCompile(`^v\d+/`)

// CloudinaryAPI is the subset of the Cloudinary SDK used by CloudinaryStorage.
type CloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
	Asset(ctx context.Context, params admin.AssetParams) (*admin.AssetResult, error)
}

type cloudinaryClient struct {
	cld *cloudinary.Cloudinary
}

func (c *cloudinaryClient) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	return c.cld.Upload.Upload(ctx, file, params)
}

func (c *cloudinaryClient) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	return c.cld.Upload.Destroy(ctx, params)
}

func (c *cloudinaryClient) Asset(ctx context.Context, params admin.AssetParams) (*admin.AssetResult, error) {
	return c.cld.Admin.Asset(ctx, params)
}

// CloudinaryStorage implements Storage on top of Cloudinary image hosting.
// Cloudinary addresses assets by public id, which is the key without extension.
type CloudinaryStorage struct {
	DefaultKeyBuilder
	api CloudinaryAPI
}

func NewCloudinaryStorage(cfg Config) (*CloudinaryStorage, error) {
	if cfg.CloudinaryCloud == "" || cfg.CloudinaryKey == "" || cfg.CloudinarySecret == "" {
		return nil, fmt.Errorf("cloud name, api key and api secret are required for Cloudinary storage")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStorage{api: &cloudinaryClient{cld: cld}}, nil
}

func newCloudinaryStorageWithAPI(client CloudinaryAPI) *CloudinaryStorage {
	return &CloudinaryStorage{api: client}
}

func (s *CloudinaryStorage) Backend() string { return "cloudinary" }

func (s *CloudinaryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	resp, err := s.api.Upload(ctx, reader, uploader.UploadParams{
		PublicID:     publicID(key),
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err == nil && resp != nil && resp.Error.Message != "" {
		err = errors.New(resp.Error.Message)
	}
	if err != nil {
		return "", apperrors.Storage(err, "Error al subir el archivo al almacenamiento")
	}
	if resp == nil || resp.SecureURL == "" {
		return "", apperrors.Storage(errors.New("empty upload response"), "Error al subir el archivo al almacenamiento")
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	resp, err := s.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID(key),
		ResourceType: "image",
	})
	if err == nil && resp != nil && resp.Error.Message != "" {
		err = errors.New(resp.Error.Message)
	}
	if err != nil {
		return apperrors.Storage(err, "Error al eliminar el archivo del almacenamiento")
	}
	// "ok" or "not found"; both mean the asset is gone
	return nil
}

func (s *CloudinaryStorage) Exists(ctx context.Context, key string) bool {
	_, err := s.asset(ctx, key)
	return err == nil
}

func (s *CloudinaryStorage) GetMetadata(ctx context.Context, key string) (*ObjectMetadata, error) {
	asset, err := s.asset(ctx, key)
	if err != nil {
		return nil, apperrors.Storage(err, "Error al obtener los metadatos del archivo")
	}
	return &ObjectMetadata{
		Size:         int64(asset.Bytes),
		ContentType:  contentTypeForFormat(asset.Format),
		LastModified: asset.CreatedAt,
	}, nil
}

// KeyFromURL strips the delivery prefix (".../upload/") and the version
// segment from a Cloudinary URL.
func (s *CloudinaryStorage) KeyFromURL(url string) string {
	idx := strings.Index(url, "/upload/")
	if idx < 0 {
		return ""
	}
	key := url[idx+len("/upload/"):]
	return versionSegment.ReplaceAllString(key, "")
}

func (s *CloudinaryStorage) asset(ctx context.Context, key string) (*admin.AssetResult, error) {
	resp, err := s.api.Asset(ctx, admin.AssetParams{PublicID: publicID(key)})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrObjectNotFound
	}
	if msg := resp.Error.Message; msg != "" {
		if strings.Contains(strings.ToLower(msg), cloudinaryNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, errors.New(msg)
	}
	return resp, nil
}

func publicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

func contentTypeForFormat(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "":
		return defaultContentType
	default:
		return "image/" + strings.ToLower(format)
	}
}
