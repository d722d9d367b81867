package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fishlog_backend/pkg/apperrors"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudinary struct {
	uploads    []uploader.UploadParams
	destroyed  []string
	destroyErr error
	assets     map[string]*admin.AssetResult
}

func (f *fakeCloudinary) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploads = append(f.uploads, params)
	return &uploader.UploadResult{
		PublicID:  params.PublicID,
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1712345678/" + params.PublicID + ".jpg",
	}, nil
}

func (f *fakeCloudinary) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	if f.destroyErr != nil {
		return nil, f.destroyErr
	}
	f.destroyed = append(f.destroyed, params.PublicID)
	return &uploader.DestroyResult{Result: "not found"}, nil
}

func (f *fakeCloudinary) Asset(ctx context.Context, params admin.AssetParams) (*admin.AssetResult, error) {
	if asset, ok := f.assets[params.PublicID]; ok {
		return asset, nil
	}
	return &admin.AssetResult{Error: api.ErrorResp{Message: "Resource not found - " + params.PublicID}}, nil
}

func TestCloudinaryStorage_UploadUsesPublicIDWithoutExtension(t *testing.T) {
	client := &fakeCloudinary{}
	s := newCloudinaryStorageWithAPI(client)
	key := "captures/user_u/capture_c/1_abcd1234_photo.jpg"

	url, err := s.Upload(context.Background(), key, strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)

	require.Len(t, client.uploads, 1)
	assert.Equal(t, "captures/user_u/capture_c/1_abcd1234_photo", client.uploads[0].PublicID)
	assert.Equal(t, key, s.KeyFromURL(url))
}

func TestCloudinaryStorage_DeleteNotFoundTolerated(t *testing.T) {
	client := &fakeCloudinary{}
	s := newCloudinaryStorageWithAPI(client)

	require.NoError(t, s.Delete(context.Background(), "captures/a/b.png"))
	assert.Equal(t, []string{"captures/a/b"}, client.destroyed)

	client.destroyErr = errors.New("invalid signature")
	err := s.Delete(context.Background(), "captures/a/b.png")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageError))
}

func TestCloudinaryStorage_Metadata(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	client := &fakeCloudinary{assets: map[string]*admin.AssetResult{
		"thumbnails/x/thumb_a": {Bytes: 2048, Format: "jpg", CreatedAt: created},
	}}
	s := newCloudinaryStorageWithAPI(client)

	assert.True(t, s.Exists(context.Background(), "thumbnails/x/thumb_a.jpg"))
	assert.False(t, s.Exists(context.Background(), "thumbnails/x/missing.jpg"))

	meta, err := s.GetMetadata(context.Background(), "thumbnails/x/thumb_a.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), meta.Size)
	assert.Equal(t, "image/jpeg", meta.ContentType)
	assert.Equal(t, created, meta.LastModified)

	_, err = s.GetMetadata(context.Background(), "thumbnails/x/missing.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestCloudinaryStorage_KeyFromURL(t *testing.T) {
	s := newCloudinaryStorageWithAPI(&fakeCloudinary{})

	assert.Equal(t, "thumbnails/u/c/1_ab_thumb_p.png",
		s.KeyFromURL("https://res.cloudinary.com/demo/image/upload/v99/thumbnails/u/c/1_ab_thumb_p.png"))
	assert.Equal(t, "captures/p.jpg",
		s.KeyFromURL("https://res.cloudinary.com/demo/image/upload/captures/p.jpg"))
	assert.Empty(t, s.KeyFromURL("https://example.com/p.jpg"))
}
