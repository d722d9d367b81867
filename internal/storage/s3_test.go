package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"fishlog_backend/pkg/apperrors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	objects   map[string]*s3.HeadObjectOutput
	deleteErr error
	deleted   []string
}

func (f *fakeS3) DeleteObjectWithContext(ctx aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, aws.StringValue(in.Key))
	delete(f.objects, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObjectWithContext(ctx aws.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	out, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New("NotFound", "Not Found", nil)
	}
	return out, nil
}

type fakeUploader struct {
	inputs []*s3manager.UploadInput
	err    error
}

func (f *fakeUploader) Upload(in *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), in, opts...)
}

func (f *fakeUploader) UploadWithContext(ctx aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.ReadAll(in.Body); err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	return &s3manager.UploadOutput{}, nil
}

func TestS3Storage_Upload(t *testing.T) {
	uploader := &fakeUploader{}
	s := newS3StorageWithClients(&fakeS3{}, uploader, "fish-bucket", "https://cdn.example.com/")

	key := "captures/user_u/capture_c/1_abcd1234_photo.jpg"
	url, err := s.Upload(context.Background(), key, strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/"+key, url)
	assert.Equal(t, key, s.KeyFromURL(url))
	require.Len(t, uploader.inputs, 1)
	assert.Equal(t, "fish-bucket", aws.StringValue(uploader.inputs[0].Bucket))
	assert.Equal(t, "image/jpeg", aws.StringValue(uploader.inputs[0].ContentType))
}

func TestS3Storage_UploadFailureIsStorageError(t *testing.T) {
	s := newS3StorageWithClients(&fakeS3{}, &fakeUploader{err: errors.New("connection reset")}, "b", "https://cdn")

	_, err := s.Upload(context.Background(), "k", strings.NewReader("x"), 1, "image/png")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageError))
}

func TestS3Storage_Delete(t *testing.T) {
	client := &fakeS3{objects: map[string]*s3.HeadObjectOutput{}}
	s := newS3StorageWithClients(client, &fakeUploader{}, "b", "https://cdn")

	require.NoError(t, s.Delete(context.Background(), "missing-is-fine"))

	client.deleteErr = awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	require.NoError(t, s.Delete(context.Background(), "k"))

	client.deleteErr = awserr.New("AccessDenied", "denied", nil)
	err := s.Delete(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageError))
}

func TestS3Storage_ExistsAndMetadata(t *testing.T) {
	modified := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	client := &fakeS3{objects: map[string]*s3.HeadObjectOutput{
		"k": {ContentLength: aws.Int64(1234), ContentType: aws.String("image/png"), LastModified: aws.Time(modified)},
	}}
	s := newS3StorageWithClients(client, &fakeUploader{}, "b", "https://cdn")

	assert.True(t, s.Exists(context.Background(), "k"))
	assert.False(t, s.Exists(context.Background(), "other"))

	meta, err := s.GetMetadata(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), meta.Size)
	assert.Equal(t, "image/png", meta.ContentType)
	assert.Equal(t, modified, meta.LastModified)

	_, err = s.GetMetadata(context.Background(), "other")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
