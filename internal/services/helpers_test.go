package services

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"testing"
	"time"

	"fishlog_backend/database"
	"fishlog_backend/internal/auth"
	"fishlog_backend/internal/email"
	"fishlog_backend/internal/imageprocessor"
	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/internal/storage/storagetest"
	"fishlog_backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testMaxPerCapture = 5

type testEnv struct {
	db        *gorm.DB
	store     *storagetest.MemoryStorage
	mailer    *email.MockProvider
	services  *ServiceContainer
	imageRepo repositories.ImageRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	jwtManager, err := auth.NewJWTManager("test-secret-with-enough-length-0123", 15*time.Minute)
	require.NoError(t, err)

	store := storagetest.NewMemoryStorage()
	mailer := email.NewMockProvider()

	container := NewServiceContainer(Dependencies{
		Storage: store,
		Processor: imageprocessor.NewProcessor(imageprocessor.Config{
			MaxFileSize:     10 * 1024 * 1024,
			AllowedTypes:    []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
			ThumbnailWidth:  300,
			ThumbnailHeight: 300,
		}),
		JWTManager:    jwtManager,
		EmailProvider: mailer,
		Upload: ImageUploadConfig{
			MaxPerCapture: testMaxPerCapture,
			MaxFileSize:   10 * 1024 * 1024,
			OptimizeWidth: 1920,
		},
		Auth: AuthConfig{
			RefreshTTL:      7 * 24 * time.Hour,
			VerificationTTL: 24 * time.Hour,
			AppURL:          "http://localhost:3000",
		},
	})

	return &testEnv{
		db:        db,
		store:     store,
		mailer:    mailer,
		services:  container,
		imageRepo: repositories.NewImageRepository(),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, repositories.NewUserRepository().Create(e.db, user))
	return user
}

func (e *testEnv) createCapture(t *testing.T, userID string) *models.Capture {
	t.Helper()
	capture := &models.Capture{
		UserID:      userID,
		Species:     "Trucha arcoíris",
		Weight:      1.4,
		CaptureDate: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repositories.NewCaptureRepository().Create(e.db, capture))
	return capture
}

// seedImages inserts rows without blobs to fill a capture's quota
func (e *testEnv) seedImages(t *testing.T, captureID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, e.imageRepo.Create(e.db, &models.Image{
			CaptureID:    captureID,
			OriginalURL:  "https://cdn.test/bucket/seed.jpg",
			ThumbnailURL: "https://cdn.test/bucket/seed_thumb.jpg",
			FileName:     "seed.jpg",
			MimeType:     "image/jpeg",
			UploadedAt:   time.Now(),
		}))
	}
}

func (e *testEnv) imageCount(t *testing.T, captureID string) int64 {
	t.Helper()
	count, err := e.imageRepo.CountByCapture(e.db, captureID)
	require.NoError(t, err)
	return count
}

// ellipseImage draws a blue ellipse on a white background
func ellipseImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	rx, ry := float64(w)/3, float64(h)/4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := (float64(x)-cx)/rx, (float64(y)-cy)/ry
			if dx*dx+dy*dy <= 1 {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, ellipseImage(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, ellipseImage(w, h)))
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, ellipseImage(w, h), nil))
	return buf.Bytes()
}

// countingFile wraps bytes as an UploadFile and counts Open calls
type countingFile struct {
	opens int
}

func (c *countingFile) file(name string, data []byte) UploadFile {
	return UploadFile{
		FileName: name,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			c.opens++
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func uploadFile(name string, data []byte) UploadFile {
	return (&countingFile{}).file(name, data)
}

func requireAppError(t *testing.T, err error, status int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, status, appErr.HTTPCode, appErr.Message)
	return appErr
}
