package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"fishlog_backend/database"
	"fishlog_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, NewUserRepository().Create(db, user))
	return user
}

func createCapture(t *testing.T, db *gorm.DB, userID string) *models.Capture {
	t.Helper()
	capture := &models.Capture{UserID: userID, Species: "Trucha", Weight: 1.2, CaptureDate: time.Now()}
	require.NoError(t, NewCaptureRepository().Create(db, capture))
	return capture
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository()

	user := createUser(t, db, "Pescador")

	found, err := repo.FindByLogin(db, "pescador")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.FindByLogin(db, "PESCADOR@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	err = repo.Create(db, &models.User{Username: "other", Email: "pescador@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = repo.FindByID(db, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, repo.MarkVerified(db, user.ID))
	found, err = repo.FindByID(db, user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
}

func TestRefreshTokenRepository_RevokeAndCleanup(t *testing.T) {
	db := setupDB(t)
	repo := NewRefreshTokenRepository()
	user := createUser(t, db, "angler")

	active := &models.RefreshToken{UserID: user.ID, Token: "active", ExpiresAt: time.Now().Add(time.Hour)}
	expired := &models.RefreshToken{UserID: user.ID, Token: "expired", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(db, active))
	require.NoError(t, repo.Create(db, expired))

	count, err := repo.CountActiveByUserID(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Revoke(db, "active"))
	token, err := repo.FindByToken(db, "active")
	require.NoError(t, err)
	assert.True(t, token.Revoked)

	assert.ErrorIs(t, repo.Revoke(db, "unknown"), ErrTokenNotFound)

	deleted, err := repo.DeleteExpired(db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByToken(db, "expired")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestCaptureRepository_FindByUserPaginates(t *testing.T) {
	db := setupDB(t)
	repo := NewCaptureRepository()
	user := createUser(t, db, "angler")
	other := createUser(t, db, "other")

	for i := 0; i < 3; i++ {
		createCapture(t, db, user.ID)
	}
	createCapture(t, db, other.ID)

	captures, total, err := repo.FindByUser(db, user.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, captures, 2)

	captures, _, err = repo.FindByUser(db, user.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, captures, 1)
}

func TestImageRepository_CountAndDeleteByCapture(t *testing.T) {
	db := setupDB(t)
	repo := NewImageRepository()
	user := createUser(t, db, "angler")
	capture := createCapture(t, db, user.ID)

	count, err := repo.CountByCapture(db, capture.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(db, &models.Image{
			CaptureID:    capture.ID,
			OriginalURL:  "http://cdn/o",
			ThumbnailURL: "http://cdn/t",
			StorageKey:   "captures/o",
			UploadedAt:   time.Now(),
		}))
	}

	images, err := repo.FindByCapture(db, capture.ID)
	require.NoError(t, err)
	assert.Len(t, images, 3)

	require.NoError(t, repo.Delete(db, images[0].ID))
	assert.ErrorIs(t, repo.Delete(db, images[0].ID), ErrImageNotFound)

	deleted, err := repo.DeleteByCapture(db, capture.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
