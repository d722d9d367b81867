package database

import (
	"path/filepath"
	"testing"

	"fishlog_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestAutoMigrate_SQLite(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))

	for _, model := range []interface{}{
		&models.User{}, &models.AuthUser{}, &models.RefreshToken{},
		&models.VerificationToken{}, &models.Capture{}, &models.Image{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}

	user := &models.User{Username: "angler", Email: "angler@example.com"}
	require.NoError(t, db.Create(user).Error)
	assert.NotEmpty(t, user.ID)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "test.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("test.db"))
	assert.Equal(t, "file:x?cache=shared&_foreign_keys=on&_busy_timeout=5000", sqliteDSN("file:x?cache=shared"))
	assert.Equal(t, "x.db?_foreign_keys=off", sqliteDSN("x.db?_foreign_keys=off"))
}
