package services

import (
	"context"
	"net/http"
	"testing"

	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetMe(t *testing.T) {
	env := newTestEnv(t)
	resp := register(t, env, "juan")

	me, err := env.services.UserService.GetMe(context.Background(), env.db, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "juan", me.Username)
	assert.Equal(t, string(models.UserRoleUser), me.Role)

	_, err = env.services.UserService.GetMe(context.Background(), env.db, "missing")
	requireAppError(t, err, http.StatusNotFound)
}

func TestUserService_EnsureFirstAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	authUsers := repositories.NewAuthUserRepository()

	require.NoError(t, env.services.UserService.EnsureFirstAdmin(ctx, env.db, "", "", ""))
	count, err := authUsers.CountByRole(env.db, models.UserRoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, env.services.UserService.EnsureFirstAdmin(ctx, env.db, "admin", "admin@fishlog.test", "admin-password"))
	require.NoError(t, env.services.UserService.EnsureFirstAdmin(ctx, env.db, "admin2", "admin2@fishlog.test", "admin-password"))

	count, err = authUsers.CountByRole(env.db, models.UserRoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
