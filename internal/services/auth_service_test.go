package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"fishlog_backend/internal/models"
	"fishlog_backend/internal/repositories"
	"fishlog_backend/internal/services/dto"
	"fishlog_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, env *testEnv, username string) *dto.RegisterResponse {
	t.Helper()
	resp, err := env.services.AuthService.Register(context.Background(), env.db, &dto.RegisterRequest{
		Username: username,
		Email:    username + "@Example.com",
		Password: "sup3rsecret",
		FullName: "Juan Pescador",
	})
	require.NoError(t, err)
	return resp
}

func verificationToken(t *testing.T, env *testEnv) string {
	t.Helper()
	sent, ok := env.mailer.LastVerification()
	require.True(t, ok)
	u, err := url.Parse(sent.VerificationURL)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)

	resp := register(t, env, "juan")
	assert.Equal(t, "juan", resp.User.Username)
	assert.Equal(t, "juan@example.com", resp.User.Email)
	assert.Equal(t, string(models.UserRoleUser), resp.User.Role)
	assert.False(t, resp.User.IsVerified)

	sent, ok := env.mailer.LastVerification()
	require.True(t, ok)
	assert.Equal(t, "juan@example.com", sent.To)
	assert.Contains(t, sent.VerificationURL, "http://localhost:3000/verify-email?token=")
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "juan")

	_, err := env.services.AuthService.Register(context.Background(), env.db, &dto.RegisterRequest{
		Username: "JUAN",
		Email:    "otro@example.com",
		Password: "sup3rsecret",
	})
	requireAppError(t, err, http.StatusConflict)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.services.AuthService.Register(context.Background(), env.db, &dto.RegisterRequest{
		Username: "juan",
		Email:    "juan@example.com",
		Password: "short",
	})
	assert.True(t, errors.Is(err, apperrors.ErrWeakPassword))
}

func TestAuthService_Register_EmailFailureDoesNotFail(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.Err = errors.New("smtp down")

	resp := register(t, env, "juan")
	assert.NotEmpty(t, resp.User.ID)
}

func TestAuthService_LoginRefreshLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	register(t, env, "juan")

	_, err := env.services.AuthService.Login(ctx, env.db, &dto.LoginRequest{Login: "juan", Password: "wrong-password"})
	requireAppError(t, err, http.StatusUnauthorized)

	_, err = env.services.AuthService.Login(ctx, env.db, &dto.LoginRequest{Login: "nadie", Password: "sup3rsecret"})
	requireAppError(t, err, http.StatusUnauthorized)

	session, err := env.services.AuthService.Login(ctx, env.db, &dto.LoginRequest{Login: "juan@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "Bearer", session.TokenType)

	rotated, err := env.services.AuthService.Refresh(ctx, env.db, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// старый токен после ротации недействителен
	_, err = env.services.AuthService.Refresh(ctx, env.db, session.RefreshToken)
	requireAppError(t, err, http.StatusUnauthorized)

	require.NoError(t, env.services.AuthService.Logout(ctx, env.db, rotated.RefreshToken))
	require.NoError(t, env.services.AuthService.Logout(ctx, env.db, rotated.RefreshToken))
	require.NoError(t, env.services.AuthService.Logout(ctx, env.db, "unknown"))

	_, err = env.services.AuthService.Refresh(ctx, env.db, rotated.RefreshToken)
	requireAppError(t, err, http.StatusUnauthorized)
}

func TestAuthService_RefreshExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	register(t, env, "juan")

	session, err := env.services.AuthService.Login(ctx, env.db, &dto.LoginRequest{Login: "juan", Password: "sup3rsecret"})
	require.NoError(t, err)

	svc := env.services.AuthService.(*authService)
	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	_, err = svc.Refresh(ctx, env.db, session.RefreshToken)
	requireAppError(t, err, http.StatusUnauthorized)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp := register(t, env, "juan")
	token := verificationToken(t, env)

	require.NoError(t, env.services.AuthService.VerifyEmail(ctx, env.db, token))

	user, err := repositories.NewUserRepository().FindByID(env.db, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	err = env.services.AuthService.VerifyEmail(ctx, env.db, token)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidVerificationToken))

	err = env.services.AuthService.VerifyEmail(ctx, env.db, "unknown")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidVerificationToken))
}

func TestAuthService_ResendVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	register(t, env, "juan")
	first := verificationToken(t, env)

	require.NoError(t, env.services.AuthService.ResendVerification(ctx, env.db, "nobody@example.com"))
	assert.Len(t, env.mailer.Verifications, 1)

	require.NoError(t, env.services.AuthService.ResendVerification(ctx, env.db, "JUAN@example.com"))
	require.Len(t, env.mailer.Verifications, 2)
	second := verificationToken(t, env)
	assert.NotEqual(t, first, second)

	err := env.services.AuthService.VerifyEmail(ctx, env.db, first)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidVerificationToken))
	require.NoError(t, env.services.AuthService.VerifyEmail(ctx, env.db, second))
}

func TestAuthService_CleanupExpiredTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	register(t, env, "juan")
	_, err := env.services.AuthService.Login(ctx, env.db, &dto.LoginRequest{Login: "juan", Password: "sup3rsecret"})
	require.NoError(t, err)

	result, err := env.services.AuthService.CleanupExpiredTokens(ctx, env.db)
	require.NoError(t, err)
	assert.Zero(t, result.RefreshTokensDeleted)
	assert.Zero(t, result.VerificationTokensDeleted)

	svc := env.services.AuthService.(*authService)
	svc.now = func() time.Time { return time.Now().Add(30 * 24 * time.Hour) }

	result, err = svc.CleanupExpiredTokens(ctx, env.db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.RefreshTokensDeleted)
	assert.EqualValues(t, 1, result.VerificationTokensDeleted)
}
