package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
	"github.com/anandps/schooldesk/internal/pkg/auth"
)

type authFixture struct {
	store   *fakeStore
	tokens  *fakeTokenRepo
	jwt     *auth.JWTService
	service AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := newFakeStore()
	tokens := newFakeTokenRepo()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "schooldesk-test",
	})
	return &authFixture{
		store:   store,
		tokens:  tokens,
		jwt:     jwtService,
		service: NewAuthService(&fakeUserRepo{store: store}, tokens, jwtService, zerolog.Nop()),
	}
}

func (f *authFixture) addUserWithPassword(t *testing.T, username, password string, role models.Role) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := f.store.addUser(username, role)
	user.Password = hashed
	return user
}

func TestLoginIssuesTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUserWithPassword(t, "asha.n", "password1", models.RoleStudent)

	tokens, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Username: "asha.n",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "student", claims.UserType)

	// The refresh token is persisted and usable.
	userID, _, _, err := f.tokens.GetTokenByValue(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.addUserWithPassword(t, "asha.n", "password1", models.RoleStudent)

	_, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Username: "asha.n",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLoginUnknownUserLooksLikeBadCredentials(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "password1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addUserWithPassword(t, "asha.n", "password1", models.RoleStudent)

	first, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Username: "asha.n",
		Password: "password1",
	})
	require.NoError(t, err)

	second, err := f.service.RefreshToken(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old refresh token is revoked and cannot be replayed.
	_, err = f.service.RefreshToken(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenRevoked))
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RefreshToken(context.Background(), "never-issued")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenNotFound))
}

func TestRefreshExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUserWithPassword(t, "asha.n", "password1", models.RoleStudent)

	require.NoError(t, f.tokens.CreateToken(context.Background(), "stale", user.ID, time.Now().Add(-time.Minute)))

	_, err := f.service.RefreshToken(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}
