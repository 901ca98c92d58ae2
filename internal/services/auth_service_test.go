package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGohila/LMS/internal/config"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
)

type stubUserRepo struct {
	repository.UserRepository
	users map[string]*models.User
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := r.users[email]; ok {
		return user, nil
	}
	return nil, errors.New("record not found")
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, errors.New("record not found")
}

type stubRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	tokens map[string]*models.RefreshToken
}

func (r *stubRefreshTokenRepo) Create(ctx context.Context, rt *models.RefreshToken) error {
	r.tokens[rt.Token] = rt
	return nil
}

func (r *stubRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := r.tokens[token]; ok {
		return rt, nil
	}
	return nil, errors.New("record not found")
}

func (r *stubRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func authFixture(t *testing.T) (*AuthService, *stubRefreshTokenRepo) {
	t.Helper()

	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	users := &stubUserRepo{users: map[string]*models.User{
		"officer@example.com": {
			ID:                1,
			Email:             "officer@example.com",
			EncryptedPassword: hash,
			FullName:          "Jane Officer",
			Role:              "officer",
			Status:            models.StatusActive,
		},
	}}
	tokens := &stubRefreshTokenRepo{tokens: map[string]*models.RefreshToken{}}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}

	return NewAuthService(users, tokens, cfg), tokens
}

func TestAuthService_Login(t *testing.T) {
	svc, tokens := authFixture(t)

	result, err := svc.Login(context.Background(), "officer@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "officer@example.com", result.User.Email)
	assert.Contains(t, tokens.tokens, result.RefreshToken)

	// The JWT carries the user's identity and role.
	parsed, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(1), claims["user_id"])
	assert.Equal(t, "officer", claims["role"])
}

func TestAuthService_LoginRejectsWrongPassword(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), "officer@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestAuthService_LoginRejectsUnknownUser(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "secret123")
	require.Error(t, err)
}

func TestAuthService_RefreshTokenRotates(t *testing.T) {
	svc, tokens := authFixture(t)

	login, err := svc.Login(context.Background(), "officer@example.com", "secret123")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old token is single-use.
	assert.NotContains(t, tokens.tokens, login.RefreshToken)
	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestAuthService_RefreshTokenRejectsExpired(t *testing.T) {
	svc, tokens := authFixture(t)

	past := time.Now().Add(-time.Hour)
	tokens.tokens["stale"] = &models.RefreshToken{UserID: 1, Token: "stale", ExpiresAt: &past}

	_, err := svc.RefreshToken(context.Background(), "stale")
	require.Error(t, err)
	assert.Equal(t, "token expired", err.Error())
	assert.NotContains(t, tokens.tokens, "stale")
}
