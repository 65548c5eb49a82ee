package app

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/user-service/domain"
)

var testSecret = []byte("user-test-secret")

func TestRegisterAndProfile(t *testing.T) {
	s := NewService(testSecret)
	ctx := context.Background()

	user, err := s.Register(ctx, "jane@example.com", "s3cret", "Jane", "Roe")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret", user.PasswordHash, "password must be stored hashed")

	got, err := s.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "Jane", got.FirstName)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := NewService(testSecret)
	ctx := context.Background()

	_, err := s.Register(ctx, "jane@example.com", "pw", "Jane", "Roe")
	require.NoError(t, err)

	_, err = s.Register(ctx, "jane@example.com", "pw2", "Janet", "Roe")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	s := NewService(testSecret)
	ctx := context.Background()

	user, err := s.Register(ctx, "jane@example.com", "s3cret", "Jane", "Roe")
	require.NoError(t, err)

	tokenStr, loggedIn, err := s.Login(ctx, "jane@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, user.ID, claims["id"])
	assert.Equal(t, "jane@example.com", claims["email"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := NewService(testSecret)
	ctx := context.Background()

	_, err := s.Register(ctx, "jane@example.com", "s3cret", "Jane", "Roe")
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestProfileUnknownUser(t *testing.T) {
	s := NewService(testSecret)

	_, err := s.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
