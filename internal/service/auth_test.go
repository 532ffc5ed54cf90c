package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/security"
	"scooter-rent-backend/internal/service"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	svc := service.NewAuthService([]domain.Admin{{Username: "operator", PasswordHash: string(hash)}}, tokens)

	t.Run("Success", func(t *testing.T) {
		token, expiresAt, err := svc.Login(ctx, "Operator", "s3cret-pass")
		require.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "operator", claims.Username)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "operator", "guess")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("UnknownAdmin", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "root", "s3cret-pass")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
