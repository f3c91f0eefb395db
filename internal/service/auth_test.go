package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydromate/backend/internal/models"
	"github.com/hydromate/backend/internal/testhelpers"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewTestDB(t)
	svc := NewAuthService(db, "test-secret")

	t.Run("register then validate round-trips the claims", func(t *testing.T) {
		token, err := svc.Register(ctx, "Joana", "joana@example.com", "hunter22")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "joana@example.com", claims.Email)
		assert.NotEmpty(t, claims.UserID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "Dup", "dup@example.com", "hunter22")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "Dup Again", "dup@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("duplicate insert past the lookup maps to ErrUserExists", func(t *testing.T) {
		_, err := svc.Register(ctx, "Ghost", "ghost@example.com", "hunter22")
		require.NoError(t, err)

		// Soft-deleting hides the row from the pre-insert lookup while the
		// unique index on email still holds it, which is exactly what a
		// concurrent registration winner looks like to the loser's insert.
		require.NoError(t, db.Where("email = ?", "ghost@example.com").Delete(&models.User{}).Error)

		_, err = svc.Register(ctx, "Ghost Again", "ghost@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("login with correct credentials", func(t *testing.T) {
		_, err := svc.Register(ctx, "Miguel", "miguel@example.com", "s3cret99")
		require.NoError(t, err)

		token, err := svc.Login(ctx, "miguel@example.com", "s3cret99")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "miguel@example.com", claims.Email)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := svc.Register(ctx, "Rita", "rita@example.com", "correcthorse")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "rita@example.com", "wrongbattery")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login with unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := NewAuthService(db, "other-secret")
		token, err := other.Register(ctx, "Eve", "eve@example.com", "password1")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
