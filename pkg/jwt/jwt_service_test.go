package jwt

import (
	"context"
	"testing"
	"time"

	"stillhouse/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenUserCarriesSessionID(t *testing.T) {
	svc := newJWTService("test-secret", "TEST")

	token, sessionID := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sessionID)

	claims, err := svc.GetClaimsByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt, time.Minute)

	_, sessionID2 := svc.GenerateTokenUser("user-1", domain.RoleUser)
	assert.NotEqual(t, sessionID, sessionID2)
}

func TestGetClaimsByToken(t *testing.T) {
	svc := newJWTService("test-secret", "TEST")

	t.Run("wrong secret", func(t *testing.T) {
		other := newJWTService("other-secret", "TEST")
		token, _ := other.GenerateTokenUser("user-1", domain.RoleUser)

		_, err := svc.GetClaimsByToken(token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		old := newJWTService("test-secret", "TEST")
		old.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
		token, _ := old.GenerateTokenUser("user-1", domain.RoleUser)

		_, err := svc.GetClaimsByToken(token)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := svc.GetUserIDByToken("not-a-token")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestMemoryDenylist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewMemoryDenylist().(*memoryDenylist)
	d.now = func() time.Time { return now }

	require.NoError(t, d.Revoke(ctx, "s1", now.Add(time.Hour)))
	require.NoError(t, d.Revoke(ctx, "already-expired", now.Add(-time.Minute)))

	revoked, err := d.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = d.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked, "revocation lapses once the token has expired")
}
