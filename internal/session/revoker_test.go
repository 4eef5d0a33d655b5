package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRevoker(t *testing.T) (*Revoker, *miniredis.Miniredis) {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRevoker(client), server
}

func TestRevoker_RevokeAndCheck(t *testing.T) {
	// Arrange
	revoker, _ := setupRevoker(t)
	ctx := context.Background()

	// Act
	err := revoker.Revoke(ctx, "some-jti", time.Hour)

	// Assert
	require.NoError(t, err)
	assert.True(t, revoker.IsRevoked(ctx, "some-jti"), "Revoked jti should be reported revoked")
	assert.False(t, revoker.IsRevoked(ctx, "other-jti"), "Unrelated jti should not be revoked")
}

func TestRevoker_EntryExpires(t *testing.T) {
	// Arrange
	revoker, server := setupRevoker(t)
	ctx := context.Background()

	require.NoError(t, revoker.Revoke(ctx, "short-lived", time.Minute))
	require.True(t, revoker.IsRevoked(ctx, "short-lived"))

	// Act: advance past the TTL
	server.FastForward(2 * time.Minute)

	// Assert
	assert.False(t, revoker.IsRevoked(ctx, "short-lived"),
		"Entry should disappear once the token would have expired anyway")
}

func TestRevoker_NonPositiveTTLIsNoop(t *testing.T) {
	// Arrange
	revoker, _ := setupRevoker(t)
	ctx := context.Background()

	// Act
	err := revoker.Revoke(ctx, "already-expired", 0)

	// Assert
	require.NoError(t, err)
	assert.False(t, revoker.IsRevoked(ctx, "already-expired"),
		"An already-expired token needs no revocation entry")
}

func TestRevoker_FailsOpenOnRedisError(t *testing.T) {
	// Arrange
	revoker, server := setupRevoker(t)
	ctx := context.Background()

	require.NoError(t, revoker.Revoke(ctx, "some-jti", time.Hour))

	// Act: take redis down
	server.Close()

	// Assert
	assert.False(t, revoker.IsRevoked(ctx, "some-jti"),
		"Redis failure should not lock out valid sessions")
}
