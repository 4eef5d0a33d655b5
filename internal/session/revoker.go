package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker keeps a redis set of revoked token ids so logout ends a
// session before the token's natural expiry. Entries carry a TTL equal
// to the remaining token lifetime, after which redis forgets them.
type Revoker struct {
	client *redis.Client
}

func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

// Revoke marks the token id invalid for ttl. A non-positive ttl means
// the token already expired and there is nothing to do.
func (r *Revoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether the token id has been revoked. Redis errors
// fail open: a read failure never locks out a valid session.
func (r *Revoker) IsRevoked(ctx context.Context, jti string) bool {
	n, err := r.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func revokedKey(jti string) string {
	return fmt.Sprintf("revoked_token:%s", jti)
}
