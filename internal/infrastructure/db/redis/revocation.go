package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore records revoked tokens until their natural expiry. Tokens
// are stateless, so logout cannot delete anything server-side; instead the
// token's digest is kept here and checked by the auth middleware on every
// request. Key format: revoked:<sha256 hex of the raw token>.
type RevocationStore struct {
	client *redis.Client
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

func revocationKey(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return "revoked:" + hex.EncodeToString(sum[:])
}

// Revoke marks rawToken as revoked for ttl, which callers set to the token's
// remaining lifetime. A non-positive ttl means the token is already expired
// and nothing needs to be stored.
func (s *RevocationStore) Revoke(ctx context.Context, rawToken string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revocationKey(rawToken), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether rawToken has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKey(rawToken)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}
