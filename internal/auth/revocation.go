package auth

import (
	"context"
	"fmt"
	"time"
)

const revokedPrefix = "revoked:"

// KV is the TTL key/value contract shared by the Redis client and the
// in-process cache.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
}

// Denylist remembers logged-out token ids until the tokens would have
// expired anyway.
type Denylist struct {
	kv  KV
	now func() time.Time
}

func NewDenylist(kv KV) *Denylist {
	return &Denylist{kv: kv, now: time.Now}
}

func (d *Denylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.kv.Set(ctx, revokedPrefix+jti, "1", ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok, err := d.kv.Get(ctx, revokedPrefix+jti)
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return ok, nil
}
