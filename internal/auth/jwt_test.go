package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emali/estates-api/internal/cache"
	"github.com/emali/estates-api/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

func testUser() user.User {
	return user.User{
		ID:         "3f1c2d9e-0000-4000-8000-000000000001",
		Email:      "amani@example.com",
		Phone:      "0788123456",
		Username:   "amani",
		Name:       "Amani Uwase",
		Role:       user.RoleAgent,
		IsVerified: true,
		IsActive:   true,
	}
}

func TestManager_RoundTrip(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	m := NewManager("secret", 0)
	m.now = func() time.Time { return now }

	raw, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyToken(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID() != testUser().ID {
		t.Fatalf("sub = %q", claims.UserID())
	}
	if claims.Email != "amani@example.com" || claims.Phone != "0788123456" || claims.Username != "amani" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.Role != "AGENT" || !claims.IsVerified || !claims.IsActive {
		t.Fatalf("unexpected flag claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("missing jti")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != DefaultTokenTTL {
		t.Fatalf("ttl = %v, want %v", got, DefaultTokenTTL)
	}
	if got := claims.RemainingTTL(now.Add(2 * time.Hour)); got != 10*time.Hour {
		t.Fatalf("remaining = %v", got)
	}
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	m := NewManager("secret", time.Hour)
	m.now = func() time.Time { return now }

	raw, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	now = now.Add(61 * time.Minute)
	_, err = m.VerifyToken(raw)
	if !errors.Is(err, ErrInvalidToken) || !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestManager_RejectsWrongSecretAndAlgorithm(t *testing.T) {
	raw, err := NewManager("one", time.Hour).GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewManager("two", time.Hour).VerifyToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "x",
			ID:        "y",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := NewManager("one", time.Hour).VerifyToken(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg none, got %v", err)
	}
}

func TestManager_RejectsGarbage(t *testing.T) {
	if _, err := NewManager("secret", time.Hour).VerifyToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDenylist_ExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	kv := cache.New().WithClock(func() time.Time { return now })

	d := NewDenylist(kv)
	d.now = func() time.Time { return now }

	if err := d.Revoke(ctx, "jti-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	revoked, err := d.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("revoked=%v err=%v", revoked, err)
	}

	now = now.Add(time.Hour + time.Second)
	revoked, err = d.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("entry should expire with the token: revoked=%v err=%v", revoked, err)
	}
}

func TestDenylist_AlreadyExpiredTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := cache.New()
	d := NewDenylist(kv)

	if err := d.Revoke(ctx, "old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "revoked:old"); ok {
		t.Fatalf("expired token should not be stored")
	}
}
