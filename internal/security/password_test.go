package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if hash == "Secret123" {
		t.Fatalf("hash must not equal the raw password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt prefix, got %q", hash)
	}

	if err := h.Compare(hash, "Secret123"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}

	if err := h.Compare(hash, "WrongPass"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHasher_CompareMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	err := h.Compare("not-a-hash", "anything")
	if err == nil {
		t.Fatalf("expected error for malformed hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("malformed hash should not be reported as a mismatch")
	}
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewHasher(99)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}

func TestHashPassword_DefaultCost(t *testing.T) {
	hash, err := HashPassword("P@ssw0rd!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost error: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected cost %d, got %d", bcrypt.DefaultCost, cost)
	}

	if err := CheckPassword(hash, "P@ssw0rd!"); err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
}
