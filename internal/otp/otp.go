package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/emali/estates-api/internal/notifications"
)

const (
	DefaultTTL    = 5 * time.Minute
	DefaultLength = 6

	keyPrefix = "otp:"
)

var ErrDispatch = errors.New("otp dispatch failed")

// KV is the slice of the Redis client / in-process cache the store needs.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

type Recipient struct {
	Email    string
	Name     string
	Phone    string
	Language string
}

type Store struct {
	kv       KV
	notifier notifications.Notifier
	ttl      time.Duration
	length   int
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLength(n int) Option {
	return func(s *Store) {
		if n > 0 && n <= 18 {
			s.length = n
		}
	}
}

func NewStore(kv KV, notifier notifications.Notifier, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		notifier: notifier,
		ttl:      DefaultTTL,
		length:   DefaultLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration { return s.ttl }

// GenerateAndStore sends a fresh code to the recipient and, only once the
// send succeeded, saves it under the recipient's email. A newer code
// replaces any previous one.
func (s *Store) GenerateAndStore(ctx context.Context, to Recipient) (string, error) {
	code, err := s.generate()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	err = s.notifier.SendOTP(ctx, notifications.SendOTPInput{
		Email:    to.Email,
		Phone:    to.Phone,
		Name:     to.Name,
		Code:     code,
		TTL:      s.ttl,
		Language: to.Language,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDispatch, err)
	}

	if err := s.kv.Set(ctx, key(to.Email), code, s.ttl); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	return code, nil
}

// Verify reports whether code matches the live code for email. The stored
// code is left in place.
func (s *Store) Verify(ctx context.Context, email, code string) (bool, error) {
	stored, ok, err := s.kv.Get(ctx, key(email))
	if err != nil {
		return false, fmt.Errorf("load otp: %w", err)
	}
	if !ok || stored == "" || len(stored) != len(code) {
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1, nil
}

func (s *Store) Delete(ctx context.Context, email string) error {
	if err := s.kv.Delete(ctx, key(email)); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// generate draws uniformly from [10^(n-1), 10^n) so codes never start with 0.
func (s *Store) generate() (string, error) {
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s.length-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(low, big.NewInt(10)), low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, low).String(), nil
}

func key(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}
