package otp_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/emali/estates-api/internal/cache"
	"github.com/emali/estates-api/internal/notifications"
	"github.com/emali/estates-api/internal/otp"
	"github.com/emali/estates-api/internal/redisclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifications.SendOTPInput
	err  error
}

func (r *recordingNotifier) SendOTP(_ context.Context, in notifications.SendOTPInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, in)
	return nil
}

func (r *recordingNotifier) last() notifications.SendOTPInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

var sixDigits = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func TestGenerateAndStore_SendsThenStores(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	s := otp.NewStore(cache.New(), n)

	code, err := s.GenerateAndStore(ctx, otp.Recipient{Email: "a@x.com", Name: "Amani"})
	require.NoError(t, err)
	assert.Regexp(t, sixDigits, code)

	sent := n.last()
	assert.Equal(t, code, sent.Code)
	assert.Equal(t, "a@x.com", sent.Email)
	assert.Equal(t, "Amani", sent.Name)
	assert.Equal(t, otp.DefaultTTL, sent.TTL)

	ok, err := s.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateAndStore_DispatchFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	kv := cache.New()
	n := &recordingNotifier{err: errors.New("smtp down")}
	s := otp.NewStore(kv, n)

	_, err := s.GenerateAndStore(ctx, otp.Recipient{Email: "a@x.com", Name: "Amani"})
	require.Error(t, err)
	assert.ErrorIs(t, err, otp.ErrDispatch)

	_, found, err := kv.Get(ctx, "otp:a@x.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	s := otp.NewStore(cache.New(), &recordingNotifier{})

	code, err := s.GenerateAndStore(ctx, otp.Recipient{Email: "A@X.com", Name: "Amani"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
		code  string
		want  bool
	}{
		{"exact", "a@x.com", code, true},
		{"email case folded", "A@x.COM", code, true},
		{"wrong code", "a@x.com", "000000", false},
		{"short code", "a@x.com", code[:5], false},
		{"unknown email", "b@x.com", code, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Verify(ctx, tt.email, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerify_CodeSurvivesSuccessfulVerify(t *testing.T) {
	ctx := context.Background()
	s := otp.NewStore(cache.New(), &recordingNotifier{})

	code, err := s.GenerateAndStore(ctx, otp.Recipient{Email: "a@x.com"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ok, err := s.Verify(ctx, "a@x.com", code)
		require.NoError(t, err)
		assert.True(t, ok, "verify #%d", i+1)
	}
}

func TestVerify_OnlyLatestCodeCounts(t *testing.T) {
	ctx := context.Background()
	s := otp.NewStore(cache.New(), &recordingNotifier{})

	var first, second string
	var err error
	// codes are random; retry until the refresh yields a different one
	for first == second {
		first, err = s.GenerateAndStore(ctx, otp.Recipient{Email: "a@x.com"})
		require.NoError(t, err)
		second, err = s.GenerateAndStore(ctx, otp.Recipient{Email: "a@x.com"})
		require.NoError(t, err)
	}

	ok, err := s.Verify(ctx, "a@x.com", first)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Verify(ctx, "a@x.com", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_ExpiredCodeFails(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	kv := cache.New().WithClock(func() time.Time { return now })
	s := otp.NewStore(kv, &recordingNotifier{})

	code, err := s.GenerateAndStore(ctx, otp.Recipient{Email: "a@x.com"})
	require.NoError(t, err)

	now = now.Add(299 * time.Second)
	ok, err := s.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, err = s.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := otp.NewStore(cache.New(), &recordingNotifier{})

	code, err := s.GenerateAndStore(ctx, otp.Recipient{Email: "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "a@x.com"))
	require.NoError(t, s.Delete(ctx, "a@x.com"))

	ok, err := s.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOptions(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	s := otp.NewStore(cache.New(), n, otp.WithTTL(time.Minute), otp.WithLength(8))

	code, err := s.GenerateAndStore(ctx, otp.Recipient{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.Equal(t, time.Minute, n.last().TTL)
	assert.Equal(t, time.Minute, s.TTL())
}

func TestStore_WithRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rc := redisclient.New(redisclient.Config{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	s := otp.NewStore(rc, &recordingNotifier{})

	code, err := s.GenerateAndStore(ctx, otp.Recipient{Email: "Buyer@Example.com"})
	require.NoError(t, err)

	stored, err := mr.Get("otp:buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, code, stored)
	assert.Equal(t, 300*time.Second, mr.TTL("otp:buyer@example.com"))

	ok, err := s.Verify(ctx, "buyer@example.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(301 * time.Second)

	ok, err = s.Verify(ctx, "buyer@example.com", code)
	require.NoError(t, err)
	assert.False(t, ok)
}
