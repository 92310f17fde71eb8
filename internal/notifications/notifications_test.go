package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func otpInput() SendOTPInput {
	return SendOTPInput{
		Email: "amani@example.com",
		Phone: "+250788123456",
		Name:  "Amani",
		Code:  "482913",
		TTL:   5 * time.Minute,
	}
}

func TestSMTPNotifier_SendsMultipartMessage(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.test", Port: "587", User: "noreply@emali.test", Password: "pw"})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, n.SendOTP(context.Background(), otpInput()))

	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, "noreply@emali.test", gotFrom)
	assert.Equal(t, []string{"amani@example.com"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Verify Your Email Address")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "Your OTP is: 482913")
	assert.Contains(t, body, "valid for the next 5 minutes")
	assert.Contains(t, body, "text/html")
}

func TestSMTPNotifier_RendersRecipientLanguage(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.test", Port: "587", User: "noreply@emali.test"})

	in := otpInput()
	in.Language = "FR"
	msg, err := n.buildMessage(in)
	require.NoError(t, err)

	body := string(msg)
	assert.Contains(t, body, "Subject: =?utf-8?q?")
	assert.Contains(t, body, "Bonjour Amani,")
	assert.Contains(t, body, "Votre code OTP est : 482913")
	assert.Contains(t, body, "valable pendant 5 minutes")
	assert.NotContains(t, body, "Your OTP is")
	assert.NotContains(t, body, "Verify Your Email Address")
}

func TestSMTPNotifier_UnlocalizedLanguageFallsBackToEnglish(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.test", Port: "587", User: "noreply@emali.test"})

	in := otpInput()
	in.Language = "RW"
	msg, err := n.buildMessage(in)
	require.NoError(t, err)

	body := string(msg)
	assert.Contains(t, body, "Subject: Verify Your Email Address")
	assert.Contains(t, body, "Your OTP is: 482913")
	assert.NotContains(t, body, "%!")
}

func TestSMTPNotifier_RequiresEmail(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.test", Port: "587"})
	n.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("sendMail should not be called")
		return nil
	}

	in := otpInput()
	in.Email = " "
	assert.ErrorIs(t, n.SendOTP(context.Background(), in), ErrEmailRequired)
}

func TestSMTPNotifier_WrapsRelayError(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.test", Port: "587"})
	relayErr := errors.New("554 rejected")
	n.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return relayErr }

	err := n.SendOTP(context.Background(), otpInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, relayErr)
}

func TestSMSNotifier_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("apiKey"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "sandbox", r.PostForm.Get("username"))
		assert.Equal(t, "+250788123456", r.PostForm.Get("to"))
		assert.True(t, strings.Contains(r.PostForm.Get("message"), "482913"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"SMSMessageData":{"Message":"Sent to 1/1","Recipients":[{"statusCode":101,"number":"+250788123456","status":"Success","messageId":"ATX"}]}}`)
	}))
	defer srv.Close()

	n := NewSMSNotifier(SMSConfig{BaseURL: srv.URL, Username: "sandbox", APIKey: "key-123"})
	require.NoError(t, n.SendOTP(context.Background(), otpInput()))
}

func TestSMSNotifier_SendsRecipientLanguage(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		got.Store(r.PostForm.Get("message"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"SMSMessageData":{"Message":"Sent to 1/1","Recipients":[{"statusCode":101,"number":"+250788123456","status":"Success","messageId":"ATX"}]}}`)
	}))
	defer srv.Close()

	in := otpInput()
	in.Language = "SW"
	n := NewSMSNotifier(SMSConfig{BaseURL: srv.URL, Username: "sandbox", APIKey: "key-123"})
	require.NoError(t, n.SendOTP(context.Background(), in))

	assert.Equal(t, "Habari Amani, nambari yako ya uthibitisho ni 482913. Itaisha baada ya dakika 5.", got.Load())
}

func TestSMSNotifier_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"SMSMessageData":{"Recipients":[{"statusCode":100,"number":"+250788123456","status":"Processed"}]}}`)
	}))
	defer srv.Close()

	n := NewSMSNotifier(SMSConfig{BaseURL: srv.URL, RetryCount: 2, RetryBase: time.Millisecond})
	require.NoError(t, n.SendOTP(context.Background(), otpInput()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestSMSNotifier_RejectedRecipientIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"SMSMessageData":{"Recipients":[{"statusCode":403,"number":"+250788123456","status":"InvalidPhoneNumber"}]}}`)
	}))
	defer srv.Close()

	n := NewSMSNotifier(SMSConfig{BaseURL: srv.URL, RetryCount: 3, RetryBase: time.Millisecond})
	err := n.SendOTP(context.Background(), otpInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidPhoneNumber")
	assert.Equal(t, int32(1), calls.Load())
}

func TestSMSNotifier_RequiresPhone(t *testing.T) {
	n := NewSMSNotifier(SMSConfig{BaseURL: "http://127.0.0.1:0"})
	in := otpInput()
	in.Phone = ""
	assert.ErrorIs(t, n.SendOTP(context.Background(), in), ErrPhoneRequired)
}

func TestProtectedNotifier_OpensAfterThresholdAndRecovers(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var calls atomic.Int32

	inner := NotifierFunc(func(ctx context.Context, in SendOTPInput) error {
		calls.Add(1)
		if fail.Load() {
			return errors.New("provider down")
		}
		return nil
	})

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 2,
		Cooldown:         10 * time.Second,
		Logger:           discardLogger(),
	})
	p.now = func() time.Time { return now }

	ctx := context.Background()
	assert.Error(t, p.SendOTP(ctx, otpInput()))
	assert.Equal(t, "closed", p.State())
	assert.Error(t, p.SendOTP(ctx, otpInput()))
	assert.Equal(t, "open", p.State())

	// open circuit short-circuits without touching the provider
	assert.ErrorIs(t, p.SendOTP(ctx, otpInput()), ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())

	now = now.Add(11 * time.Second)
	fail.Store(false)

	require.NoError(t, p.SendOTP(ctx, otpInput()))
	assert.Equal(t, "closed", p.State())
	assert.Equal(t, int32(3), calls.Load())
}

func TestProtectedNotifier_FailedTrialReopens(t *testing.T) {
	inner := NotifierFunc(func(ctx context.Context, in SendOTPInput) error {
		return errors.New("still down")
	})

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 1,
		Cooldown:         time.Second,
		Logger:           discardLogger(),
	})
	p.now = func() time.Time { return now }

	ctx := context.Background()
	assert.Error(t, p.SendOTP(ctx, otpInput()))
	assert.Equal(t, "open", p.State())

	now = now.Add(2 * time.Second)
	assert.Error(t, p.SendOTP(ctx, otpInput()))
	assert.Equal(t, "open", p.State())
	assert.ErrorIs(t, p.SendOTP(ctx, otpInput()), ErrCircuitOpen)
}

func TestProtectedNotifier_EnforcesTimeout(t *testing.T) {
	inner := NotifierFunc(func(ctx context.Context, in SendOTPInput) error {
		<-ctx.Done()
		return ctx.Err()
	})

	p := NewProtectedNotifier(inner, ProtectedNotifierConfig{Timeout: 20 * time.Millisecond, Logger: discardLogger()})

	err := p.SendOTP(context.Background(), otpInput())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFanoutNotifier_SecondaryFailureIsIgnored(t *testing.T) {
	var smsCalled bool
	email := NotifierFunc(func(ctx context.Context, in SendOTPInput) error { return nil })
	sms := NotifierFunc(func(ctx context.Context, in SendOTPInput) error {
		smsCalled = true
		return errors.New("sms down")
	})

	f := NewFanoutNotifier(discardLogger(), email, sms)
	require.NoError(t, f.SendOTP(context.Background(), otpInput()))
	assert.True(t, smsCalled)
}

func TestFanoutNotifier_PrimaryFailureStops(t *testing.T) {
	primaryErr := errors.New("smtp down")
	email := NotifierFunc(func(ctx context.Context, in SendOTPInput) error { return primaryErr })
	sms := NotifierFunc(func(ctx context.Context, in SendOTPInput) error {
		t.Fatal("secondary should not run")
		return nil
	})

	f := NewFanoutNotifier(discardLogger(), email, sms)
	assert.ErrorIs(t, f.SendOTP(context.Background(), otpInput()), primaryErr)
}

func TestExponentialBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	d0 := ExponentialBackoff(0, base, time.Second)
	assert.GreaterOrEqual(t, d0, base)
	assert.Less(t, d0, base+base/4)

	d3 := ExponentialBackoff(3, base, time.Second)
	assert.GreaterOrEqual(t, d3, 800*time.Millisecond)

	capped := ExponentialBackoff(10, base, time.Second)
	assert.Less(t, capped, time.Second+base/4)

	assert.Zero(t, ExponentialBackoff(1, 0, time.Second))
}
