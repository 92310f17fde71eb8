package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrPhoneRequired = errors.New("phone is required")

type SMSConfig struct {
	BaseURL    string
	Username   string
	APIKey     string
	SenderID   string
	RetryCount int
	RetryBase  time.Duration
	Timeout    time.Duration
}

// SMSNotifier sends the code as a text message through the Africa's Talking
// messaging API.
type SMSNotifier struct {
	cfg        SMSConfig
	httpClient *http.Client
}

func NewSMSNotifier(cfg SMSConfig) *SMSNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}

	return &SMSNotifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type smsResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

func (n *SMSNotifier) SendOTP(ctx context.Context, in SendOTPInput) error {
	if strings.TrimSpace(in.Phone) == "" {
		return ErrPhoneRequired
	}

	msg := otpSMSText(in)

	var lastErr error
	for attempt := 0; attempt <= n.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(ExponentialBackoff(attempt-1, n.cfg.RetryBase, 5*time.Second)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := n.sendOnce(ctx, in.Phone, msg)
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			break
		}
	}

	return fmt.Errorf("send otp sms: %w", lastErr)
}

// permanentError marks failures that a retry cannot fix (rejected number, bad credentials).
type permanentError struct {
	msg string
}

func (e *permanentError) Error() string { return e.msg }

func (n *SMSNotifier) sendOnce(ctx context.Context, to, message string) error {
	form := url.Values{}
	form.Set("username", n.cfg.Username)
	form.Set("to", to)
	form.Set("message", message)
	if n.cfg.SenderID != "" {
		form.Set("from", n.cfg.SenderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create sms request: %w", err)
	}

	req.Header.Set("apiKey", n.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &permanentError{msg: "sms provider rejected credentials"}
	case resp.StatusCode >= 500:
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	case resp.StatusCode >= 300:
		return &permanentError{msg: fmt.Sprintf("sms provider returned status %d", resp.StatusCode)}
	}

	var body smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}

	if len(body.SMSMessageData.Recipients) == 0 {
		return &permanentError{msg: "sms not sent: " + body.SMSMessageData.Message}
	}

	// 100 Processed, 101 Sent, 102 Queued
	for _, r := range body.SMSMessageData.Recipients {
		if r.StatusCode < 100 || r.StatusCode > 102 {
			return &permanentError{msg: fmt.Sprintf("sms to %s failed: %s", r.Number, r.Status)}
		}
	}

	return nil
}
