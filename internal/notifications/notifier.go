package notifications

import (
	"context"
	"time"
)

type SendOTPInput struct {
	Email    string
	Phone    string
	Name     string
	Code     string
	TTL      time.Duration
	Language string
}

type Notifier interface {
	SendOTP(ctx context.Context, input SendOTPInput) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, input SendOTPInput) error

func (f NotifierFunc) SendOTP(ctx context.Context, input SendOTPInput) error {
	return f(ctx, input)
}
