package notifications

import (
	"context"
	"log/slog"
)

// FanoutNotifier delivers through a primary channel that must succeed and
// any number of secondary channels whose failures are only logged.
type FanoutNotifier struct {
	primary   Notifier
	secondary []Notifier
	log       *slog.Logger
}

func NewFanoutNotifier(log *slog.Logger, primary Notifier, secondary ...Notifier) *FanoutNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &FanoutNotifier{primary: primary, secondary: secondary, log: log}
}

func (f *FanoutNotifier) SendOTP(ctx context.Context, in SendOTPInput) error {
	if err := f.primary.SendOTP(ctx, in); err != nil {
		return err
	}

	for _, n := range f.secondary {
		if err := n.SendOTP(ctx, in); err != nil {
			f.log.WarnContext(ctx, "notification.secondary_failed",
				"email", in.Email,
				"err", err,
			)
		}
	}

	return nil
}
