package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emali/estates-api/internal/auth"
	"github.com/emali/estates-api/internal/cache"
	"github.com/emali/estates-api/internal/config"
	"github.com/emali/estates-api/internal/db"
	"github.com/emali/estates-api/internal/http/handlers"
	"github.com/emali/estates-api/internal/notifications"
	"github.com/emali/estates-api/internal/observability"
	"github.com/emali/estates-api/internal/redisclient"
	"github.com/emali/estates-api/internal/repo/memory"
	"github.com/emali/estates-api/internal/repo/postgres"
)

// userRepo is what both the Postgres and in-memory repositories provide.
type userRepo interface {
	auth.UserRepository
	handlers.UserStore
	db.AdminStore
}

type kvStore interface {
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

var (
	_ userRepo = (*postgres.UsersRepo)(nil)
	_ userRepo = (*memory.UsersRepo)(nil)
	_ kvStore  = (*redisclient.Client)(nil)
	_ kvStore  = (*cache.Cache)(nil)
)

// openUsers connects to Postgres. In dev an unreachable database falls back
// to the in-memory repository so the API can run standalone.
func openUsers(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (userRepo, []handlers.Check, func(), error) {
	pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err == nil {
		checks := []handlers.Check{{Name: "postgres", Ping: pool.Ping}}
		return postgres.NewUsersRepo(pool, prom), checks, pool.Close, nil
	}

	if cfg.Env != "dev" {
		return nil, nil, nil, fmt.Errorf("db connect failed: %w", err)
	}

	log.Warn("postgres unavailable, using in-memory users", "err", err)
	return memory.NewUsersRepo(), nil, func() {}, nil
}

// openKV returns Redis when REDIS_ADDR is set and the in-process cache
// otherwise. OTP codes and revoked tokens live here.
func openKV(ctx context.Context, cfg config.Config, log *slog.Logger) (kvStore, []handlers.Check, func()) {
	if cfg.RedisAddr != "" {
		rdb := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis close", "err", err)
			}
		}
		return rdb, []handlers.Check{{Name: "redis", Ping: rdb.Ping}}, closeFn
	}

	log.Info("REDIS_ADDR not set, keeping otp codes in process memory")

	c := cache.New()
	sweepCtx, cancel := context.WithCancel(ctx)
	go c.RunSweeper(sweepCtx, time.Minute)

	return c, nil, cancel
}

// buildNotifier assembles the OTP delivery chain: e-mail (or the log in dev)
// as the primary channel, SMS as a best-effort secondary, each behind its
// own breaker, all timed by the dispatch metrics.
func buildNotifier(cfg config.Config, prom *observability.Prom, log *slog.Logger) (notifications.Notifier, error) {
	breaker := func(n notifications.Notifier) notifications.Notifier {
		return notifications.NewProtectedNotifier(n, notifications.ProtectedNotifierConfig{
			Timeout:          cfg.NotifierTimeout,
			FailureThreshold: cfg.NotifierFailureThreshold,
			Cooldown:         cfg.NotifierCooldown,
			HalfOpenMaxCalls: 1,
			Logger:           log,
		})
	}

	var primary notifications.Notifier
	switch {
	case cfg.SMTPConfigured():
		primary = notifications.NewSMTPNotifier(notifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	case cfg.Env == "dev" || cfg.Env == "test":
		log.Warn("SMTP not configured, otp codes will be logged")
		primary = notifications.NewLogNotifier(log)
	default:
		return nil, fmt.Errorf("SMTP_HOST, SMTP_USER and SMTP_PASS are required in %s", cfg.Env)
	}

	var secondary []notifications.Notifier
	if cfg.SMSEnabled {
		secondary = append(secondary, breaker(notifications.NewSMSNotifier(notifications.SMSConfig{
			BaseURL:    cfg.ATBaseURL,
			Username:   cfg.ATUsername,
			APIKey:     cfg.ATAPIKey,
			SenderID:   cfg.ATSenderID,
			RetryCount: 2,
			Timeout:    cfg.NotifierTimeout,
		})))
	}

	chain := notifications.NewFanoutNotifier(log, breaker(primary), secondary...)

	return notifications.NotifierFunc(func(ctx context.Context, in notifications.SendOTPInput) error {
		start := time.Now()
		err := chain.SendOTP(ctx, in)
		prom.ObserveOTPDispatch(start, err)
		return err
	}), nil
}
