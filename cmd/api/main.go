package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emali/estates-api/internal/auth"
	"github.com/emali/estates-api/internal/config"
	"github.com/emali/estates-api/internal/db"
	httpx "github.com/emali/estates-api/internal/http"
	"github.com/emali/estates-api/internal/observability"
	"github.com/emali/estates-api/internal/otp"
	"github.com/emali/estates-api/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTelEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.Env, cfg.OTelEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	prom := observability.NewProm(observability.NewRegistry())

	users, usersCheck, closeUsers, err := openUsers(ctx, cfg, prom, log)
	if err != nil {
		return err
	}
	defer closeUsers()

	kv, kvCheck, closeKV := openKV(ctx, cfg, log)
	defer closeKV()

	notifier, err := buildNotifier(cfg, prom, log)
	if err != nil {
		return err
	}

	hasher := security.NewHasher(bcrypt.DefaultCost)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	denylist := auth.NewDenylist(kv)
	otps := otp.NewStore(kv, notifier, otp.WithTTL(cfg.OTPTTL), otp.WithLength(cfg.OTPLength))

	svc := auth.NewService(users, otps, hasher, tokens, denylist, log)

	seeded, err := db.EnsureAdminUser(ctx, users, hasher, cfg)
	if err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}
	if seeded {
		log.Info("admin user created", "email", cfg.AdminEmail)
	}

	// set up routers with the log
	router := httpx.NewRouter(httpx.Deps{
		Log:     log,
		Config:  cfg,
		Auth:    svc,
		Users:   users,
		Tokens:  tokens,
		Revoked: denylist,
		Prom:    prom,
		Checks:  append(usersCheck, kvCheck...),
		Tracing: cfg.OTelEnabled,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}
