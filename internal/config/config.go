package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port int    `env:"PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"emali"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"emali"`
	DBName     string `env:"DB_NAME" envDefault:"emali"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"5"`
	DBURL      string `env:"DATABASE_URL"`

	// empty address falls back to the in-process store
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"secret123"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"12h"`

	OTPTTL    time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OTPLength int           `env:"OTP_LENGTH" envDefault:"6"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASS"`
	MailFrom     string `env:"MAIL_FROM"`

	SMSEnabled bool   `env:"SMS_ENABLED" envDefault:"false"`
	ATUsername string `env:"AT_USERNAME"`
	ATAPIKey   string `env:"AT_API_KEY"`
	ATSenderID string `env:"AT_SENDER_ID"`
	ATBaseURL  string `env:"AT_BASE_URL" envDefault:"https://api.africastalking.com/version1/messaging"`

	NotifierTimeout          time.Duration `env:"NOTIFIER_TIMEOUT" envDefault:"5s"`
	NotifierFailureThreshold int           `env:"NOTIFIER_FAILURE_THRESHOLD" envDefault:"3"`
	NotifierCooldown         time.Duration `env:"NOTIFIER_COOLDOWN" envDefault:"15s"`

	FallbackLanguage string `env:"FALLBACK_LANGUAGE" envDefault:"en"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	MaxBodyBytes       int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	AuthRateLimit       int           `env:"RATE_LIMIT_AUTH" envDefault:"20"`
	AuthRateLimitWindow time.Duration `env:"RATE_LIMIT_AUTH_WINDOW" envDefault:"1m"`

	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"emali-api"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPhone    string `env:"ADMIN_PHONE"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
}

const defaultJWTSecret = "secret123"

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBURL == "" {
		cfg.DBURL = cfg.buildDBURL()
	}

	if cfg.Env == "prod" && (cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret) {
		return Config{}, fmt.Errorf("JWT_SECRET must be set in prod")
	}

	return cfg, nil
}

func (c Config) buildDBURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

func (c Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}

// WithTimeout bounds a downstream call by duration while still honouring
// the caller's cancellation.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}
