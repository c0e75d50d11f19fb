package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// SessionSecret signs session and magic-link tokens. The server refuses
	// to start without it; there is no fallback key.
	SessionSecret   string `env:"SESSION_SECRET,required" validate:"required,min=32"`
	SessionStrategy string `env:"SESSION_STRATEGY" envDefault:"stateless" validate:"oneof=stateless registry"`

	AdminAPIKey   string `env:"ADMIN_API_KEY,required" validate:"required,min=16"`
	WebhookSecret string `env:"WEBHOOK_SECRET,required" validate:"required,min=16"`

	ResendAPIKey  string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom    string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
	MagicLinkBase string `env:"MAGIC_LINK_BASE_URL" envDefault:"http://localhost:8080"`

	S3Endpoint  string `env:"S3_ENDPOINT" envDefault:"http://localhost:9000"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"course-resources"`
	S3AccessKey string `env:"S3_ACCESS_KEY,required" validate:"required"`
	S3SecretKey string `env:"S3_SECRET_KEY,required" validate:"required"`

	SweepSchedule string `env:"SWEEP_SCHEDULE" envDefault:"@every 1h"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
