// Package config содержит логику чтения конфигурации магазина.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config содержит параметры конфигурации магазина.
type Config struct {
	RunAddress       string        `env:"RUN_ADDRESS"`
	DatabaseURI      string        `env:"DATABASE_URI"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	NatsURL          string        `env:"NATS_URL"`
	PaymentAPIURL    string        `env:"PAYMENT_API_URL"`
	PaymentSecretKey string        `env:"PAYMENT_SECRET_KEY"`
	UploadsBaseURL   string        `env:"UPLOADS_BASE_URL"`
	CatalogCacheTTL  time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных
// окружения. Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fromEnv := *cfg

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address for catalog cache")
	flag.StringVar(&cfg.NatsURL, "n", "", "nats URL for order events")
	flag.StringVar(&cfg.PaymentAPIURL, "p", "", "payment provider base URL")
	flag.StringVar(&cfg.UploadsBaseURL, "u", "/uploads", "public prefix for image URLs")

	flag.Parse()

	overrides := []struct {
		dst *string
		env string
	}{
		{&cfg.RunAddress, fromEnv.RunAddress},
		{&cfg.DatabaseURI, fromEnv.DatabaseURI},
		{&cfg.RedisAddr, fromEnv.RedisAddr},
		{&cfg.NatsURL, fromEnv.NatsURL},
		{&cfg.PaymentAPIURL, fromEnv.PaymentAPIURL},
		{&cfg.UploadsBaseURL, fromEnv.UploadsBaseURL},
	}
	for _, o := range overrides {
		if o.env != "" {
			*o.dst = o.env
		}
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.UploadsBaseURL == "" {
		cfg.UploadsBaseURL = "/uploads"
	}
	if cfg.CatalogCacheTTL <= 0 {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL must be positive, got %s", cfg.CatalogCacheTTL)
	}

	return cfg, nil
}

// PaymentsEnabled сообщает, настроен ли платёжный провайдер.
func (c *Config) PaymentsEnabled() bool {
	return c.PaymentAPIURL != "" && c.PaymentSecretKey != ""
}
