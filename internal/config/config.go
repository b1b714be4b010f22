// Package config содержит логику чтения конфигурации SMS-шлюза.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress        = "0.0.0.0:5000"
	defaultDownstreamTimeout = 10 * time.Second
	defaultRateLimit         = 30
)

// Config содержит параметры конфигурации SMS-шлюза.
type Config struct {
	RunAddress        string        `env:"RUN_ADDRESS" validate:"required"`
	AuthorizedNumber  string        `env:"AUTHORIZED_NUMBER" validate:"required,e164"`
	DownstreamURL     string        `env:"DOWNSTREAM_URL" validate:"required"`
	DownstreamTimeout time.Duration `env:"DOWNSTREAM_TIMEOUT" validate:"gt=0"`
	TwilioAuthToken   string        `env:"TWILIO_AUTH_TOKEN"`
	PublicURL         string        `env:"PUBLIC_URL" validate:"omitempty,url"`
	// RateLimit — допустимое число входящих сообщений в минуту.
	RateLimit         int           `env:"RATE_LIMIT" validate:"gt=0"`
}

// Parse считывает конфигурацию из файла .env, переменных окружения и флагов командной строки.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// Отсутствие .env не ошибка.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.AuthorizedNumber, "n", "", "authorized sender phone number in E.164 format")
	flag.StringVar(&cfg.DownstreamURL, "u", "", "downstream service base URL")
	flag.DurationVar(&cfg.DownstreamTimeout, "t", defaultDownstreamTimeout, "downstream request timeout")
	flag.StringVar(&cfg.TwilioAuthToken, "s", "", "Twilio auth token for request signature checks")
	flag.StringVar(&cfg.PublicURL, "p", "", "public base URL of the webhook")
	flag.IntVar(&cfg.RateLimit, "l", defaultRateLimit, "max inbound messages per minute")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.AuthorizedNumber != "" {
		cfg.AuthorizedNumber = envCfg.AuthorizedNumber
	}
	if envCfg.DownstreamURL != "" {
		cfg.DownstreamURL = envCfg.DownstreamURL
	}
	if envCfg.DownstreamTimeout != 0 {
		cfg.DownstreamTimeout = envCfg.DownstreamTimeout
	}
	if envCfg.TwilioAuthToken != "" {
		cfg.TwilioAuthToken = envCfg.TwilioAuthToken
	}
	if envCfg.PublicURL != "" {
		cfg.PublicURL = envCfg.PublicURL
	}
	if envCfg.RateLimit != 0 {
		cfg.RateLimit = envCfg.RateLimit
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
