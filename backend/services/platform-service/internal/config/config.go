package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "chargenet/backend/libs/config"
)

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"PLATFORM_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"PLATFORM_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr            string `yaml:"addr" env:"PLATFORM_REDIS_ADDR"`
		Password        string `yaml:"password" env:"PLATFORM_REDIS_PASSWORD"`
		DB              int    `yaml:"db" env:"PLATFORM_REDIS_DB"`
		CountTTLSeconds int    `yaml:"countTtlSeconds" env:"PLATFORM_REDIS_COUNT_TTL_SECONDS"`
	} `yaml:"redis"`
	JWT struct {
		Secret           string `yaml:"secret" env:"PLATFORM_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"PLATFORM_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Stripe struct {
		APIKey     string `yaml:"apiKey" env:"STRIPE_API_KEY"`
		SuccessURL string `yaml:"successUrl" env:"STRIPE_SUCCESS_URL"`
		CancelURL  string `yaml:"cancelUrl" env:"STRIPE_CANCEL_URL"`
	} `yaml:"stripe"`
	RateLimit struct {
		PerSecond float64 `yaml:"perSecond" env:"PLATFORM_RATE_PER_SECOND"`
		Burst     int     `yaml:"burst" env:"PLATFORM_RATE_BURST"`
	} `yaml:"rateLimit"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 60
	}
	if cfg.Redis.CountTTLSeconds <= 0 {
		cfg.Redis.CountTTLSeconds = 30
	}
	if cfg.RateLimit.PerSecond <= 0 {
		cfg.RateLimit.PerSecond = 5
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 10
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// CountTTL converts the redis counter TTL to duration.
func (c *Config) CountTTL() time.Duration {
	return time.Duration(c.Redis.CountTTLSeconds) * time.Second
}
