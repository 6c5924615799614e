// Package config содержит логику чтения конфигурации сервиса storefront.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса storefront.
type Config struct {
	RunAddress            string `env:"RUN_ADDRESS"`
	DatabaseURI           string `env:"DATABASE_URI"`
	RedisAddress          string `env:"REDIS_ADDRESS"`
	PaymentGatewayAddress string `env:"PAYMENT_GATEWAY_ADDRESS"`
	ClientURL             string `env:"CLIENT_URL"`
	AccessTokenSecret     string `env:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret    string `env:"REFRESH_TOKEN_SECRET"`
	Environment           string `env:"ENVIRONMENT"`
}

// Production сообщает, работает ли сервис в боевом окружении.
// В этом режиме cookie выставляются только по HTTPS.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envRedisAddress := cfg.RedisAddress
	envGatewayAddress := cfg.PaymentGatewayAddress
	envClientURL := cfg.ClientURL
	envAccessSecret := cfg.AccessTokenSecret
	envRefreshSecret := cfg.RefreshTokenSecret
	envEnvironment := cfg.Environment

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddress, "c", "", "redis address for cache and refresh tokens")
	flag.StringVar(&cfg.PaymentGatewayAddress, "p", "", "payment gateway address")
	flag.StringVar(&cfg.ClientURL, "u", "http://localhost:5173", "storefront client URL for payment redirects")
	flag.StringVar(&cfg.AccessTokenSecret, "access-secret", "", "secret for signing access tokens")
	flag.StringVar(&cfg.RefreshTokenSecret, "refresh-secret", "", "secret for signing refresh tokens")
	flag.StringVar(&cfg.Environment, "e", "development", "environment name (development|production)")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envRedisAddress != "" {
		cfg.RedisAddress = envRedisAddress
	}
	if envGatewayAddress != "" {
		cfg.PaymentGatewayAddress = envGatewayAddress
	}
	if envClientURL != "" {
		cfg.ClientURL = envClientURL
	}
	if envAccessSecret != "" {
		cfg.AccessTokenSecret = envAccessSecret
	}
	if envRefreshSecret != "" {
		cfg.RefreshTokenSecret = envRefreshSecret
	}
	if envEnvironment != "" {
		cfg.Environment = envEnvironment
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
