package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all server settings, loaded from the environment.
type Config struct {
	Addr           string `env:"ADDR" envDefault:":5175"`
	DBPath         string `env:"DB_PATH" envDefault:"data/numquest.db"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"numquest_token"`
	AnonCookieName string `env:"ANON_COOKIE_NAME" envDefault:"numquest_anon"`
	DailySalt      string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	Production     bool   `env:"PRODUCTION"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Test returns a Config suitable for tests: in-memory DB, fixed secrets.
func Test() *Config {
	return &Config{
		Addr:           ":0",
		DBPath:         ":memory:",
		ClientOrigin:   "http://localhost:5173",
		JWTSecret:      "test_secret",
		JWTExpiresDays: 1,
		CookieName:     "numquest_token",
		AnonCookieName: "numquest_anon",
		DailySalt:      "test_salt",
		LogLevel:       "error",
	}
}
