// Package config loads process configuration from the environment.
//
// A .env file in the working directory is read first (missing is fine),
// then variables are parsed into Config. Real environment variables win
// over .env entries.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is shared by the HTTP and desktop shells.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"PLAY_TOKEN_TTL" envDefault:"2h"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	SessionIdle  time.Duration `env:"SESSION_IDLE" envDefault:"30m"`
	DailySalt    string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	Theme     string `env:"THEME" envDefault:"christmas"`
	ThemeFile string `env:"THEME_FILE"`
	ImagesDir string `env:"IMAGES_DIR" envDefault:"images"`
	Locale    string `env:"LOCALE" envDefault:"en"`

	NATSURL string `env:"NATS_URL"`
}

// Load reads .env files (if present) and parses the environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("PLAY_TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return c, nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
