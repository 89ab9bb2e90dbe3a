package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/escape.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// Startup provisioning defaults: the game window runs from boot time for
	// GameDuration. An operator can re-provision with explicit times through
	// the admin reset endpoint.
	GameTitle    string        `env:"GAME_TITLE" envDefault:"Engineering Escape Room"`
	GameDuration time.Duration `env:"GAME_DURATION" envDefault:"2h"`

	// AdminPasswordHash is a bcrypt hash guarding the reset endpoint. Empty
	// disables the endpoint entirely.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	// WrongGuessPenalty debits one token per wrong guess. EnforceMinBalance
	// rejects hint/reveal purchases that would drive the balance negative;
	// off by default, so tokens may go arbitrarily negative.
	WrongGuessPenalty bool `env:"WRONG_GUESS_PENALTY" envDefault:"true"`
	EnforceMinBalance bool `env:"ENFORCE_MIN_BALANCE" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
