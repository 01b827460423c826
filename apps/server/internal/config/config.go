// Package config reads server settings from the environment and an optional
// .env file. Process environment wins over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"blackjack-lite/blackjack"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DefaultAddr     = "127.0.0.1:12345"
	DefaultEnvFile  = ".env"
	EnvProduction   = "production"
	EnvDevelopment  = "development"
	DefaultLogLevel = "info"

	DefaultRecentRounds = 200
)

type Config struct {
	// Addr is the TCP listen address for line-protocol seats.
	Addr string
	// HTTPAddr serves /health, /table and /ws. Empty disables it.
	HTTPAddr string

	Game blackjack.Config

	// RecentRounds bounds the in-memory round ledger. Zero disables it.
	RecentRounds int
	// Bots is the number of seats taken by house players at startup.
	Bots int

	LogLevel string
	Env      string
}

// Load reads the configuration. With no files given it reads DefaultEnvFile
// when present.
func Load(files ...string) (Config, error) {
	optional := len(files) == 0
	if optional {
		files = []string{DefaultEnvFile}
	}
	values, err := godotenv.Read(files...)
	if err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read env file: %w", err)
		}
		values = map[string]string{}
	}
	e := env{file: values}

	cfg := Config{
		Addr:     e.str("BLACKJACK_ADDR", DefaultAddr),
		HTTPAddr: e.str("BLACKJACK_HTTP_ADDR", ""),
		LogLevel: strings.ToLower(e.str("BLACKJACK_LOG_LEVEL", DefaultLogLevel)),
		Env:      strings.ToLower(e.str("BLACKJACK_ENV", EnvProduction)),
		Game:     blackjack.DefaultConfig(),
	}
	cfg.Game.MaxPlayers = e.integer("BLACKJACK_SEATS", cfg.Game.MaxPlayers)
	cfg.Game.MinPlayers = e.integer("BLACKJACK_MIN_PLAYERS", cfg.Game.MinPlayers)
	cfg.Game.Decks = e.integer("BLACKJACK_DECKS", cfg.Game.Decks)
	cfg.Game.DealerStandsOn = e.integer("BLACKJACK_DEALER_STANDS", cfg.Game.DealerStandsOn)
	cfg.Game.TurnTimeout = e.duration("BLACKJACK_TURN_TIMEOUT", 0)
	cfg.Game.Seed = int64(e.integer("BLACKJACK_SEED", 0))
	cfg.RecentRounds = e.integer("BLACKJACK_RECENT_ROUNDS", DefaultRecentRounds)
	cfg.Bots = e.integer("BLACKJACK_BOTS", 0)

	if e.err != nil {
		return Config{}, e.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("BLACKJACK_ADDR must not be empty")
	}
	if c.RecentRounds < 0 {
		return errors.New("BLACKJACK_RECENT_ROUNDS must be >= 0")
	}
	if c.Env != EnvProduction && c.Env != EnvDevelopment {
		return fmt.Errorf("unknown BLACKJACK_ENV %q", c.Env)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("BLACKJACK_LOG_LEVEL: %w", err)
	}
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("game config: %w", err)
	}
	if c.Bots < 0 || c.Bots >= c.Game.MaxPlayers {
		return fmt.Errorf("BLACKJACK_BOTS must be in [0, %d)", c.Game.MaxPlayers)
	}
	return nil
}

// Logger builds the process logger for the configured environment and level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Env == EnvDevelopment {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

// env looks keys up in the process environment first, then the file. The
// first parse error is kept.
type env struct {
	file map[string]string
	err  error
}

func (e *env) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v), true
	}
	v, ok := e.file[key]
	return strings.TrimSpace(v), ok
}

func (e *env) str(key, fallback string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

func (e *env) integer(key string, fallback int) int {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (e *env) duration(key string, fallback time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (e *env) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
