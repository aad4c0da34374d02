// Package config collects the server and CLI settings from .env, the
// environment, and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const envPrefix = "CHECKERS_"

type Config struct {
	Addr          string
	AllowOrigins  string
	HumanColor    model.PlayerColor
	OpponentDelay time.Duration
	AutoOpponent  bool
	Seed          int64
	LogLevel      string
	LogPretty     bool
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		HumanColor:    model.PlayerColorBlack,
		OpponentDelay: 500 * time.Millisecond,
		AutoOpponent:  true,
		LogLevel:      "info",
		LogPretty:     true,
	}
}

// Load reads .env files (missing files are fine) and then the CHECKERS_*
// environment variables on top of the defaults.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv applies the variables found through getenv to the defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	get := func(key string) string {
		return strings.TrimSpace(getenv(envPrefix + key))
	}

	if v := get("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := get("ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	if v := get("HUMAN_COLOR"); v != "" {
		cfg.HumanColor = model.PlayerColor(strings.ToLower(v))
	}
	if v := get("OPPONENT_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sOPPONENT_DELAY: %w", envPrefix, err)
		}
		cfg.OpponentDelay = d
	}
	if v := get("AUTO_OPPONENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sAUTO_OPPONENT: %w", envPrefix, err)
		}
		cfg.AutoOpponent = b
	}
	if v := get("SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		cfg.Seed = n
	}
	if v := get("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := get("LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sLOG_PRETTY: %w", envPrefix, err)
		}
		cfg.LogPretty = b
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if c.OpponentDelay < 0 {
		return fmt.Errorf("opponent delay must not be negative, got %s", c.OpponentDelay)
	}
	if !c.HumanColor.Valid() {
		return fmt.Errorf("human color must be black or white, got %q", c.HumanColor)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (c Config) GameOptions() model.GameOptions {
	return model.GameOptions{
		HumanColor:    c.HumanColor,
		OpponentDelay: c.OpponentDelay,
		AutoOpponent:  c.AutoOpponent,
		Seed:          c.Seed,
	}
}

// Origins splits AllowOrigins into its entries.
func (c Config) Origins() []string {
	origins := []string{}
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
