package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads a .env file from the working directory, when present, before
	// the environment is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read by LoadEnv
const EnvPrefix = "CONTENTDB_"

// Env holds process configuration read from CONTENTDB_* variables.
// Empty values leave the matching CLI flag default in place.
//
//	CONTENTDB_DB_PATH=/var/lib/contentdb/content.db
//	CONTENTDB_LOG_LEVEL=debug
//	CONTENTDB_BUSY_TIMEOUT=10s
type Env struct {
	DBPath         string        `koanf:"db_path"`
	LogLevel       string        `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	LogFile        string        `koanf:"log_file"`
	BusyTimeout    time.Duration `koanf:"busy_timeout" validate:"gte=0"`
	CommandTimeout time.Duration `koanf:"command_timeout" validate:"gte=0"`
}

// LoadEnv reads and validates the CONTENTDB_* environment
func LoadEnv() (*Env, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Env{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	return cfg, nil
}

// Timeouts returns the default timeouts overridden by any values set in the environment
func (e *Env) Timeouts() *TimeoutConfig {
	cfg := DefaultTimeoutConfig()
	if e.BusyTimeout > 0 {
		cfg.Busy = e.BusyTimeout
	}
	if e.CommandTimeout > 0 {
		cfg.Command = e.CommandTimeout
	}
	return cfg
}
