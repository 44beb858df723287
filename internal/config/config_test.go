package config

import (
	"errors"
	"testing"
	"time"
)

type fakeSettings map[string]string

func (f fakeSettings) GetSetting(key string) (string, error) {
	return f[key], nil
}

type failingSettings struct{}

func (failingSettings) GetSetting(string) (string, error) {
	return "", errors.New("database is closed")
}

func TestLoader_TypedValues(t *testing.T) {
	loader := NewLoader(fakeSettings{
		"int":      "42",
		"bad_int":  "many",
		"bool":     "false",
		"string":   "@hourly",
		"duration": "1h30m",
	})

	if got := loader.Int("int", 1); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := loader.Int("bad_int", 7); got != 7 {
		t.Fatalf("expected default for invalid int, got %d", got)
	}
	if got := loader.Bool("bool", true); got {
		t.Fatalf("expected false")
	}
	if got := loader.String("string", "@daily"); got != "@hourly" {
		t.Fatalf("expected @hourly, got %q", got)
	}
	if got := loader.String("missing", "@daily"); got != "@daily" {
		t.Fatalf("expected default string, got %q", got)
	}
	if got := loader.Duration("duration", time.Minute); got != 90*time.Minute {
		t.Fatalf("expected 1h30m, got %v", got)
	}
}

func TestLoader_DefaultsOnErrorOrNil(t *testing.T) {
	if got := NewLoader(failingSettings{}).Int("x", 3); got != 3 {
		t.Fatalf("expected default on lookup error, got %d", got)
	}

	var loader *Loader
	if got := loader.Bool("x", true); !got {
		t.Fatalf("expected default from nil loader")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CONTENTDB_DB_PATH", "/tmp/content.db")
	t.Setenv("CONTENTDB_LOG_LEVEL", "debug")
	t.Setenv("CONTENTDB_BUSY_TIMEOUT", "10s")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("failed to load env: %v", err)
	}
	if env.DBPath != "/tmp/content.db" || env.LogLevel != "debug" {
		t.Fatalf("unexpected env %+v", env)
	}

	timeouts := env.Timeouts()
	if timeouts.Busy != 10*time.Second {
		t.Fatalf("expected busy timeout 10s, got %v", timeouts.Busy)
	}
	if timeouts.Command != DefaultTimeoutConfig().Command {
		t.Fatalf("expected default command timeout, got %v", timeouts.Command)
	}
}

func TestLoadEnv_RejectsUnknownLevel(t *testing.T) {
	t.Setenv("CONTENTDB_LOG_LEVEL", "loud")

	if _, err := LoadEnv(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestGlobalTimeouts(t *testing.T) {
	prev := GetTimeouts()
	t.Cleanup(func() { SetGlobalTimeouts(prev) })

	SetGlobalTimeouts(&TimeoutConfig{Busy: time.Second})
	if GetTimeouts().Busy != time.Second {
		t.Fatalf("expected global busy timeout to be replaced")
	}
}
