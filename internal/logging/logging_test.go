package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/saltyorg/contentdb/internal/config"
)

type settings map[string]string

func (s settings) GetSetting(key string) (string, error) {
	return s[key], nil
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"unknown": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetLevel_EmptyKeepsCurrent(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	SetLevel("warn")
	SetLevel("")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level kept, got %v", zerolog.GlobalLevel())
	}
}

func TestRotationFromLoader(t *testing.T) {
	loader := config.NewLoader(settings{
		"log.max_size_mb":  "10",
		"log.max_backups":  "2",
		"log.max_age_days": "0",
		"log.compress":     "false",
	})

	w := RotationFromLoader(loader, "")
	if w.Filename != DefaultLogFilePath {
		t.Fatalf("expected default file path, got %q", w.Filename)
	}
	if w.MaxSize != 10 || w.MaxBackups != 2 || w.MaxAge != 0 || w.Compress {
		t.Fatalf("unexpected rotation settings %+v", w)
	}
}

func TestRotationFromLoader_Defaults(t *testing.T) {
	w := RotationFromLoader(nil, "/var/log/contentdb/app.log")
	if w.Filename != "/var/log/contentdb/app.log" {
		t.Fatalf("unexpected file path %q", w.Filename)
	}
	if w.MaxSize != DefaultMaxSizeMB || w.MaxBackups != DefaultMaxBackups ||
		w.MaxAge != DefaultMaxAgeDays || w.Compress != DefaultCompress {
		t.Fatalf("expected defaults, got %+v", w)
	}
}

func TestFilePathForDB(t *testing.T) {
	if got := FilePathForDB(""); got != DefaultLogFilePath {
		t.Fatalf("expected default for empty path, got %q", got)
	}

	dir := t.TempDir()
	got := FilePathForDB(filepath.Join(dir, "content.db"))
	if got != filepath.Join(dir, DefaultLogFilePath) {
		t.Fatalf("expected log beside database, got %q", got)
	}
}
