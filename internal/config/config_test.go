package config_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abrezinsky/tinydecisions/internal/config"
)

func TestLoadFromMap_Defaults(t *testing.T) {
	cfg, err := config.LoadFromMap(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFromMap failed: %v", err)
	}

	if cfg.Port != 8082 {
		t.Errorf("expected port 8082, got %d", cfg.Port)
	}
	if cfg.DBPath != "tinydecisions.db" {
		t.Errorf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected log defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.SpinDuration != 3*time.Second || cfg.FlipDuration != time.Second || cfg.SelectDuration != 1500*time.Millisecond {
		t.Errorf("unexpected reveal durations: %v %v %v", cfg.SpinDuration, cfg.FlipDuration, cfg.SelectDuration)
	}
	if cfg.Addr() != ":8082" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadFromMap_Overrides(t *testing.T) {
	cfg, err := config.LoadFromMap(map[string]string{
		"TD_PORT":           "9000",
		"TD_DB":             "/tmp/x.db",
		"TD_ADMIN_PASSWORD": "secret",
		"TD_LOG_FORMAT":     "json",
		"TD_HTTP_LOG":       "true",
		"TD_SPIN_DURATION":  "500ms",
	})
	if err != nil {
		t.Fatalf("LoadFromMap failed: %v", err)
	}
	if cfg.Port != 9000 || cfg.DBPath != "/tmp/x.db" || cfg.AdminPassword != "secret" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.LogFormat != "json" || !cfg.HTTPLog {
		t.Errorf("unexpected logging config: %+v", cfg)
	}
	if cfg.SpinDuration != 500*time.Millisecond {
		t.Errorf("expected 500ms spin, got %v", cfg.SpinDuration)
	}
}

func TestLoadFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad port type", map[string]string{"TD_PORT": "abc"}},
		{"port out of range", map[string]string{"TD_PORT": "70000"}},
		{"bad format", map[string]string{"TD_LOG_FORMAT": "xml"}},
		{"negative duration", map[string]string{"TD_FLIP_DURATION": "-1s"}},
		{"bad duration", map[string]string{"TD_SPIN_DURATION": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.LoadFromMap(tt.vars); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TD_PORT=9191\nTD_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv writes into the process environment; register cleanup first
	t.Setenv("TD_PORT", "")
	t.Setenv("TD_LOG_LEVEL", "")
	os.Unsetenv("TD_PORT")
	os.Unsetenv("TD_LOG_LEVEL")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9191 || cfg.LogLevel != "debug" {
		t.Errorf("expected values from .env, got port=%d level=%q", cfg.Port, cfg.LogLevel)
	}
}

func TestLoad_EnvironmentBeatsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TD_PORT=9191\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("TD_PORT", "7070")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("expected environment to win, got %d", cfg.Port)
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestRegisterFlags_OverrideEnv(t *testing.T) {
	cfg, err := config.LoadFromMap(map[string]string{"TD_PORT": "9000", "TD_DB": "env.db"})
	if err != nil {
		t.Fatalf("LoadFromMap failed: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-port", "9500", "-spin", "2s", "-nokeyboard"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Port != 9500 {
		t.Errorf("flag should override env port, got %d", cfg.Port)
	}
	if cfg.DBPath != "env.db" {
		t.Errorf("unset flag should keep env value, got %q", cfg.DBPath)
	}
	if cfg.SpinDuration != 2*time.Second || !cfg.NoKeyboard {
		t.Errorf("unexpected flag values: %+v", cfg)
	}
}
