package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_DefaultsToInfoLevel(t *testing.T) {
	log := New()

	if log.logger == nil {
		t.Fatal("expected slog.Logger to be set")
	}
	if log.GetLevel() != slog.LevelInfo {
		t.Errorf("expected default level to be Info, got %v", log.GetLevel())
	}
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled by default")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNextLevel_Cycles(t *testing.T) {
	tests := []struct {
		from, to slog.Level
	}{
		{slog.LevelDebug, slog.LevelInfo},
		{slog.LevelInfo, slog.LevelWarn},
		{slog.LevelWarn, slog.LevelError},
		{slog.LevelError, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := NextLevel(tt.from); got != tt.to {
			t.Errorf("NextLevel(%v) = %v, want %v", tt.from, got, tt.to)
		}
	}
}

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
}

func TestNewWithOptions_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelDebug, Output: &buf})

	tests := []struct {
		name  string
		fn    func(string, ...any)
		level string
	}{
		{"Debug", log.Debug, "DEBUG"},
		{"Info", log.Info, "INFO"},
		{"Warn", log.Warn, "WARN"},
		{"Error", log.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("wheel spun", "wheel_id", "abc")

			output := buf.String()
			if !strings.Contains(output, "level="+tt.level) {
				t.Errorf("expected output to contain level %q, got: %s", tt.level, output)
			}
			if !strings.Contains(output, "wheel_id=abc") {
				t.Errorf("expected output to contain wheel_id=abc, got: %s", output)
			}
		})
	}
}

func TestNewWithOptions_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelInfo, Format: "JSON", Output: &buf})

	log.Info("coin flipped", "result", "heads")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected a JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "coin flipped" || record["result"] != "heads" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestNewWithOptions_HTTPEnabled(t *testing.T) {
	log := NewWithOptions(Options{HTTP: true, Output: &bytes.Buffer{}})
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to start enabled")
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelWarn, Output: &buf})

	log.Debug("debug message")
	log.Info("info message")
	if buf.Len() > 0 {
		t.Errorf("expected debug/info to be filtered at WARN level, got: %s", buf.String())
	}

	log.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("expected warn message to be logged")
	}

	// lowering the level takes effect immediately
	buf.Reset()
	log.SetLevel(slog.LevelDebug)
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("expected debug message after SetLevel")
	}
}

func TestSlogLogger_HTTPLogging(t *testing.T) {
	log := New()

	log.EnableHTTPLogging()
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be enabled")
	}

	log.DisableHTTPLogging()
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled")
	}
}

func TestSlogLogger_Slog(t *testing.T) {
	log := New()
	if log.Slog() == nil {
		t.Error("expected underlying slog.Logger")
	}
}
