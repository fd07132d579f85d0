// Package config loads server settings from the environment, an optional .env
// file and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server
type Config struct {
	Port          int    `env:"TD_PORT" envDefault:"8082"`
	DBPath        string `env:"TD_DB" envDefault:"tinydecisions.db"`
	AdminPassword string `env:"TD_ADMIN_PASSWORD"`

	LogLevel  string `env:"TD_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"TD_LOG_FORMAT" envDefault:"text"`
	HTTPLog   bool   `env:"TD_HTTP_LOG"`

	// PresetsFile overrides the embedded themes, coin styles and player colors
	PresetsFile string `env:"TD_PRESETS"`

	SpinDuration   time.Duration `env:"TD_SPIN_DURATION" envDefault:"3s"`
	FlipDuration   time.Duration `env:"TD_FLIP_DURATION" envDefault:"1s"`
	SelectDuration time.Duration `env:"TD_SELECT_DURATION" envDefault:"1500ms"`

	NoAnimate  bool `env:"TD_NO_ANIMATE"`
	NoKeyboard bool `env:"TD_NO_KEYBOARD"`
}

// Load reads envFile (if it exists) into the process environment and then
// parses the environment. Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return parse(env.Options{})
}

// LoadFromMap parses configuration from vars instead of the process environment
func LoadFromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// RegisterFlags binds command line flags to cfg, using its current values as defaults
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Port, "port", c.Port, "HTTP server port")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.StringVar(&c.AdminPassword, "adminpw", c.AdminPassword, "Admin password (auto-generated if not set)")
	fs.StringVar(&c.LogLevel, "loglevel", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "logformat", c.LogFormat, "Log format (text, json)")
	fs.BoolVar(&c.HTTPLog, "httplog", c.HTTPLog, "Log every HTTP request")
	fs.StringVar(&c.PresetsFile, "presets", c.PresetsFile, "YAML file with themes, coin styles and player colors")
	fs.DurationVar(&c.SpinDuration, "spin", c.SpinDuration, "Wheel reveal delay")
	fs.DurationVar(&c.FlipDuration, "flip", c.FlipDuration, "Coin reveal delay")
	fs.DurationVar(&c.SelectDuration, "select", c.SelectDuration, "Finger roulette reveal delay")
	fs.BoolVar(&c.NoAnimate, "noanimate", c.NoAnimate, "Show logo only, skip the spinner animation")
	fs.BoolVar(&c.NoKeyboard, "nokeyboard", c.NoKeyboard, "Disable keyboard shortcuts")
}

// Validate checks ranges and enumerations
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	for name, d := range map[string]time.Duration{
		"spin":   c.SpinDuration,
		"flip":   c.FlipDuration,
		"select": c.SelectDuration,
	} {
		if d < 0 {
			return fmt.Errorf("%s duration must not be negative", name)
		}
	}
	return nil
}

// Addr returns the listen address for Port
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
