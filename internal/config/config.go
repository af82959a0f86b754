package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/inamate/clipcontrol/internal/anchor"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	HostKey        string `envconfig:"HOST_KEY" default:"dev-host-key"`
	FfmpegPath     string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LayoutFile     string `envconfig:"LAYOUT_FILE" default:"clipcontrol.yaml"`
	MaxWidgets     int    `envconfig:"MAX_WIDGETS" default:"64"`

	// Layout holds the handle geometry; LAYOUT_* variables set the
	// defaults and LayoutFile, when present, overrides them.
	Layout anchor.Layout `envconfig:"LAYOUT"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := LoadLayoutOptional(cfg.LayoutFile, &cfg.Layout); err != nil {
		return nil, err
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLayoutOptional overlays the YAML layout file at path onto l. Keys
// missing from the file keep their current value. A missing file is not an
// error.
func LoadLayoutOptional(path string, l *anchor.Layout) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, l); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Origins splits AllowedOrigins into a list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel maps LogLevel to a slog level; unknown names fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
