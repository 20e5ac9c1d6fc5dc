// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Player    PlayerConfig    `yaml:"player"`
	Highlight HighlightConfig `yaml:"highlight"`
	Update    UpdateConfig    `yaml:"update"`
	Log       LogConfig       `yaml:"log"`
}

// PlayerConfig represents video player configuration.
type PlayerConfig struct {
	Type       string         `yaml:"type" default:"mpv" validate:"required,oneof=mpv"`
	Settings   map[string]any `yaml:"settings"`
	Volume     int            `yaml:"volume" default:"70" validate:"gte=0,lte=100"`
	SeekStepMs int            `yaml:"seek_step_ms" default:"3000" validate:"gt=0,lte=600000"`
	VolumeStep int            `yaml:"volume_step" default:"5" validate:"gt=0,lte=100"`
}

// HighlightConfig represents highlight tool configuration.
type HighlightConfig struct {
	DwellMs    int    `yaml:"dwell_ms" default:"3000" validate:"gte=100,lte=600000"`
	ExportDir  string `yaml:"export_dir"`
	InitialRow *bool  `yaml:"initial_row" default:"true"`
}

// UpdateConfig represents update check configuration.
type UpdateConfig struct {
	Repo       string `yaml:"repo" default:"pvbarredo/pobre-media-player" validate:"required,contains=/"`
	APIBaseURL string `yaml:"api_base_url" default:"https://api.github.com" validate:"required,url"`
	TimeoutMs  int    `yaml:"timeout_ms" default:"5000" validate:"gte=100,lte=60000"`
	Token      string `yaml:"token"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	File  string `yaml:"file"`
}

// Dwell returns the hold time at each timestamp during Play All.
func (h HighlightConfig) Dwell() time.Duration {
	return time.Duration(h.DwellMs) * time.Millisecond
}

// StartWithRow reports whether a new highlight tool gets a default row.
func (h HighlightConfig) StartWithRow() bool {
	return h.InitialRow == nil || *h.InitialRow
}

// Timeout returns the update check request timeout.
func (u UpdateConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutMs) * time.Millisecond
}

// SeekStep returns the arrow-key seek distance.
func (p PlayerConfig) SeekStep() time.Duration {
	return time.Duration(p.SeekStepMs) * time.Millisecond
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults. Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, errors.Wrap(err, "failed to read config file")
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, errors.Wrap(err, "failed to parse config file")
			}
		}
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("POBRE_MPV_PATH"); v != "" {
		if c.Player.Settings == nil {
			c.Player.Settings = map[string]any{}
		}
		c.Player.Settings["binary"] = v
	}
	if v := os.Getenv("POBRE_UPDATE_REPO"); v != "" {
		c.Update.Repo = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.Update.Token = v
	}
	if v := os.Getenv("POBRE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("POBRE_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
