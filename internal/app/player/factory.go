package player

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/infra/config"
	"github.com/osa030/pobre/internal/infra/mpv"
)

// MpvSettings is the settings block of a player of type "mpv".
type MpvSettings struct {
	Binary         string   `yaml:"binary" mapstructure:"binary" default:"mpv" validate:"required"`
	SocketDir      string   `yaml:"socket_dir" mapstructure:"socket_dir"`
	ExtraArgs      []string `yaml:"extra_args" mapstructure:"extra_args"`
	StartTimeoutMs int      `yaml:"start_timeout_ms" mapstructure:"start_timeout_ms" default:"5000" validate:"gte=100,lte=60000"`
}

// startMpv is replaced in tests.
var startMpv = func(ctx context.Context, cfg mpv.Config, file string) (Player, error) {
	c, err := mpv.Start(ctx, cfg, file)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromConfig starts the configured player with file loaded.
func NewFromConfig(ctx context.Context, cfg config.PlayerConfig, file string) (Player, error) {
	zlog.Debug().Msgf("creating player: type=%s settings=%+v", cfg.Type, cfg.Settings)
	switch cfg.Type {
	case "mpv":
		settings, err := DecodeMpvSettings(cfg.Settings)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create player (type %s)", cfg.Type)
		}
		p, err := startMpv(ctx, mpv.Config{
			Binary:       settings.Binary,
			SocketDir:    settings.SocketDir,
			ExtraArgs:    settings.ExtraArgs,
			StartTimeout: time.Duration(settings.StartTimeoutMs) * time.Millisecond,
			Volume:       cfg.Volume,
		}, file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create player (type %s)", cfg.Type)
		}
		zlog.Info().Msgf("player started: type=%s binary=%s", cfg.Type, settings.Binary)
		return p, nil

	default:
		return nil, errors.Newf("unsupported player type: %s", cfg.Type)
	}
}

// DecodeMpvSettings decodes, defaults and validates an mpv settings map.
func DecodeMpvSettings(settings map[string]any) (*MpvSettings, error) {
	var s MpvSettings
	if err := mapstructure.Decode(settings, &s); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&s); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(s); err != nil {
		zlog.Error().Msgf("mpv settings validation failed: %v", err)
		return nil, errors.Wrap(err, "validation failed")
	}
	return &s, nil
}
