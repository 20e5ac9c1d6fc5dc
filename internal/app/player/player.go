// Package player defines the video player collaborator and builds it from configuration.
package player

import "context"

// Player is the external engine that decodes and renders the video.
// Positions and durations are milliseconds; volume is a percentage.
type Player interface {
	Load(ctx context.Context, path string) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Paused(ctx context.Context) (bool, error)
	Seek(ctx context.Context, ms int64) error
	Position(ctx context.Context) (int64, error)
	Duration(ctx context.Context) (int64, error)
	SetVolume(ctx context.Context, percent int) error
	Close() error
}
