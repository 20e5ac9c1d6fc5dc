package mpv

import (
	"context"
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"
)

// Load replaces the current file.
func (c *Client) Load(ctx context.Context, path string) error {
	_, err := c.Command(ctx, "loadfile", path, "replace")
	return err
}

// Play resumes playback.
func (c *Client) Play(ctx context.Context) error {
	_, err := c.Command(ctx, "set_property", "pause", false)
	return err
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context) error {
	_, err := c.Command(ctx, "set_property", "pause", true)
	return err
}

// Paused reports whether playback is paused.
func (c *Client) Paused(ctx context.Context) (bool, error) {
	data, err := c.Command(ctx, "get_property", "pause")
	if err != nil {
		return false, err
	}
	var paused bool
	if err := json.Unmarshal(data, &paused); err != nil {
		return false, errors.Wrap(err, "failed to decode pause property")
	}
	return paused, nil
}

// Seek moves to an absolute position in milliseconds.
func (c *Client) Seek(ctx context.Context, ms int64) error {
	_, err := c.Command(ctx, "seek", float64(ms)/1000, "absolute")
	return err
}

// Position returns the playback position in milliseconds (0 with no file loaded).
func (c *Client) Position(ctx context.Context) (int64, error) {
	return c.millis(ctx, "time-pos")
}

// Duration returns the length of the loaded file in milliseconds (0 with no file loaded).
func (c *Client) Duration(ctx context.Context) (int64, error) {
	return c.millis(ctx, "duration")
}

// SetVolume sets the volume in percent.
func (c *Client) SetVolume(ctx context.Context, percent int) error {
	_, err := c.Command(ctx, "set_property", "volume", percent)
	return err
}

func (c *Client) millis(ctx context.Context, property string) (int64, error) {
	data, err := c.Command(ctx, "get_property", property)
	if errors.Is(err, ErrPropertyUnavailable) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return 0, errors.Wrapf(err, "failed to decode %s", property)
	}
	return int64(math.Round(seconds * 1000)), nil
}
