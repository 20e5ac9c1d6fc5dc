// Package shell is the player window logic: transport controls, keyboard
// shortcuts and the single highlight tool instance.
package shell

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/app/highlight"
	"github.com/osa030/pobre/internal/app/player"
	"github.com/osa030/pobre/internal/app/sequencer"
	"github.com/osa030/pobre/internal/domain/annotation"
	"github.com/osa030/pobre/internal/domain/timecode"
)

// Key is a keyboard shortcut.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyS
	KeyL
	KeyR
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// Config holds shell configuration.
type Config struct {
	SeekStep   time.Duration // Arrow-key seek distance
	VolumeStep int           // Up/Down volume change in percent
	Volume     int           // Initial volume in percent
	Highlight  highlight.Config
}

// Progress is a snapshot of the transport state.
type Progress struct {
	Position int64
	Duration int64
	Paused   bool
	Volume   int
}

// Shell coordinates the player and the highlight tool.
type Shell struct {
	mu sync.Mutex

	player   player.Player
	notifier annotation.Notifier
	config   Config
	volume   int
	file     string
	tool     *highlight.Tool
}

// New creates a shell. p may be nil until a video is opened elsewhere.
func New(p player.Player, notifier annotation.Notifier, config Config) *Shell {
	if config.SeekStep <= 0 {
		config.SeekStep = 3 * time.Second
	}
	if config.VolumeStep <= 0 {
		config.VolumeStep = 5
	}
	return &Shell{
		player:   p,
		notifier: notifier,
		config:   config,
		volume:   clamp(config.Volume, 0, 100),
	}
}

// File returns the path of the loaded video.
func (s *Shell) File() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// Volume returns the current volume in percent.
func (s *Shell) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Open loads path into the player and starts playback.
func (s *Shell) Open(ctx context.Context, path string) error {
	if err := AcceptFile(path); err != nil {
		if errors.Is(err, ErrFileNotFound) {
			s.status("File not found!")
		} else {
			s.status(fmt.Sprintf("Unsupported file type: %s", filepath.Ext(path)))
		}
		return err
	}

	s.mu.Lock()
	p := s.player
	s.mu.Unlock()
	if p == nil {
		s.status("No video player found!")
		return sequencer.ErrNoPlayer
	}

	if err := p.Load(ctx, path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := p.Play(ctx); err != nil {
		return fmt.Errorf("play %s: %w", path, err)
	}

	s.mu.Lock()
	s.file = path
	s.mu.Unlock()

	zlog.Info().Msgf("shell: opened %s", path)
	s.status(fmt.Sprintf("Playing: %s", filepath.Base(path)))
	return nil
}

// MarkLoaded records a file the player was started with.
func (s *Shell) MarkLoaded(path string) {
	s.mu.Lock()
	s.file = path
	s.mu.Unlock()
	s.status(fmt.Sprintf("Playing: %s", filepath.Base(path)))
}

// OpenHighlight returns the highlight tool, creating it on first use.
func (s *Shell) OpenHighlight() *highlight.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tool != nil {
		return s.tool
	}

	var seeker sequencer.Seeker
	if s.player != nil {
		seeker = s.player
	}

	var tool *highlight.Tool
	tool = highlight.New(seeker, s.notifier, s.config.Highlight, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.tool == tool {
			s.tool = nil
		}
	})
	s.tool = tool
	return tool
}

// Highlight returns the open highlight tool, or nil.
func (s *Shell) Highlight() *highlight.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// HandleKey runs the action bound to key.
// S, L and R do nothing while the highlight tool is closed.
func (s *Shell) HandleKey(ctx context.Context, key Key) error {
	switch key {
	case KeySpace:
		return s.TogglePlay(ctx)
	case KeyS:
		return s.addCurrentTime(ctx)
	case KeyL:
		if tool := s.Highlight(); tool != nil {
			tool.MarkLast(annotation.Left)
		}
	case KeyR:
		if tool := s.Highlight(); tool != nil {
			tool.MarkLast(annotation.Right)
		}
	case KeyLeft:
		return s.SeekBy(ctx, -s.config.SeekStep)
	case KeyRight:
		return s.SeekBy(ctx, s.config.SeekStep)
	case KeyUp:
		return s.ChangeVolume(ctx, s.config.VolumeStep)
	case KeyDown:
		return s.ChangeVolume(ctx, -s.config.VolumeStep)
	}
	return nil
}

func (s *Shell) addCurrentTime(ctx context.Context) error {
	tool := s.Highlight()
	if tool == nil {
		return nil
	}

	var position int64
	if p := s.currentPlayer(); p != nil {
		var err error
		position, err = p.Position(ctx)
		if err != nil {
			return fmt.Errorf("read position: %w", err)
		}
	}
	tool.AddTime(timecode.Format(position))
	return nil
}

// TogglePlay pauses a playing video and resumes a paused one.
func (s *Shell) TogglePlay(ctx context.Context) error {
	p := s.currentPlayer()
	if p == nil {
		return nil
	}

	paused, err := p.Paused(ctx)
	if err != nil {
		return fmt.Errorf("read pause state: %w", err)
	}
	if paused {
		return p.Play(ctx)
	}
	return p.Pause(ctx)
}

// SeekBy moves the position by delta, clamped to the start and end of the video.
func (s *Shell) SeekBy(ctx context.Context, delta time.Duration) error {
	p := s.currentPlayer()
	if p == nil {
		return nil
	}

	position, err := p.Position(ctx)
	if err != nil {
		return fmt.Errorf("read position: %w", err)
	}
	duration, err := p.Duration(ctx)
	if err != nil {
		return fmt.Errorf("read duration: %w", err)
	}

	target := position + delta.Milliseconds()
	if target < 0 {
		target = 0
	}
	// Unknown duration (still loading) leaves the upper bound open
	if duration > 0 && target > duration {
		target = duration
	}

	zlog.Debug().Msgf("shell: seek from=%d to=%d duration=%d", position, target, duration)
	return p.Seek(ctx, target)
}

// ChangeVolume adjusts the volume by delta percent, clamped to [0, 100].
func (s *Shell) ChangeVolume(ctx context.Context, delta int) error {
	s.mu.Lock()
	s.volume = clamp(s.volume+delta, 0, 100)
	volume := s.volume
	p := s.player
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	return p.SetVolume(ctx, volume)
}

// Progress reads the transport state from the player.
func (s *Shell) Progress(ctx context.Context) (Progress, error) {
	progress := Progress{Volume: s.Volume(), Paused: true}

	p := s.currentPlayer()
	if p == nil {
		return progress, nil
	}

	var err error
	if progress.Position, err = p.Position(ctx); err != nil {
		return progress, err
	}
	if progress.Duration, err = p.Duration(ctx); err != nil {
		return progress, err
	}
	if progress.Paused, err = p.Paused(ctx); err != nil {
		return progress, err
	}
	return progress, nil
}

// Close closes the highlight tool and the player.
func (s *Shell) Close() error {
	if tool := s.Highlight(); tool != nil {
		tool.Close()
	}

	s.mu.Lock()
	p := s.player
	s.player = nil
	s.mu.Unlock()

	if p != nil {
		return p.Close()
	}
	return nil
}

func (s *Shell) currentPlayer() player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

func (s *Shell) status(msg string) {
	if s.notifier != nil {
		s.notifier.Status(msg)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
