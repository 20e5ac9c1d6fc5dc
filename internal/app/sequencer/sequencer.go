package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/domain/annotation"
	"github.com/osa030/pobre/internal/domain/timecode"
)

// Errors
var (
	ErrNoPlayer = errors.New("no video player found")
	ErrNoData   = errors.New("no timestamps to play")
	ErrClosed   = errors.New("sequencer is closed")
)

// DefaultDwell is how long the sequencer holds at each timestamp.
const DefaultDwell = 3000 * time.Millisecond

// Seeker moves the playback position of the video player.
type Seeker interface {
	Seek(ctx context.Context, ms int64) error
}

// Source is the table being replayed. Its length is re-read at every step.
type Source interface {
	Len() int
	At(index int) (annotation.Entry, bool)
}

// Config holds sequencer configuration.
type Config struct {
	Dwell       time.Duration // Hold time at each timestamp
	SeekTimeout time.Duration // Upper bound for a single seek command
	Scheduler   Scheduler     // Dwell timer; WallClock when nil
}

// Sequencer drives a Seeker through the entries of a Source one at a time.
type Sequencer struct {
	mu sync.Mutex

	seeker Seeker
	config Config

	// Run state
	source      Source
	state       State
	index       int
	run         uint64 // Incremented per run so stale dwell callbacks can be ignored
	dwellCancel func()

	// Events
	eventCh chan Event
	closed  bool

	// Context
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a sequencer. A nil seeker is accepted; Start then fails with ErrNoPlayer.
func New(seeker Seeker, config Config) *Sequencer {
	if config.Dwell <= 0 {
		config.Dwell = DefaultDwell
	}
	if config.SeekTimeout <= 0 {
		config.SeekTimeout = 2 * time.Second
	}
	if config.Scheduler == nil {
		config.Scheduler = WallClock{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Sequencer{
		seeker:  seeker,
		config:  config,
		state:   StateIdle,
		index:   -1,
		eventCh: make(chan Event, 32),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Events returns the event channel.
func (s *Sequencer) Events() <-chan Event {
	return s.eventCh
}

// Start replays source from its first entry.
// A run already in progress is cancelled and restarted from index 0.
// The started event follows the first step so it is the last status shown.
func (s *Sequencer) Start(source Source) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.seeker == nil {
		s.mu.Unlock()
		return ErrNoPlayer
	}
	if source == nil || source.Len() == 0 {
		s.mu.Unlock()
		return ErrNoData
	}

	if s.state == StatePlaying {
		zlog.Debug().Msgf("sequencer: restarting run at index=%d", s.index)
		s.cancelDwellLocked()
	}

	s.run++
	run := s.run
	s.source = source
	s.state = StatePlaying
	s.index = 0
	s.mu.Unlock()

	s.playCurrent(run)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentLocked(run) {
		s.sendEventLocked(Event{
			Type:    EventStarted,
			State:   s.state,
			Index:   s.index,
			Total:   s.source.Len(),
			Message: "Playing all timestamps...",
		})
	}
	return nil
}

// Stop cancels the pending dwell and returns to idle. It is a no-op when idle.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *Sequencer) stopLocked() {
	if s.state != StatePlaying {
		return
	}

	s.cancelDwellLocked()
	total := s.source.Len()
	stoppedAt := s.index

	s.state = StateIdle
	s.index = -1
	s.source = nil

	zlog.Debug().Msgf("sequencer: stopped at index=%d total=%d", stoppedAt, total)
	s.sendEventLocked(Event{
		Type:    EventStopped,
		State:   s.state,
		Index:   s.index,
		Total:   total,
		Message: "Stopped playing timestamps",
	})
}

// State returns the current state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index returns the current index, or -1 when idle.
func (s *Sequencer) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Close stops any run and closes the event channel.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.stopLocked()
	s.cancel()
	s.closed = true
	close(s.eventCh)
}

// playCurrent seeks to the current entry of run and schedules the dwell,
// or finishes the run when the index has passed the end of the source.
// The seek runs without the lock so Stop and State stay responsive.
func (s *Sequencer) playCurrent(run uint64) {
	s.mu.Lock()
	if !s.currentLocked(run) {
		s.mu.Unlock()
		return
	}

	total := s.source.Len()
	if s.index >= total {
		s.finishLocked(total)
		s.mu.Unlock()
		return
	}

	index := s.index
	entry, _ := s.source.At(index)
	position := timecode.Parse(entry.Time)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, s.config.SeekTimeout)
	err := s.seeker.Seek(ctx, position)
	cancel()
	if err != nil {
		zlog.Warn().Err(err).Msgf("sequencer: seek failed: index=%d time=%s", index, entry.Time)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stopped, closed or restarted while seeking
	if !s.currentLocked(run) || s.index != index {
		zlog.Debug().Msgf("sequencer: dropping stale seek: index=%d", index)
		return
	}

	s.sendEventLocked(Event{
		Type:     EventStep,
		State:    s.state,
		Index:    index,
		Total:    total,
		Time:     entry.Time,
		Position: position,
		Message:  fmt.Sprintf("Playing timestamp %d/%d: %s", index+1, total, entry.Time),
		Err:      err,
	})

	s.scheduleDwellLocked()
}

// currentLocked reports whether run is still the active run.
// Must be called with lock held.
func (s *Sequencer) currentLocked(run uint64) bool {
	return !s.closed && s.state == StatePlaying && s.run == run
}

// finishLocked ends the run after its last entry.
// Must be called with lock held.
func (s *Sequencer) finishLocked(total int) {
	s.cancelDwellLocked()
	s.state = StateIdle
	s.index = -1
	s.source = nil

	zlog.Debug().Msgf("sequencer: finished total=%d", total)
	s.sendEventLocked(Event{
		Type:    EventFinished,
		State:   s.state,
		Index:   s.index,
		Total:   total,
		Message: "Finished playing all timestamps",
	})
}

// scheduleDwellLocked (re)starts the dwell timer for the current run.
// Must be called with lock held.
func (s *Sequencer) scheduleDwellLocked() {
	s.cancelDwellLocked()

	run := s.run
	s.dwellCancel = s.config.Scheduler.AfterFunc(s.config.Dwell, func() {
		s.onDwellElapsed(run)
	})
}

// onDwellElapsed advances to the next entry.
func (s *Sequencer) onDwellElapsed(run uint64) {
	s.mu.Lock()
	// Fired after Stop, Close or a restart
	if !s.currentLocked(run) {
		s.mu.Unlock()
		return
	}

	s.dwellCancel = nil
	s.index++
	s.mu.Unlock()

	s.playCurrent(run)
}

func (s *Sequencer) cancelDwellLocked() {
	if s.dwellCancel != nil {
		s.dwellCancel()
		s.dwellCancel = nil
	}
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (s *Sequencer) sendEventLocked(e Event) {
	if s.closed {
		return
	}
	select {
	case s.eventCh <- e:
	default:
		zlog.Warn().Msgf("sequencer: event channel full, dropping %s", e.Type)
	}
}
