// Package highlight is the timestamp annotation tool: a table of (time, side)
// rows that can be replayed against the video and saved as CSV.
package highlight

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/app/export"
	"github.com/osa030/pobre/internal/app/sequencer"
	"github.com/osa030/pobre/internal/domain/annotation"
)

// Errors
var (
	ErrClosed = errors.New("highlight tool is closed")
)

// Config holds highlight tool configuration.
type Config struct {
	Dwell      time.Duration       // Hold time per timestamp during Play All
	ExportDir  string              // Directory for generated CSV names
	InitialRow bool                // Start with one default row
	Scheduler  sequencer.Scheduler // Dwell timer; wall clock when nil
}

// Tool owns one annotation table and its playback sequence.
type Tool struct {
	mu sync.Mutex

	id       string
	config   Config
	table    *annotation.Table
	seq      *sequencer.Sequencer
	notifier annotation.Notifier
	onClose  func()
	closed   bool
}

// New creates a tool. seeker may be nil when no video is open.
// onClose runs once when the tool is closed.
func New(seeker sequencer.Seeker, notifier annotation.Notifier, config Config, onClose func()) *Tool {
	t := &Tool{
		id:       uuid.New().String(),
		config:   config,
		table:    annotation.NewTable(notifier),
		notifier: notifier,
		onClose:  onClose,
	}
	t.seq = sequencer.New(seeker, sequencer.Config{
		Dwell:     config.Dwell,
		Scheduler: config.Scheduler,
	})
	if config.InitialRow {
		t.table.AddDefault()
	}

	zlog.Debug().Msgf("highlight: opened id=%s initial_rows=%d", t.id, t.table.Len())
	return t
}

// ID returns the session id of this tool instance.
func (t *Tool) ID() string {
	return t.id
}

// Table returns the annotation table.
func (t *Tool) Table() *annotation.Table {
	return t.table
}

// Events returns the playback sequence events.
func (t *Tool) Events() <-chan sequencer.Event {
	return t.seq.Events()
}

// Playing reports whether Play All is in progress.
func (t *Tool) Playing() bool {
	return t.seq.State() == sequencer.StatePlaying
}

// PlayingIndex returns the row being played, or -1.
func (t *Tool) PlayingIndex() int {
	return t.seq.Index()
}

// AddRow appends a default row.
func (t *Tool) AddRow() int {
	return t.table.AddDefault()
}

// AddTime appends a row for the given time text and reports it.
func (t *Tool) AddTime(timeText string) int {
	return t.table.AddAndNotify(timeText)
}

// MarkLast sets the side of the most recent row.
func (t *Tool) MarkLast(dir annotation.Direction) {
	t.table.SetLastDirection(dir)
}

// PlayAll replays every row from the first one.
func (t *Tool) PlayAll() error {
	err := t.seq.Start(t.table)
	switch {
	case errors.Is(err, sequencer.ErrNoPlayer):
		t.status("No video player found!")
	case errors.Is(err, sequencer.ErrNoData):
		t.status("No timestamps to play!")
	case errors.Is(err, sequencer.ErrClosed):
		return ErrClosed
	}
	return err
}

// StopPlayback cancels Play All.
func (t *Tool) StopPlayback() {
	t.seq.Stop()
}

// Save writes the table as CSV. An empty path saves under the export
// directory with a timestamped name. The written path is returned.
func (t *Tool) Save(path string, now time.Time) (string, error) {
	if path == "" {
		path = filepath.Join(t.config.ExportDir, export.DefaultFileName(now))
	}

	if err := export.WriteFile(path, t.table.Entries(), now); err != nil {
		zlog.Error().Err(err).Msgf("highlight: save failed: path=%s", path)
		t.status(fmt.Sprintf("Failed to save CSV: %v", err))
		return "", err
	}

	zlog.Info().Msgf("highlight: saved %d rows to %s", t.table.Len(), path)
	t.status(fmt.Sprintf("CSV file saved to: %s", path))
	return path, nil
}

// Close stops any playback and releases the tool. It is safe to call more than once.
func (t *Tool) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	onClose := t.onClose
	t.mu.Unlock()

	t.seq.Close()
	zlog.Debug().Msgf("highlight: closed id=%s", t.id)
	if onClose != nil {
		onClose()
	}
}

func (t *Tool) status(msg string) {
	if t.notifier != nil {
		t.notifier.Status(msg)
	}
}
