// Package annotation provides the highlight table: an ordered list of
// timestamps, each marked with the side of the frame it refers to.
package annotation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/osa030/pobre/internal/domain/timecode"
)

// ErrIndexOutOfRange is returned when an edit targets a row that does not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// Direction marks which side of the frame an entry refers to.
type Direction int

const (
	Left  Direction = iota // Default side
	Right                  // Opposite side
)

// String returns the display form ("Left" or "Right").
func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "unknown"
	}
}

// Lower returns the lowercase form used in exported files.
func (d Direction) Lower() string {
	return strings.ToLower(d.String())
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Right {
		return Left
	}
	return Right
}

// ParseDirection parses "left"/"right" case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	default:
		return Left, fmt.Errorf("unknown direction %q", s)
	}
}

// Entry is one marked moment of the video.
type Entry struct {
	Time      string    // HH:MM:SS, user-editable and not validated
	Direction Direction // Side of the frame
}

// Notifier receives UI hints from table operations.
type Notifier interface {
	// ScrollTo asks the UI to bring the row at index into view.
	ScrollTo(index int)
	// Status shows a short-lived status message.
	Status(msg string)
}

// Table is an ordered, append-only list of entries.
// Rows can be edited in place but never removed.
type Table struct {
	mu       sync.RWMutex
	entries  []Entry
	notifier Notifier
}

// NewTable creates an empty table. The notifier may be nil.
func NewTable(notifier Notifier) *Table {
	return &Table{
		entries:  make([]Entry, 0),
		notifier: notifier,
	}
}

// Add appends an entry and returns its index.
// An empty time is stored as 00:00:00.
func (t *Table) Add(timeText string, dir Direction) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timeText == "" {
		timeText = timecode.Zero
	}
	t.entries = append(t.entries, Entry{Time: timeText, Direction: dir})
	return len(t.entries) - 1
}

// AddDefault appends a 00:00:00 / Left entry.
func (t *Table) AddDefault() int {
	return t.Add(timecode.Zero, Left)
}

// AddAndNotify appends an entry at timeText and tells the notifier to show it.
// Used by the "add current time" shortcut.
func (t *Table) AddAndNotify(timeText string) int {
	index := t.Add(timeText, Left)
	if t.notifier != nil {
		// Report the stored text, which differs from timeText when it was empty.
		entry, _ := t.At(index)
		t.notifier.ScrollTo(index)
		t.notifier.Status(fmt.Sprintf("Added timestamp: %s", entry.Time))
	}
	return index
}

// SetLastDirection sets the direction of the most recent entry.
// It is a no-op on an empty table.
func (t *Table) SetLastDirection(dir Direction) {
	t.mu.Lock()
	n := len(t.entries)
	if n == 0 {
		t.mu.Unlock()
		return
	}
	t.entries[n-1].Direction = dir
	t.mu.Unlock()

	if t.notifier != nil {
		t.notifier.Status(fmt.Sprintf("Updated last row to: %s", dir))
	}
}

// SetTime replaces the time text of the entry at index.
func (t *Table) SetTime(index int, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.entries) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	t.entries[index].Time = text
	return nil
}

// SetDirection replaces the direction of the entry at index.
func (t *Table) SetDirection(index int, dir Direction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.entries) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	t.entries[index].Direction = dir
	return nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// At returns the entry at index.
func (t *Table) At(index int) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if index < 0 || index >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[index], true
}

// Entries returns a copy of all entries in insertion order.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Entry, len(t.entries))
	copy(result, t.entries)
	return result
}
