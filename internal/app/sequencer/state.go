// Package sequencer replays highlight timestamps against a video player,
// holding a fixed dwell at each stop before advancing.
package sequencer

// State represents the sequencer state.
type State int

const (
	StateIdle    State = iota // No run in progress
	StatePlaying              // Dwelling at Index
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
