package sequencer

// EventType represents a sequencer event type.
type EventType int

const (
	EventStarted  EventType = iota // Run started at index 0
	EventStep                      // Player was sent to a timestamp
	EventFinished                  // Every timestamp was visited
	EventStopped                   // Run was cancelled before finishing
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStep:
		return "step"
	case EventFinished:
		return "finished"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event represents a sequencer event.
type Event struct {
	Type     EventType
	State    State  // State after the event
	Index    int    // Current index (-1 when idle)
	Total    int    // Table length at the time of the event
	Time     string // Time text of the current entry (EventStep only)
	Position int64  // Seek target in milliseconds (EventStep only)
	Message  string // Status line for the UI
	Err      error  // Seek failure (EventStep only)
}
