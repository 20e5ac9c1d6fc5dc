package sequencer

import (
	"context"
	"time"
)

// Scheduler runs a callback once after a delay unless cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// WallClock schedules callbacks against wall-clock time, polling at Resolution.
type WallClock struct {
	Resolution time.Duration
}

// AfterFunc starts a timer that triggers fn after d, using wall clock.
// Returns a cancel function.
func (w WallClock) AfterFunc(d time.Duration, fn func()) func() {
	resolution := w.Resolution
	if resolution <= 0 {
		resolution = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		endTime := toWallTime(time.Now()).Add(d)
		ticker := time.NewTicker(resolution)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !toWallTime(time.Now()).Before(endTime) {
					fn()
					return
				}
			}
		}
	}()

	return cancel
}

// toWallTime returns the time with monotonic clock stripped.
func toWallTime(t time.Time) time.Time {
	return time.Unix(t.Unix(), int64(t.Nanosecond()))
}
