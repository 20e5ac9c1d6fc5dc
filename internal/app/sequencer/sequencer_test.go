package sequencer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/pobre/internal/domain/annotation"
)

type fakeSeeker struct {
	mu    sync.Mutex
	seeks []int64
	err   error
}

func (f *fakeSeeker) Seek(_ context.Context, ms int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, ms)
	return f.err
}

func (f *fakeSeeker) calls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.seeks...)
}

type manualTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

// manualScheduler queues callbacks until the test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (m *manualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	task := &manualTask{delay: d, fn: fn}
	m.tasks = append(m.tasks, task)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		task.cancelled = true
	}
}

// pending returns tasks that are neither cancelled nor fired.
func (m *manualScheduler) pending() []*manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*manualTask
	for _, t := range m.tasks {
		if !t.cancelled && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the single pending task.
func (m *manualScheduler) fire(t *testing.T) {
	t.Helper()
	pending := m.pending()
	require.Len(t, pending, 1, "expected exactly one pending dwell")
	m.mu.Lock()
	pending[0].fired = true
	m.mu.Unlock()
	pending[0].fn()
}

func newTable(times ...string) *annotation.Table {
	table := annotation.NewTable(nil)
	for _, ts := range times {
		table.Add(ts, annotation.Left)
	}
	return table
}

func drain(s *Sequencer) []Event {
	var events []Event
	for {
		select {
		case e, ok := <-s.Events():
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestSequencer_PlaysEveryEntryThenIdles(t *testing.T) {
	seeker := &fakeSeeker{}
	sched := &manualScheduler{}
	seq := New(seeker, Config{Scheduler: sched})
	table := newTable("00:00:05", "00:01:10", "01:00:00")

	require.NoError(t, seq.Start(table))

	visited := []int{seq.Index()}
	for i := 0; i < 3; i++ {
		pending := sched.pending()
		require.Len(t, pending, 1)
		assert.Equal(t, 3000*time.Millisecond, pending[0].delay)
		sched.fire(t)
		visited = append(visited, seq.Index())
	}

	assert.Equal(t, []int{0, 1, 2, -1}, visited)
	assert.Equal(t, StateIdle, seq.State())
	assert.Equal(t, []int64{5000, 70000, 3600000}, seeker.calls())
	assert.Empty(t, sched.pending())

	events := drain(seq)
	require.Len(t, events, 5)
	// The started message follows the first step so it is the one left on screen.
	assert.Equal(t, EventStep, events[0].Type)
	assert.Equal(t, "Playing timestamp 1/3: 00:00:05", events[0].Message)
	assert.Equal(t, EventStarted, events[1].Type)
	assert.Equal(t, "Playing all timestamps...", events[1].Message)
	assert.Equal(t, "Playing timestamp 3/3: 01:00:00", events[3].Message)
	assert.Equal(t, EventFinished, events[4].Type)
	assert.Equal(t, "Finished playing all timestamps", events[4].Message)
}

func TestSequencer_EmptyTable(t *testing.T) {
	seeker := &fakeSeeker{}
	sched := &manualScheduler{}
	seq := New(seeker, Config{Scheduler: sched})

	err := seq.Start(newTable())

	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, seeker.calls())
	assert.Equal(t, StateIdle, seq.State())
	assert.Empty(t, drain(seq))
}

func TestSequencer_NoPlayer(t *testing.T) {
	seq := New(nil, Config{Scheduler: &manualScheduler{}})

	err := seq.Start(newTable("00:00:01"))

	assert.ErrorIs(t, err, ErrNoPlayer)
	assert.Equal(t, StateIdle, seq.State())
	assert.Equal(t, -1, seq.Index())
}

func TestSequencer_MalformedTimeSeeksToZero(t *testing.T) {
	seeker := &fakeSeeker{}
	seq := New(seeker, Config{Scheduler: &manualScheduler{}})

	require.NoError(t, seq.Start(newTable("not a time")))

	assert.Equal(t, []int64{0}, seeker.calls())
}

func TestSequencer_Stop(t *testing.T) {
	seeker := &fakeSeeker{}
	sched := &manualScheduler{}
	seq := New(seeker, Config{Scheduler: sched})
	require.NoError(t, seq.Start(newTable("00:00:01", "00:00:02")))

	pending := sched.pending()
	require.Len(t, pending, 1)

	seq.Stop()
	assert.Equal(t, StateIdle, seq.State())
	assert.Empty(t, sched.pending())

	// A callback that raced the cancel must not advance anything.
	pending[0].fn()
	assert.Equal(t, StateIdle, seq.State())
	assert.Equal(t, []int64{1000}, seeker.calls())

	events := drain(seq)
	assert.Equal(t, EventStopped, events[len(events)-1].Type)

	// Stopping again is a no-op.
	seq.Stop()
	assert.Empty(t, drain(seq))
}

func TestSequencer_RestartWhilePlaying(t *testing.T) {
	seeker := &fakeSeeker{}
	sched := &manualScheduler{}
	seq := New(seeker, Config{Scheduler: sched})
	table := newTable("00:00:01", "00:00:02", "00:00:03")

	require.NoError(t, seq.Start(table))
	sched.fire(t)
	assert.Equal(t, 1, seq.Index())

	stale := sched.pending()
	require.NoError(t, seq.Start(table))
	assert.Equal(t, 0, seq.Index())

	// The dwell from the first run is cancelled and ignored if it fires anyway.
	stale[0].fn()
	assert.Equal(t, 0, seq.Index())
	assert.Len(t, sched.pending(), 1)
	assert.Equal(t, []int64{1000, 2000, 1000}, seeker.calls())
}

func TestSequencer_EntriesAddedDuringRunArePlayed(t *testing.T) {
	seeker := &fakeSeeker{}
	sched := &manualScheduler{}
	seq := New(seeker, Config{Scheduler: sched})
	table := newTable("00:00:01")

	require.NoError(t, seq.Start(table))
	table.Add("00:00:09", annotation.Right)
	sched.fire(t)

	assert.Equal(t, 1, seq.Index())
	sched.fire(t)
	assert.Equal(t, StateIdle, seq.State())
	assert.Equal(t, []int64{1000, 9000}, seeker.calls())
}

// blockingSeeker holds every seek until release is closed or ctx ends.
type blockingSeeker struct {
	started chan int64
	release chan struct{}
}

func newBlockingSeeker() *blockingSeeker {
	return &blockingSeeker{
		started: make(chan int64, 8),
		release: make(chan struct{}),
	}
}

func (b *blockingSeeker) Seek(ctx context.Context, ms int64) error {
	b.started <- ms
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestSequencer_StopDuringSlowSeek(t *testing.T) {
	seeker := newBlockingSeeker()
	sched := &manualScheduler{}
	seq := New(seeker, Config{SeekTimeout: 10 * time.Second, Scheduler: sched})

	startErr := make(chan error, 1)
	go func() { startErr <- seq.Start(newTable("00:00:01", "00:00:02")) }()

	select {
	case ms := <-seeker.started:
		assert.Equal(t, int64(1000), ms)
	case <-time.After(time.Second):
		t.Fatal("seek never started")
	}

	stopped := make(chan struct{})
	go func() {
		seq.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Stop blocked behind an in-flight seek")
	}
	assert.Equal(t, StateIdle, seq.State())

	close(seeker.release)
	require.NoError(t, <-startErr)

	// The stale seek result produces neither a step nor a dwell.
	assert.Empty(t, sched.pending())
	assert.Equal(t, StateIdle, seq.State())
	events := drain(seq)
	require.Len(t, events, 1)
	assert.Equal(t, EventStopped, events[0].Type)
}

func TestSequencer_CloseCancelsSlowSeek(t *testing.T) {
	seeker := newBlockingSeeker()
	sched := &manualScheduler{}
	seq := New(seeker, Config{SeekTimeout: 10 * time.Second, Scheduler: sched})

	startErr := make(chan error, 1)
	go func() { startErr <- seq.Start(newTable("00:00:01")) }()
	<-seeker.started

	seq.Close()

	select {
	case err := <-startErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("seek was not cancelled by Close")
	}
	assert.Empty(t, sched.pending())
}

func TestSequencer_SeekErrorStillAdvances(t *testing.T) {
	seeker := &fakeSeeker{err: errors.New("player gone")}
	sched := &manualScheduler{}
	seq := New(seeker, Config{Scheduler: sched})

	require.NoError(t, seq.Start(newTable("00:00:01", "00:00:02")))
	sched.fire(t)
	sched.fire(t)

	assert.Equal(t, StateIdle, seq.State())
	events := drain(seq)
	require.Len(t, events, 4)
	assert.EqualError(t, events[0].Err, "player gone")
}

func TestSequencer_CustomDwell(t *testing.T) {
	sched := &manualScheduler{}
	seq := New(&fakeSeeker{}, Config{Dwell: 500 * time.Millisecond, Scheduler: sched})

	require.NoError(t, seq.Start(newTable("00:00:01")))

	pending := sched.pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 500*time.Millisecond, pending[0].delay)
}

func TestSequencer_Close(t *testing.T) {
	sched := &manualScheduler{}
	seq := New(&fakeSeeker{}, Config{Scheduler: sched})
	require.NoError(t, seq.Start(newTable("00:00:01")))
	pending := sched.pending()

	seq.Close()
	seq.Close()

	assert.NotPanics(t, func() { pending[0].fn() })
	assert.ErrorIs(t, seq.Start(newTable("00:00:01")), ErrClosed)

	events := drain(seq)
	assert.Equal(t, EventStopped, events[len(events)-1].Type)
	_, ok := <-seq.Events()
	assert.False(t, ok)
}

func TestSequencer_WallClock(t *testing.T) {
	seeker := &fakeSeeker{}
	seq := New(seeker, Config{
		Dwell:     20 * time.Millisecond,
		Scheduler: WallClock{Resolution: 5 * time.Millisecond},
	})
	defer seq.Close()

	require.NoError(t, seq.Start(newTable("00:00:01", "00:00:02")))

	assert.Eventually(t, func() bool {
		return seq.State() == StateIdle
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []int64{1000, 2000}, seeker.calls())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "finished", EventFinished.String())
}
