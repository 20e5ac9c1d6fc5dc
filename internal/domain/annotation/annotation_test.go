package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	scrolled []int
	statuses []string
}

func (n *recordingNotifier) ScrollTo(index int) { n.scrolled = append(n.scrolled, index) }
func (n *recordingNotifier) Status(msg string)  { n.statuses = append(n.statuses, msg) }

func TestTable_AddDefault(t *testing.T) {
	for _, n := range []int{0, 1, 2, 10} {
		table := NewTable(nil)
		for i := 0; i < n; i++ {
			assert.Equal(t, i, table.AddDefault())
		}

		entries := table.Entries()
		assert.Len(t, entries, n)
		for _, e := range entries {
			assert.Equal(t, Left, e.Direction)
			assert.Equal(t, "00:00:00", e.Time)
		}
	}
}

func TestTable_Add_EmptyTimeDefaults(t *testing.T) {
	table := NewTable(nil)
	idx := table.Add("", Right)

	e, ok := table.At(idx)
	require.True(t, ok)
	assert.Equal(t, "00:00:00", e.Time)
	assert.Equal(t, Right, e.Direction)
}

func TestTable_SetLastDirection(t *testing.T) {
	notifier := &recordingNotifier{}
	table := NewTable(notifier)
	table.Add("00:00:01", Left)
	table.Add("00:00:02", Left)
	table.Add("00:00:03", Left)

	table.SetLastDirection(Right)

	entries := table.Entries()
	assert.Equal(t, Left, entries[0].Direction)
	assert.Equal(t, Left, entries[1].Direction)
	assert.Equal(t, Right, entries[2].Direction)
	assert.Equal(t, []string{"Updated last row to: Right"}, notifier.statuses)
}

func TestTable_SetLastDirection_EmptyTable(t *testing.T) {
	notifier := &recordingNotifier{}
	table := NewTable(notifier)

	assert.NotPanics(t, func() { table.SetLastDirection(Right) })
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, notifier.statuses)
}

func TestTable_AddAndNotify(t *testing.T) {
	notifier := &recordingNotifier{}
	table := NewTable(notifier)
	table.AddDefault()

	idx := table.AddAndNotify("00:01:10")

	assert.Equal(t, 1, idx)
	assert.Equal(t, []int{1}, notifier.scrolled)
	assert.Equal(t, []string{"Added timestamp: 00:01:10"}, notifier.statuses)
}

func TestTable_AddAndNotify_EmptyTimeReportsZero(t *testing.T) {
	notifier := &recordingNotifier{}
	table := NewTable(notifier)

	idx := table.AddAndNotify("")

	e, _ := table.At(idx)
	assert.Equal(t, "00:00:00", e.Time)
	assert.Equal(t, []string{"Added timestamp: 00:00:00"}, notifier.statuses)
}

func TestTable_AddAndNotify_NilNotifier(t *testing.T) {
	table := NewTable(nil)
	assert.NotPanics(t, func() { table.AddAndNotify("00:00:05") })
	assert.Equal(t, 1, table.Len())
}

func TestTable_Edits(t *testing.T) {
	table := NewTable(nil)
	table.AddDefault()

	require.NoError(t, table.SetTime(0, "00:02:00"))
	require.NoError(t, table.SetDirection(0, Right))

	e, _ := table.At(0)
	assert.Equal(t, Entry{Time: "00:02:00", Direction: Right}, e)

	assert.ErrorIs(t, table.SetTime(1, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, table.SetDirection(-1, Left), ErrIndexOutOfRange)

	_, ok := table.At(5)
	assert.False(t, ok)
}

func TestTable_EntriesIsSnapshot(t *testing.T) {
	table := NewTable(nil)
	table.AddDefault()

	snapshot := table.Entries()
	snapshot[0].Time = "99:99:99"

	e, _ := table.At(0)
	assert.Equal(t, "00:00:00", e.Time)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "Left", Left.String())
	assert.Equal(t, "right", Right.Lower())
	assert.Equal(t, Right, Left.Toggle())
	assert.Equal(t, Left, Right.Toggle())

	tests := []struct {
		input    string
		expected Direction
		wantErr  bool
	}{
		{input: "left", expected: Left},
		{input: "Right", expected: Right},
		{input: " R ", expected: Right},
		{input: "up", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDirection(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}
