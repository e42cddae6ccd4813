package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end string) TimeInterval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	interval, err := NewTimeInterval(s, e)
	require.NoError(t, err)
	return interval
}

func TestNewTimeInterval(t *testing.T) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	t.Run("valid interval", func(t *testing.T) {
		interval, err := NewTimeInterval(start, start.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, interval.Duration())
	})

	t.Run("start equal to end is invalid", func(t *testing.T) {
		_, err := NewTimeInterval(start, start)
		assert.Error(t, err)
	})

	t.Run("start after end is invalid", func(t *testing.T) {
		_, err := NewTimeInterval(start.Add(time.Hour), start)
		assert.Error(t, err)
	})

	t.Run("truncates to whole seconds", func(t *testing.T) {
		interval, err := NewTimeInterval(start.Add(500*time.Millisecond), start.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, interval.Start.Equal(start))
	})
}

func TestTimeInterval_Overlaps(t *testing.T) {
	a := mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T10:00:00Z")

	tests := []struct {
		name  string
		other TimeInterval
		want  bool
	}{
		{"identical", a, true},
		{"partial overlap", mustInterval(t, "2026-09-07T09:30:00Z", "2026-09-07T10:30:00Z"), true},
		{"contained", mustInterval(t, "2026-09-07T09:15:00Z", "2026-09-07T09:45:00Z"), true},
		{"touching boundaries do not overlap", mustInterval(t, "2026-09-07T10:00:00Z", "2026-09-07T11:00:00Z"), false},
		{"disjoint", mustInterval(t, "2026-09-07T12:00:00Z", "2026-09-07T13:00:00Z"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(a))
		})
	}
}

func TestTimeInterval_ContainsTime(t *testing.T) {
	a := mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T10:00:00Z")

	assert.True(t, a.ContainsTime(a.Start), "start is inside the half-open interval")
	assert.True(t, a.ContainsTime(a.Start.Add(30*time.Minute)))
	assert.False(t, a.ContainsTime(a.End), "end is outside the half-open interval")
	assert.False(t, a.ContainsTime(a.Start.Add(-time.Second)))
}

func TestMergeBusy(t *testing.T) {
	t.Run("empty input yields empty non-nil result", func(t *testing.T) {
		merged := MergeBusy(nil)
		require.NotNil(t, merged)
		assert.Len(t, merged, 0)
	})

	t.Run("overlapping intervals from different sources coalesce", func(t *testing.T) {
		busy := []BusyInterval{
			{TimeInterval: mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T10:00:00Z"), Source: BusySourceExistingViewing},
			{TimeInterval: mustInterval(t, "2026-09-07T09:30:00Z", "2026-09-07T11:00:00Z"), Source: BusySourceExternalCalendar},
		}
		merged := MergeBusy(busy)
		require.Len(t, merged, 1)
		assert.Equal(t, mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T11:00:00Z"), merged[0])
	})

	t.Run("adjacent intervals coalesce", func(t *testing.T) {
		busy := []BusyInterval{
			{TimeInterval: mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T10:00:00Z"), Source: BusySourceBlackout},
			{TimeInterval: mustInterval(t, "2026-09-07T10:00:00Z", "2026-09-07T10:30:00Z"), Source: BusySourceBlackout},
		}
		merged := MergeBusy(busy)
		require.Len(t, merged, 1)
		assert.Equal(t, mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T10:30:00Z"), merged[0])
	})

	t.Run("disjoint intervals stay separate and sorted", func(t *testing.T) {
		busy := []BusyInterval{
			{TimeInterval: mustInterval(t, "2026-09-07T14:00:00Z", "2026-09-07T15:00:00Z"), Source: BusySourceBlackout},
			{TimeInterval: mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T10:00:00Z"), Source: BusySourceExistingViewing},
		}
		merged := MergeBusy(busy)
		require.Len(t, merged, 2)
		assert.True(t, merged[0].Start.Before(merged[1].Start))
	})

	t.Run("contained interval is absorbed", func(t *testing.T) {
		busy := []BusyInterval{
			{TimeInterval: mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T12:00:00Z"), Source: BusySourceBlackout},
			{TimeInterval: mustInterval(t, "2026-09-07T10:00:00Z", "2026-09-07T10:30:00Z"), Source: BusySourceExistingViewing},
		}
		merged := MergeBusy(busy)
		require.Len(t, merged, 1)
		assert.Equal(t, mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T12:00:00Z"), merged[0])
	})
}

func TestSubtract(t *testing.T) {
	base := mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T18:00:00Z")

	t.Run("no busy returns the whole base", func(t *testing.T) {
		free := Subtract(base, nil)
		require.Len(t, free, 1)
		assert.Equal(t, base, free[0])
	})

	t.Run("busy in the middle splits the base", func(t *testing.T) {
		busy := []TimeInterval{mustInterval(t, "2026-09-07T10:00:00Z", "2026-09-07T10:30:00Z")}
		free := Subtract(base, busy)
		require.Len(t, free, 2)
		assert.Equal(t, mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T10:00:00Z"), free[0])
		assert.Equal(t, mustInterval(t, "2026-09-07T10:30:00Z", "2026-09-07T18:00:00Z"), free[1])
	})

	t.Run("busy covering the base leaves nothing", func(t *testing.T) {
		busy := []TimeInterval{mustInterval(t, "2026-09-07T08:00:00Z", "2026-09-07T19:00:00Z")}
		free := Subtract(base, busy)
		assert.Len(t, free, 0)
	})

	t.Run("busy touching the base start leaves no zero-length remainder", func(t *testing.T) {
		busy := []TimeInterval{mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T09:30:00Z")}
		free := Subtract(base, busy)
		require.Len(t, free, 1)
		assert.Equal(t, mustInterval(t, "2026-09-07T09:30:00Z", "2026-09-07T18:00:00Z"), free[0])
	})

	t.Run("busy outside the base is ignored", func(t *testing.T) {
		busy := []TimeInterval{mustInterval(t, "2026-09-07T20:00:00Z", "2026-09-07T21:00:00Z")}
		free := Subtract(base, busy)
		require.Len(t, free, 1)
		assert.Equal(t, base, free[0])
	})

	t.Run("busy overlapping the base edge clips it", func(t *testing.T) {
		busy := []TimeInterval{mustInterval(t, "2026-09-07T17:00:00Z", "2026-09-07T19:00:00Z")}
		free := Subtract(base, busy)
		require.Len(t, free, 1)
		assert.Equal(t, mustInterval(t, "2026-09-07T09:00:00Z", "2026-09-07T17:00:00Z"), free[0])
	})
}
