package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"09:00", false},
		{"00:00", false},
		{"23:59", false},
		{"24:00", true},
		{"09:60", true},
		{"0900", true},
		{"", true},
		{"abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	ts := TimeString("10:30")
	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)
}

func TestTimeString_AddMinutes(t *testing.T) {
	t.Run("within the day", func(t *testing.T) {
		ts, err := TimeString("09:00").AddMinutes(45)
		require.NoError(t, err)
		assert.Equal(t, "09:45", ts.String())
	})

	t.Run("crossing midnight fails", func(t *testing.T) {
		_, err := TimeString("23:45").AddMinutes(30)
		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})

	t.Run("negative result fails", func(t *testing.T) {
		_, err := TimeString("00:15").AddMinutes(-30)
		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore(TimeString("18:00")))
	assert.False(t, TimeString("09:00").IsBefore(TimeString("09:00")))
	assert.True(t, TimeString("18:00").IsAfter(TimeString("09:00")))
}

func TestTimeString_At(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Dubai")
	require.NoError(t, err)

	date := time.Date(2026, 9, 7, 15, 42, 11, 0, loc)
	at, err := TimeString("09:30").At(date, loc)
	require.NoError(t, err)

	assert.True(t, at.Equal(time.Date(2026, 9, 7, 9, 30, 0, 0, loc)), "time of day replaces the date's clock")
}

func TestTimeString_Scan(t *testing.T) {
	t.Run("HH:MM string", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan("09:30"))
		assert.Equal(t, "09:30", ts.String())
	})

	t.Run("postgres time with seconds", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan("09:30:00"))
		assert.Equal(t, "09:30", ts.String())
	})

	t.Run("bytes", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan([]byte("18:00")))
		assert.Equal(t, "18:00", ts.String())
	})

	t.Run("nil resets", func(t *testing.T) {
		ts := TimeString("09:00")
		require.NoError(t, ts.Scan(nil))
		assert.True(t, ts.IsZero())
	})

	t.Run("unsupported type", func(t *testing.T) {
		var ts TimeString
		assert.Error(t, ts.Scan(42))
	})
}

func TestTimeString_Value(t *testing.T) {
	t.Run("valid value", func(t *testing.T) {
		v, err := TimeString("09:00").Value()
		require.NoError(t, err)
		assert.Equal(t, "09:00", v)
	})

	t.Run("empty maps to nil", func(t *testing.T) {
		v, err := TimeString("").Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		_, err := TimeString("25:00").Value()
		assert.Error(t, err)
	})
}
