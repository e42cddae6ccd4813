package domain

import (
	"fmt"
	"sort"
	"time"
)

// TimeInterval is a half-open time range [Start, End).
// Invariant: Start < End. Value type, never mutated after creation.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval builds a TimeInterval, truncating both bounds to whole
// seconds. Returns an error when start is not strictly before end.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	start = start.Truncate(time.Second)
	end = end.Truncate(time.Second)
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("invalid interval: start %s is not before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Duration returns the length of the interval.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two half-open intervals share any time.
// Touching boundaries ([a,b) and [b,c)) do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies entirely inside i.
func (i TimeInterval) Contains(other TimeInterval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// ContainsTime reports whether t lies inside the half-open interval.
func (i TimeInterval) ContainsTime(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// BusySource identifies where a busy interval came from.
type BusySource string

const (
	BusySourceExternalCalendar BusySource = "external_calendar"
	BusySourceExistingViewing  BusySource = "existing_viewing"
	BusySourceBlackout         BusySource = "blackout"
)

// BusyInterval is a TimeInterval during which an agent is unavailable,
// tagged with its origin.
type BusyInterval struct {
	TimeInterval
	Source BusySource
}

// MergeBusy merges a set of busy intervals into a minimal, sorted,
// non-overlapping covering set. Overlapping and adjacent intervals
// (gap <= 0) are coalesced. Source tags are dropped: once merged, the
// time is simply busy. Empty input yields an empty (non-nil) result.
func MergeBusy(busy []BusyInterval) []TimeInterval {
	merged := make([]TimeInterval, 0, len(busy))
	if len(busy) == 0 {
		return merged
	}

	sorted := make([]TimeInterval, len(busy))
	for i, b := range busy {
		sorted[i] = b.TimeInterval
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	current := sorted[0]
	for _, next := range sorted[1:] {
		// Adjacent intervals merge too: [a,b) + [b,c) -> [a,c)
		if !next.Start.After(current.End) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// Subtract removes the given busy intervals from base and returns the
// remaining free sub-intervals in chronological order. The busy set must
// already be merged (sorted, non-overlapping) — see MergeBusy. Zero-length
// remainders are dropped.
func Subtract(base TimeInterval, busy []TimeInterval) []TimeInterval {
	free := make([]TimeInterval, 0, len(busy)+1)
	cursor := base.Start

	for _, b := range busy {
		if !b.Overlaps(base) {
			continue
		}
		if b.Start.After(cursor) {
			free = append(free, TimeInterval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	if cursor.Before(base.End) {
		free = append(free, TimeInterval{Start: cursor, End: base.End})
	}
	return free
}
