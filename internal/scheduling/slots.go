package scheduling

import (
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// GenerateSlots quantizes free windows into bookable slots.
//
// Slot boundaries are derived from each window's start, never from the
// wall clock: the first slot begins at the window start, each next one
// slotDuration+buffer minutes later. The lead-time cutoff (now + minLead)
// only discards slots that start too soon — when it falls mid-window the
// first emitted slot is rounded up to the next boundary, keeping the grid
// aligned with the window start. A slot is emitted only if it ends within
// the window. Re-running with identical inputs (including now) yields
// identical output.
func GenerateSlots(freeWindows []domain.TimeInterval, slotDurationMinutes, bufferMinutes, minLeadTimeMinutes int, now time.Time) []domain.AvailabilitySlot {
	slots := make([]domain.AvailabilitySlot, 0)
	if slotDurationMinutes <= 0 {
		return slots
	}

	slotDuration := time.Duration(slotDurationMinutes) * time.Minute
	step := slotDuration + time.Duration(bufferMinutes)*time.Minute
	earliest := now.Add(time.Duration(minLeadTimeMinutes) * time.Minute)

	for _, window := range freeWindows {
		cursor := window.Start
		if earliest.After(cursor) {
			offset := earliest.Sub(window.Start)
			steps := offset / step
			if offset%step != 0 {
				steps++
			}
			cursor = window.Start.Add(steps * step)
		}

		for !cursor.Add(slotDuration).After(window.End) {
			slots = append(slots, domain.AvailabilitySlot{
				Interval:        domain.TimeInterval{Start: cursor, End: cursor.Add(slotDuration)},
				DurationMinutes: slotDurationMinutes,
				Available:       true,
			})
			cursor = cursor.Add(step)
		}
	}

	return slots
}

// FindSlot returns the generated slot exactly covering the requested
// interval, or false when no such slot is offerable. Used by booking to
// re-validate a chosen slot against current busy data.
func FindSlot(slots []domain.AvailabilitySlot, requested domain.TimeInterval) (domain.AvailabilitySlot, bool) {
	for _, s := range slots {
		if s.Matches(requested) {
			return s, true
		}
	}
	return domain.AvailabilitySlot{}, false
}
