// Package scheduling contains the availability and slot-generation engine:
// pure functions over the domain's interval model, free of storage and
// transport concerns. Callers supply working hours, busy data and the clock.
package scheduling

import (
	"errors"
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
)

var (
	// ErrInvalidRange возвращается при некорректном диапазоне дат (start >= end)
	ErrInvalidRange = errors.New("scheduling: invalid date range")
)

// ComputeFreeWindows computes the agent's free time inside dateRange.
//
// For each calendar day of the range (in the schedule's timezone) the
// matching working-hours rule is looked up by weekday; days without a rule
// contribute no free time. The day's working window is clamped to the
// requested range, all busy intervals are merged (overlapping entries from
// different sources must not double-subtract) and subtracted from it.
// Results are concatenated in chronological order.
//
// A range entirely outside configured working hours yields an empty slice,
// not an error.
func ComputeFreeWindows(dateRange domain.TimeInterval, schedule *domain.AgentSchedule, busy []domain.BusyInterval) ([]domain.TimeInterval, error) {
	if !dateRange.Start.Before(dateRange.End) {
		return nil, ErrInvalidRange
	}

	loc := schedule.Location()
	merged := domain.MergeBusy(busy)

	free := make([]domain.TimeInterval, 0)

	// Walk whole calendar days in the schedule's zone; the range bounds may
	// fall mid-day, clamping below takes care of that.
	day := startOfDay(dateRange.Start.In(loc))
	for day.Before(dateRange.End) {
		rule, ok := schedule.RuleFor(day.Weekday())
		if !ok {
			day = day.AddDate(0, 0, 1)
			continue
		}

		workStart, err := rule.Start.At(day, loc)
		if err != nil {
			return nil, err
		}
		workEnd, err := rule.End.At(day, loc)
		if err != nil {
			return nil, err
		}

		window, ok := clamp(domain.TimeInterval{Start: workStart, End: workEnd}, dateRange)
		if ok {
			free = append(free, domain.Subtract(window, merged)...)
		}

		day = day.AddDate(0, 0, 1)
	}

	return free, nil
}

// clamp intersects interval with bounds; ok is false when nothing remains.
func clamp(interval, bounds domain.TimeInterval) (domain.TimeInterval, bool) {
	start := interval.Start
	if bounds.Start.After(start) {
		start = bounds.Start
	}
	end := interval.End
	if bounds.End.Before(end) {
		end = bounds.End
	}
	if !start.Before(end) {
		return domain.TimeInterval{}, false
	}
	return domain.TimeInterval{Start: start, End: end}, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
