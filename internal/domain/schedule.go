package domain

import (
	"time"

	"github.com/oryxestates/viewing-service/pkg/types"
)

// WorkingHoursRule defines a recurring availability window for one weekday.
// Invariant: Start < End. At most one rule per weekday; configuration
// updates are last-write-wins.
type WorkingHoursRule struct {
	Weekday time.Weekday
	Start   types.TimeString
	End     types.TimeString
}

// AgentSchedule is the full recurring availability configuration of an
// agent: per-weekday rules plus the timezone they are expressed in.
type AgentSchedule struct {
	AgentID  int64
	Timezone string
	Rules    []WorkingHoursRule

	UpdatedAt time.Time
}

// RuleFor returns the rule for the given weekday, or false if the agent
// does not work that day.
func (s *AgentSchedule) RuleFor(weekday time.Weekday) (WorkingHoursRule, bool) {
	for _, r := range s.Rules {
		if r.Weekday == weekday {
			return r, true
		}
	}
	return WorkingHoursRule{}, false
}

// Location resolves the schedule's timezone, falling back to the agency
// default when it is missing or unknown.
func (s *AgentSchedule) Location() *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BlackoutPeriod is an explicit interval during which an agent takes no
// viewings (leave, training, holidays).
type BlackoutPeriod struct {
	ID      int64
	AgentID int64
	Period  TimeInterval
	Reason  *string

	CreatedAt time.Time
}

// CalendarConnection describes an agent's link to the external calendar
// provider. Lifecycle (OAuth grant/revoke) is owned by the surrounding
// system; this core only reads it.
type CalendarConnection struct {
	AgentID            int64
	Connected          bool
	ExternalCalendarID string
	TokenJSON          []byte // opaque OAuth token blob, written by the OAuth flow
	LastSyncAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
