package domain

import "time"

// ViewingStatus represents the lifecycle state of a property viewing
type ViewingStatus string

const (
	StatusScheduled ViewingStatus = "scheduled"
	StatusConfirmed ViewingStatus = "confirmed"
	StatusCompleted ViewingStatus = "completed"
	StatusCancelled ViewingStatus = "cancelled"
)

// ViewingType represents how the viewing is conducted
type ViewingType string

const (
	ViewingTypeInPerson ViewingType = "in_person"
	ViewingTypeVirtual  ViewingType = "virtual"
)

// CalendarEventRef holds the external calendar provider's identifiers for
// the event materialized for a viewing. Owned by the calendar gateway:
// the core only stores what the gateway returned.
type CalendarEventRef struct {
	EventID     string
	EventLink   *string
	MeetingLink *string
}

// Viewing represents a scheduled property viewing.
// The scheduled interval is stored in UTC; presentation converts to the
// agency timezone.
type Viewing struct {
	ID          int64
	PropertyID  int64
	ApplicantID int64
	AgentID     int64

	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ViewingType    ViewingType
	Status         ViewingStatus

	// Denormalized data for history and calendar event summaries
	PropertyTitle   string
	PropertyAddress *string
	ApplicantName   string
	ApplicantEmail  *string
	ApplicantPhone  *string
	Notes           *string

	// External calendar linkage, attached/detached independently of status
	CalendarEventID   *string
	CalendarEventLink *string
	MeetingLink       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the viewing's scheduled time as a TimeInterval
func (v *Viewing) Interval() TimeInterval {
	return TimeInterval{Start: v.ScheduledStart, End: v.ScheduledEnd}
}

// IsActive returns true if the viewing still occupies its agent's time
func (v *Viewing) IsActive() bool {
	return v.Status == StatusScheduled || v.Status == StatusConfirmed
}

// IsTerminal returns true if no further status transitions are allowed
func (v *Viewing) IsTerminal() bool {
	return v.Status == StatusCompleted || v.Status == StatusCancelled
}

// CanBeConfirmed returns true if the viewing can move to confirmed
func (v *Viewing) CanBeConfirmed() bool {
	return v.Status == StatusScheduled
}

// CanBeCancelled returns true if the viewing can move to cancelled
func (v *Viewing) CanBeCancelled() bool {
	return v.Status == StatusScheduled || v.Status == StatusConfirmed
}

// CanBeCompleted returns true if the viewing can move to completed
func (v *Viewing) CanBeCompleted() bool {
	return v.Status == StatusConfirmed
}

// HasCalendarEvent returns true if an external calendar event is attached
func (v *Viewing) HasCalendarEvent() bool {
	return v.CalendarEventID != nil && *v.CalendarEventID != ""
}

// EventRef returns the attached calendar event reference, or nil
func (v *Viewing) EventRef() *CalendarEventRef {
	if !v.HasCalendarEvent() {
		return nil
	}
	return &CalendarEventRef{
		EventID:     *v.CalendarEventID,
		EventLink:   v.CalendarEventLink,
		MeetingLink: v.MeetingLink,
	}
}

// AgentViewingsFilter фильтр для выборки просмотров агента
type AgentViewingsFilter struct {
	AgentID         int64          // Обязательный параметр
	From            *time.Time     // Начало периода (опционально)
	To              *time.Time     // Конец периода (опционально)
	Status          *ViewingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и завершённые просмотры
	ForUpdate       bool           // Блокировать выбранные строки (FOR UPDATE, только внутри транзакции)
}
