package domain

import "time"

// Default scheduling configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultMinLeadTimeMinutes  = 60 // 1 hour notice before the earliest bookable slot
	DefaultTimezone            = "Asia/Dubai"
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 180 // 3 hours
	MinBufferMinutes       = 0
	MaxBufferMinutes       = 120
	MinLeadTimeMinutes     = 0
	MaxLeadTimeMinutes     = 10080 // 1 week
	MaxAvailabilityDays    = 62   // longest date range a single availability query may span
	MaxNotesLength         = 500
	MaxReasonLength        = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, при которых просмотр занимает время агента.
// Используется при подсчете занятых интервалов.
var ActiveStatuses = []ViewingStatus{
	StatusScheduled,
	StatusConfirmed,
}

// TerminalStatuses список финальных статусов просмотра
var TerminalStatuses = []ViewingStatus{
	StatusCompleted,
	StatusCancelled,
}

// DefaultWorkingHours расписание по умолчанию: Пн-Сб 09:00-18:00.
// Применяется, пока агент не настроил собственное расписание.
func DefaultWorkingHours() []WorkingHoursRule {
	rules := make([]WorkingHoursRule, 0, 6)
	for d := time.Monday; d <= time.Saturday; d++ {
		rules = append(rules, WorkingHoursRule{
			Weekday: d,
			Start:   "09:00",
			End:     "18:00",
		})
	}
	return rules
}
