package book_viewing

import (
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// Defaults параметры генерации слотов из конфигурации сервиса
type Defaults struct {
	SlotDurationMinutes int
	BufferMinutes       int
	MinLeadTimeMinutes  int
}

// Request модель запроса на бронирование просмотра
type Request struct {
	AgentID     int64
	PropertyID  int64
	ApplicantID int64

	StartTime           time.Time // Начало запрошенного слота
	SlotDurationMinutes *int      // Опциональное переопределение длительности
	ViewingType         string    // "in_person" (по умолчанию) или "virtual"

	// Денормализованные данные для истории и события календаря
	PropertyTitle   string
	PropertyAddress *string
	ApplicantName   string
	ApplicantEmail  *string
	ApplicantPhone  *string
	Notes           *string
}

// Response модель ответа с созданным просмотром
// Warnings содержит нефатальные проблемы синхронизации календаря
type Response struct {
	ID          int64
	AgentID     int64
	PropertyID  int64
	ApplicantID int64

	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ViewingType    string
	Status         string

	PropertyTitle   string
	PropertyAddress *string
	ApplicantName   string
	ApplicantEmail  *string
	ApplicantPhone  *string
	Notes           *string

	CalendarEventID   *string
	CalendarEventLink *string
	MeetingLink       *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Warnings []string
}

// Slot модель альтернативного слота в ответе о конфликте
type Slot struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

// fromDomainViewing конвертирует созданный просмотр в модель ответа
func fromDomainViewing(v *domain.Viewing, warnings []string) *Response {
	return &Response{
		ID:                v.ID,
		AgentID:           v.AgentID,
		PropertyID:        v.PropertyID,
		ApplicantID:       v.ApplicantID,
		ScheduledStart:    v.ScheduledStart,
		ScheduledEnd:      v.ScheduledEnd,
		ViewingType:       string(v.ViewingType),
		Status:            string(v.Status),
		PropertyTitle:     v.PropertyTitle,
		PropertyAddress:   v.PropertyAddress,
		ApplicantName:     v.ApplicantName,
		ApplicantEmail:    v.ApplicantEmail,
		ApplicantPhone:    v.ApplicantPhone,
		Notes:             v.Notes,
		CalendarEventID:   v.CalendarEventID,
		CalendarEventLink: v.CalendarEventLink,
		MeetingLink:       v.MeetingLink,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
		Warnings:          warnings,
	}
}

// fromDomainSlots конвертирует сгенерированные слоты в альтернативы
func fromDomainSlots(slots []domain.AvailabilitySlot) []Slot {
	result := make([]Slot, len(slots))
	for i, s := range slots {
		result[i] = Slot{
			StartTime:       s.Interval.Start,
			EndTime:         s.Interval.End,
			DurationMinutes: s.DurationMinutes,
		}
	}
	return result
}
