package get_availability

import (
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// Defaults параметры генерации слотов из конфигурации сервиса.
// Применяются, когда запрос не переопределяет их
type Defaults struct {
	SlotDurationMinutes int
	BufferMinutes       int
	MinLeadTimeMinutes  int
}

// Request модель запроса на получение доступных слотов агента
type Request struct {
	AgentID int64     // ID агента
	From    time.Time // Начало диапазона
	To      time.Time // Конец диапазона

	// Опциональные переопределения конфигурации
	SlotDurationMinutes *int
	BufferMinutes       *int
	MinLeadTimeMinutes  *int
}

// Response модель ответа со списком доступных слотов
// Warnings содержит нефатальные проблемы (например, недоступность
// внешнего календаря)
type Response struct {
	AgentID  int64
	From     time.Time
	To       time.Time
	Slots    []Slot
	Warnings []string
}

// Slot модель доступного слота
type Slot struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

// fromDomainSlots конвертирует сгенерированные слоты в модель ответа
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
