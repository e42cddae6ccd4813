package get_availability

import (
	"context"
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// ViewingRepository интерфейс репозитория просмотров
type ViewingRepository interface {
	GetByAgentWithFilter(ctx context.Context, filter domain.AgentViewingsFilter) ([]*domain.Viewing, error)
}

// ScheduleRepository интерфейс репозитория расписаний и блэкаутов
type ScheduleRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentSchedule, error)
	GetBlackoutsInRange(ctx context.Context, agentID int64, dateRange domain.TimeInterval) ([]domain.BlackoutPeriod, error)
}

// CalendarConnRepository интерфейс репозитория подключений календаря
type CalendarConnRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.CalendarConnection, error)
}

// CalendarGateway интерфейс шлюза внешнего календаря
type CalendarGateway interface {
	GetBusyIntervals(ctx context.Context, conn *domain.CalendarConnection, dateRange domain.TimeInterval) ([]domain.BusyInterval, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
