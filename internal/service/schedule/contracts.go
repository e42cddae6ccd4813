package schedule

import (
	"context"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний и блэкаутов
type ScheduleRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentSchedule, error)
	ReplaceForAgent(ctx context.Context, sched *domain.AgentSchedule) error
	GetBlackoutsInRange(ctx context.Context, agentID int64, dateRange domain.TimeInterval) ([]domain.BlackoutPeriod, error)
	CreateBlackout(ctx context.Context, b *domain.BlackoutPeriod) (*domain.BlackoutPeriod, error)
	DeleteBlackout(ctx context.Context, agentID, blackoutID int64) error
}

// CalendarConnRepository интерфейс репозитория подключений календаря
type CalendarConnRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.CalendarConnection, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
