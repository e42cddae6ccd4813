package viewings

import (
	"context"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// ViewingRepository интерфейс репозитория просмотров
type ViewingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Viewing, error)
	GetByAgentWithFilter(ctx context.Context, filter domain.AgentViewingsFilter) ([]*domain.Viewing, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ViewingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
	AttachCalendarEvent(ctx context.Context, id int64, ref domain.CalendarEventRef) error
	DetachCalendarEvent(ctx context.Context, id int64) error
}

// CalendarConnRepository интерфейс репозитория подключений календаря
type CalendarConnRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.CalendarConnection, error)
}

// CalendarGateway интерфейс шлюза внешнего календаря
type CalendarGateway interface {
	CancelEvent(ctx context.Context, conn *domain.CalendarConnection, eventID string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
