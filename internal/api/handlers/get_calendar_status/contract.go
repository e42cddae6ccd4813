package get_calendar_status

import (
	"context"

	"github.com/oryxestates/viewing-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetCalendarStatus(ctx context.Context, agentID int64) (*models.CalendarStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
