package get_agent_schedule

import (
	"context"

	"github.com/oryxestates/viewing-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSchedule(ctx context.Context, agentID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
