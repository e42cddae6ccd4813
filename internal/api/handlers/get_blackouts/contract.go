package get_blackouts

import (
	"context"
	"time"

	"github.com/oryxestates/viewing-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetBlackouts(ctx context.Context, agentID int64, from, to time.Time) (*models.BlackoutListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
