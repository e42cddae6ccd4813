package create_blackout

import (
	"context"

	"github.com/oryxestates/viewing-service/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateBlackout(ctx context.Context, agentID int64, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
