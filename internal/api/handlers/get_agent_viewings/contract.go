package get_agent_viewings

import (
	"context"

	"github.com/oryxestates/viewing-service/internal/service/viewings/models"
)

type ViewingService interface {
	GetAgentViewings(ctx context.Context, req *models.GetAgentViewingsRequest) (*models.ViewingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
