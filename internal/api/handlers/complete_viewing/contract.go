package complete_viewing

import (
	"context"

	"github.com/oryxestates/viewing-service/internal/service/viewings/models"
)

type ViewingService interface {
	Complete(ctx context.Context, id int64) (*models.ViewingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
