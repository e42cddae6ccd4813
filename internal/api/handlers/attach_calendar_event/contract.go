package attach_calendar_event

import (
	"context"

	"github.com/oryxestates/viewing-service/internal/service/viewings/models"
)

type ViewingService interface {
	AttachCalendarEvent(ctx context.Context, id int64, req *models.AttachCalendarEventRequest) (*models.ViewingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
