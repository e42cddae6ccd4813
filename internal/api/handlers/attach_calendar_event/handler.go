package attach_calendar_event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	"github.com/oryxestates/viewing-service/internal/service/viewings"
	"github.com/oryxestates/viewing-service/internal/service/viewings/models"
)

const (
	msgInvalidViewingID   = "invalid viewing ID"
	msgInvalidRequestBody = "invalid request body"
	msgNotFound           = "viewing not found"
)

type Handler struct {
	service ViewingService
	logger  Logger
}

func NewHandler(service ViewingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/viewings/{viewingId}/calendar-event
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	viewingID, err := strconv.ParseInt(vars["viewingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /viewings/{id}/calendar-event - Invalid viewing ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidViewingID)
		return
	}

	var req models.AttachCalendarEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /viewings/{id}/calendar-event - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	viewing, err := h.service.AttachCalendarEvent(r.Context(), viewingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, viewings.ErrViewingNotFound):
			h.logger.Warn("POST /viewings/{id}/calendar-event - Viewing not found: viewing_id=%d", viewingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, viewings.ErrInvalidInput):
			h.logger.Warn("POST /viewings/{id}/calendar-event - Invalid input: viewing_id=%d, error=%v", viewingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /viewings/{id}/calendar-event - Failed to attach event: viewing_id=%d, error=%v",
				viewingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /viewings/{id}/calendar-event - Event attached successfully: viewing_id=%d", viewingID)
	handlers.RespondJSON(w, http.StatusOK, viewing)
}
