package cancel_viewing

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
	msgInvalidTransition  = "viewing cannot be cancelled in its current status"
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

// Handle POST /api/v1/viewings/{viewingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	viewingID, err := strconv.ParseInt(vars["viewingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /viewings/{id}/cancel - Invalid viewing ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidViewingID)
		return
	}

	var req models.CancelViewingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /viewings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Cancel(r.Context(), viewingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, viewings.ErrViewingNotFound):
			h.logger.Warn("POST /viewings/{id}/cancel - Viewing not found: viewing_id=%d", viewingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, viewings.ErrInvalidTransition):
			h.logger.Warn("POST /viewings/{id}/cancel - Invalid transition: viewing_id=%d", viewingID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("POST /viewings/{id}/cancel - Failed to cancel viewing: viewing_id=%d, error=%v",
				viewingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /viewings/{id}/cancel - Viewing cancelled successfully: viewing_id=%d, warnings=%d",
		viewingID, len(result.Warnings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
