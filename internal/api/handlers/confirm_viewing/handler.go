package confirm_viewing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	"github.com/oryxestates/viewing-service/internal/service/viewings"
)

const (
	msgInvalidViewingID  = "invalid viewing ID"
	msgNotFound          = "viewing not found"
	msgInvalidTransition = "viewing cannot be confirmed in its current status"
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

// Handle POST /api/v1/viewings/{viewingId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	viewingID, err := strconv.ParseInt(vars["viewingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /viewings/{id}/confirm - Invalid viewing ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidViewingID)
		return
	}

	viewing, err := h.service.Confirm(r.Context(), viewingID)
	if err != nil {
		switch {
		case errors.Is(err, viewings.ErrViewingNotFound):
			h.logger.Warn("POST /viewings/{id}/confirm - Viewing not found: viewing_id=%d", viewingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, viewings.ErrInvalidTransition):
			h.logger.Warn("POST /viewings/{id}/confirm - Invalid transition: viewing_id=%d", viewingID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("POST /viewings/{id}/confirm - Failed to confirm viewing: viewing_id=%d, error=%v",
				viewingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /viewings/{id}/confirm - Viewing confirmed successfully: viewing_id=%d", viewingID)
	handlers.RespondJSON(w, http.StatusOK, viewing)
}
