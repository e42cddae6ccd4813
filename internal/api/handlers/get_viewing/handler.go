package get_viewing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	"github.com/oryxestates/viewing-service/internal/service/viewings"
)

const (
	msgInvalidViewingID = "invalid viewing ID"
	msgNotFound         = "viewing not found"
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

// Handle GET /api/v1/viewings/{viewingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	viewingID, err := strconv.ParseInt(vars["viewingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /viewings/{id} - Invalid viewing ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidViewingID)
		return
	}

	viewing, err := h.service.GetByID(r.Context(), viewingID)
	if err != nil {
		switch {
		case errors.Is(err, viewings.ErrViewingNotFound):
			h.logger.Warn("GET /viewings/{id} - Viewing not found: viewing_id=%d", viewingID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /viewings/{id} - Failed to get viewing: viewing_id=%d, error=%v", viewingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /viewings/{id} - Viewing retrieved successfully: viewing_id=%d", viewingID)
	handlers.RespondJSON(w, http.StatusOK, viewing)
}
