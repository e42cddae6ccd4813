package delete_blackout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	"github.com/oryxestates/viewing-service/internal/service/schedule"
)

const (
	msgInvalidAgentID    = "invalid agent ID"
	msgInvalidBlackoutID = "invalid blackout ID"
	msgNotFound          = "blackout period not found"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/agents/{agentId}/blackouts/{blackoutId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /agents/{agentId}/blackouts/{blackoutId} - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	blackoutID, err := strconv.ParseInt(vars["blackoutId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /agents/{agentId}/blackouts/{blackoutId} - Invalid blackout ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlackoutID)
		return
	}

	if err := h.service.DeleteBlackout(r.Context(), agentID, blackoutID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlackoutNotFound):
			h.logger.Warn("DELETE /agents/{agentId}/blackouts/{blackoutId} - Blackout not found: blackout_id=%d, agent_id=%d",
				blackoutID, agentID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /agents/{agentId}/blackouts/{blackoutId} - Failed to delete blackout: blackout_id=%d, error=%v",
				blackoutID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /agents/{agentId}/blackouts/{blackoutId} - Blackout deleted successfully: blackout_id=%d, agent_id=%d",
		blackoutID, agentID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
