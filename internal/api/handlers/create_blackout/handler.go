package create_blackout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	"github.com/oryxestates/viewing-service/internal/service/schedule"
	"github.com/oryxestates/viewing-service/internal/service/schedule/models"
)

const (
	msgInvalidAgentID     = "invalid agent ID"
	msgInvalidRequestBody = "invalid request body"
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

// Handle POST /api/v1/agents/{agentId}/blackouts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /agents/{agentId}/blackouts - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	var req models.CreateBlackoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /agents/{agentId}/blackouts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateBlackout(r.Context(), agentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /agents/{agentId}/blackouts - Invalid input: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /agents/{agentId}/blackouts - Failed to create blackout: agent_id=%d, error=%v",
				agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /agents/{agentId}/blackouts - Blackout created successfully: blackout_id=%d, agent_id=%d",
		result.ID, agentID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
