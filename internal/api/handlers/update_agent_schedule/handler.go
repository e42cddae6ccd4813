package update_agent_schedule

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

// Handle PUT /api/v1/agents/{agentId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /agents/{agentId}/schedule - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /agents/{agentId}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSchedule(r.Context(), agentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /agents/{agentId}/schedule - Invalid input: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /agents/{agentId}/schedule - Failed to update schedule: agent_id=%d, error=%v",
				agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /agents/{agentId}/schedule - Schedule updated successfully: agent_id=%d, rules=%d",
		agentID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
