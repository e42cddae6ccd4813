package get_agent_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
)

const (
	msgInvalidAgentID = "invalid agent ID"
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

// Handle GET /api/v1/agents/{agentId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{agentId}/schedule - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), agentID)
	if err != nil {
		h.logger.Error("GET /agents/{agentId}/schedule - Failed to get schedule: agent_id=%d, error=%v",
			agentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /agents/{agentId}/schedule - Schedule retrieved successfully: agent_id=%d, default=%t",
		agentID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
