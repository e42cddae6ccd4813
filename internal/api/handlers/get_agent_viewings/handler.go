package get_agent_viewings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	"github.com/oryxestates/viewing-service/internal/service/viewings"
	"github.com/oryxestates/viewing-service/internal/service/viewings/models"
)

const (
	msgInvalidAgentID = "invalid agent ID"
	msgInvalidFilter  = "invalid filter parameters"
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

// Handle GET /api/v1/agents/{agentId}/viewings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{agentId}/viewings - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	serviceReq := &models.GetAgentViewingsRequest{AgentID: agentID}

	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		serviceReq.Status = &status
	}
	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.logger.Warn("GET /agents/{agentId}/viewings - Invalid 'from': %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		serviceReq.From = &from
	}
	if toStr := query.Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.logger.Warn("GET /agents/{agentId}/viewings - Invalid 'to': %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		serviceReq.To = &to
	}
	if query.Get("includeInactive") == "true" {
		serviceReq.IncludeInactive = true
	}

	result, err := h.service.GetAgentViewings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, viewings.ErrInvalidInput):
			h.logger.Warn("GET /agents/{agentId}/viewings - Invalid filter: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /agents/{agentId}/viewings - Failed to get viewings: agent_id=%d, error=%v",
				agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /agents/{agentId}/viewings - Viewings retrieved successfully: agent_id=%d, count=%d",
		agentID, len(result.Viewings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
