package get_blackouts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	"github.com/oryxestates/viewing-service/internal/domain"
	"github.com/oryxestates/viewing-service/internal/service/schedule"
)

const (
	msgInvalidAgentID = "invalid agent ID"
	msgInvalidRange   = "invalid 'from'/'to' parameters, expected RFC 3339 timestamp or YYYY-MM-DD date"
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

// Handle GET /api/v1/agents/{agentId}/blackouts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{agentId}/blackouts - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	query := r.URL.Query()
	from, ok := parseTimeParam(query.Get("from"), false)
	if !ok {
		h.logger.Warn("GET /agents/{agentId}/blackouts - Invalid 'from': agent_id=%d", agentID)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	to, ok := parseTimeParam(query.Get("to"), true)
	if !ok {
		h.logger.Warn("GET /agents/{agentId}/blackouts - Invalid 'to': agent_id=%d", agentID)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.service.GetBlackouts(r.Context(), agentID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /agents/{agentId}/blackouts - Invalid range: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /agents/{agentId}/blackouts - Failed to get blackouts: agent_id=%d, error=%v",
				agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /agents/{agentId}/blackouts - Blackouts retrieved successfully: agent_id=%d, count=%d",
		agentID, len(result.Blackouts))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// parseTimeParam парсит параметр времени: RFC 3339 или дата YYYY-MM-DD.
// Для верхней границы дата без времени включает весь указанный день
func parseTimeParam(value string, upperBound bool) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}

	loc, err := time.LoadLocation(domain.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	if upperBound {
		t = t.AddDate(0, 0, 1)
	}
	return t, true
}
