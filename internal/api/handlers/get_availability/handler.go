package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	getAvailability "github.com/oryxestates/viewing-service/internal/usecase/get_availability"
)

const (
	msgInvalidAgentID = "invalid agent ID"
	msgInvalidRange   = "invalid date range"
	msgRangeTooLong   = "date range is too long"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/agents/{agentId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{agentId}/availability - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := toUseCaseRequest(agentID, query.Get("from"), query.Get("to"), query.Get("slotDuration"))
	if err != nil {
		h.logger.Warn("GET /agents/{agentId}/availability - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidRange):
			h.logger.Warn("GET /agents/{agentId}/availability - Invalid range: agent_id=%d", agentID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getAvailability.ErrRangeTooLong):
			h.logger.Warn("GET /agents/{agentId}/availability - Range too long: agent_id=%d", agentID)
			handlers.RespondBadRequest(w, msgRangeTooLong)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /agents/{agentId}/availability - Invalid input: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /agents/{agentId}/availability - Failed to get availability: agent_id=%d, error=%v",
				agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /agents/{agentId}/availability - Availability computed: agent_id=%d, slots=%d",
		agentID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, fromUseCaseResponse(result))
}
