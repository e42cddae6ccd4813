package book_viewing

import (
	"errors"
	"net/http"

	"github.com/oryxestates/viewing-service/internal/api/handlers"
	bookViewing "github.com/oryxestates/viewing-service/internal/usecase/book_viewing"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgSlotNotAvailable   = "the requested slot is no longer available"
)

type Handler struct {
	useCase BookViewingUseCase
	logger  Logger
}

func NewHandler(useCase BookViewingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/viewings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookViewingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /viewings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /viewings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *bookViewing.SlotConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /viewings - Slot conflict: agent_id=%d, alternatives=%d",
				req.AgentID, len(conflict.AlternativeSlots))
			handlers.RespondJSON(w, http.StatusConflict, SlotConflictResponse{
				Error:            msgSlotNotAvailable,
				AlternativeSlots: conflict.AlternativeSlots,
			})

		case errors.Is(err, bookViewing.ErrInvalidInput):
			h.logger.Warn("POST /viewings - Invalid input: agent_id=%d, error=%v", req.AgentID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /viewings - Failed to book viewing: agent_id=%d, property_id=%d, error=%v",
				req.AgentID, req.PropertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /viewings - Viewing booked successfully: viewing_id=%d, agent_id=%d, property_id=%d",
		result.ID, req.AgentID, req.PropertyID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
