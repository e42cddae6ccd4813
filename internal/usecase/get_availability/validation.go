package get_availability

import (
	"fmt"
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// slotParams итоговые параметры генерации слотов после применения
// переопределений запроса к значениям по умолчанию
type slotParams struct {
	SlotDurationMinutes int
	BufferMinutes       int
	MinLeadTimeMinutes  int
}

// validateRequest валидирует входные данные и вычисляет параметры генерации
func validateRequest(req *Request, defaults Defaults) (slotParams, error) {
	params := slotParams{
		SlotDurationMinutes: defaults.SlotDurationMinutes,
		BufferMinutes:       defaults.BufferMinutes,
		MinLeadTimeMinutes:  defaults.MinLeadTimeMinutes,
	}

	if req.AgentID <= 0 {
		return params, fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return params, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	if !req.From.Before(req.To) {
		return params, ErrInvalidRange
	}

	if req.To.Sub(req.From) > time.Duration(domain.MaxAvailabilityDays)*24*time.Hour {
		return params, fmt.Errorf("%w: range must not exceed %d days", ErrRangeTooLong, domain.MaxAvailabilityDays)
	}

	if req.SlotDurationMinutes != nil {
		params.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.BufferMinutes != nil {
		params.BufferMinutes = *req.BufferMinutes
	}
	if req.MinLeadTimeMinutes != nil {
		params.MinLeadTimeMinutes = *req.MinLeadTimeMinutes
	}

	if params.SlotDurationMinutes < domain.MinSlotDurationMinutes || params.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return params, fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if params.BufferMinutes < domain.MinBufferMinutes || params.BufferMinutes > domain.MaxBufferMinutes {
		return params, fmt.Errorf("%w: bufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	if params.MinLeadTimeMinutes < domain.MinLeadTimeMinutes || params.MinLeadTimeMinutes > domain.MaxLeadTimeMinutes {
		return params, fmt.Errorf("%w: minLeadTimeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinLeadTimeMinutes, domain.MaxLeadTimeMinutes)
	}

	return params, nil
}
