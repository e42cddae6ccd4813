package book_viewing

import (
	"fmt"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// slotParams итоговые параметры бронирования после применения
// переопределений запроса к значениям по умолчанию
type slotParams struct {
	SlotDurationMinutes int
	BufferMinutes       int
	MinLeadTimeMinutes  int
	ViewingType         domain.ViewingType
}

// validateRequest валидирует входные данные и вычисляет параметры слота
func validateRequest(req *Request, defaults Defaults) (slotParams, error) {
	params := slotParams{
		SlotDurationMinutes: defaults.SlotDurationMinutes,
		BufferMinutes:       defaults.BufferMinutes,
		MinLeadTimeMinutes:  defaults.MinLeadTimeMinutes,
		ViewingType:         domain.ViewingTypeInPerson,
	}

	if req.AgentID <= 0 {
		return params, fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}
	if req.PropertyID <= 0 {
		return params, fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}
	if req.ApplicantID <= 0 {
		return params, fmt.Errorf("%w: applicantID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return params, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.PropertyTitle == "" {
		return params, fmt.Errorf("%w: propertyTitle is required", ErrInvalidInput)
	}
	if req.ApplicantName == "" {
		return params, fmt.Errorf("%w: applicantName is required", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return params, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.SlotDurationMinutes != nil {
		params.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if params.SlotDurationMinutes < domain.MinSlotDurationMinutes || params.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return params, fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	switch req.ViewingType {
	case "":
		// in_person по умолчанию
	case string(domain.ViewingTypeInPerson):
		params.ViewingType = domain.ViewingTypeInPerson
	case string(domain.ViewingTypeVirtual):
		params.ViewingType = domain.ViewingTypeVirtual
	default:
		return params, fmt.Errorf("%w: unknown viewing type %q", ErrInvalidInput, req.ViewingType)
	}

	return params, nil
}
