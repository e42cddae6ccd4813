package get_availability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
	getAvailability "github.com/oryxestates/viewing-service/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	AgentID  int64                  `json:"agentId"`
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Slots    []getAvailability.Slot `json:"slots"`
	Warnings []string               `json:"warnings,omitempty"`
}

// parseTimeParam парсит параметр времени: RFC 3339 или дата YYYY-MM-DD.
// Дата без времени интерпретируется как полночь в таймзоне агентства
func parseTimeParam(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}

	loc, err := time.LoadLocation(domain.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC 3339 timestamp or YYYY-MM-DD date: %v", err)
	}
	return t, true, nil
}

// toUseCaseRequest собирает запрос use case из параметров URL
func toUseCaseRequest(agentID int64, fromStr, toStr, slotDurationStr string) (*getAvailability.Request, error) {
	from, _, err := parseTimeParam(fromStr)
	if err != nil {
		return nil, fmt.Errorf("invalid 'from': %v", err)
	}

	to, dateOnly, err := parseTimeParam(toStr)
	if err != nil {
		return nil, fmt.Errorf("invalid 'to': %v", err)
	}
	// Дата без времени в 'to' включает весь этот день
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	}

	req := &getAvailability.Request{
		AgentID: agentID,
		From:    from,
		To:      to,
	}

	if slotDurationStr != "" {
		slotDuration, err := strconv.Atoi(slotDurationStr)
		if err != nil {
			return nil, fmt.Errorf("invalid 'slotDuration': %v", err)
		}
		req.SlotDurationMinutes = &slotDuration
	}

	return req, nil
}

// fromUseCaseResponse конвертирует ответ use case в HTTP response
func fromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		AgentID:  resp.AgentID,
		From:     resp.From.Format(time.RFC3339),
		To:       resp.To.Format(time.RFC3339),
		Slots:    resp.Slots,
		Warnings: resp.Warnings,
	}
}
