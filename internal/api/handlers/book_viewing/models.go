package book_viewing

import (
	"fmt"
	"time"

	bookViewing "github.com/oryxestates/viewing-service/internal/usecase/book_viewing"
)

// BookViewingRequest HTTP request model
type BookViewingRequest struct {
	AgentID     int64 `json:"agentId"`
	PropertyID  int64 `json:"propertyId"`
	ApplicantID int64 `json:"applicantId"`

	StartTime           string `json:"startTime"` // RFC 3339
	SlotDurationMinutes *int   `json:"slotDurationMinutes,omitempty"`
	ViewingType         string `json:"viewingType,omitempty"` // "in_person" | "virtual"

	PropertyTitle   string  `json:"propertyTitle"`
	PropertyAddress *string `json:"propertyAddress,omitempty"`
	ApplicantName   string  `json:"applicantName"`
	ApplicantEmail  *string `json:"applicantEmail,omitempty"`
	ApplicantPhone  *string `json:"applicantPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ViewingResponse HTTP response model
type ViewingResponse struct {
	ID          int64 `json:"id"`
	AgentID     int64 `json:"agentId"`
	PropertyID  int64 `json:"propertyId"`
	ApplicantID int64 `json:"applicantId"`

	ScheduledStart string `json:"scheduledStart"`
	ScheduledEnd   string `json:"scheduledEnd"`
	ViewingType    string `json:"viewingType"`
	Status         string `json:"status"`

	PropertyTitle   string  `json:"propertyTitle"`
	PropertyAddress *string `json:"propertyAddress,omitempty"`
	ApplicantName   string  `json:"applicantName"`
	ApplicantEmail  *string `json:"applicantEmail,omitempty"`
	ApplicantPhone  *string `json:"applicantPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	CalendarEventID   *string `json:"calendarEventId,omitempty"`
	CalendarEventLink *string `json:"calendarEventLink,omitempty"`
	MeetingLink       *string `json:"meetingLink,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	Warnings []string `json:"warnings,omitempty"`
}

// SlotConflictResponse HTTP response для конфликта слота
type SlotConflictResponse struct {
	Error            string             `json:"error"`
	AlternativeSlots []bookViewing.Slot `json:"alternativeSlots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookViewingRequest) ToUseCaseRequest() (*bookViewing.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime, expected RFC 3339: %v", err)
	}

	return &bookViewing.Request{
		AgentID:             r.AgentID,
		PropertyID:          r.PropertyID,
		ApplicantID:         r.ApplicantID,
		StartTime:           startTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		ViewingType:         r.ViewingType,
		PropertyTitle:       r.PropertyTitle,
		PropertyAddress:     r.PropertyAddress,
		ApplicantName:       r.ApplicantName,
		ApplicantEmail:      r.ApplicantEmail,
		ApplicantPhone:      r.ApplicantPhone,
		Notes:               r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookViewing.Response) *ViewingResponse {
	return &ViewingResponse{
		ID:                resp.ID,
		AgentID:           resp.AgentID,
		PropertyID:        resp.PropertyID,
		ApplicantID:       resp.ApplicantID,
		ScheduledStart:    resp.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:      resp.ScheduledEnd.Format(time.RFC3339),
		ViewingType:       resp.ViewingType,
		Status:            resp.Status,
		PropertyTitle:     resp.PropertyTitle,
		PropertyAddress:   resp.PropertyAddress,
		ApplicantName:     resp.ApplicantName,
		ApplicantEmail:    resp.ApplicantEmail,
		ApplicantPhone:    resp.ApplicantPhone,
		Notes:             resp.Notes,
		CalendarEventID:   resp.CalendarEventID,
		CalendarEventLink: resp.CalendarEventLink,
		MeetingLink:       resp.MeetingLink,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
		Warnings:          resp.Warnings,
	}
}
