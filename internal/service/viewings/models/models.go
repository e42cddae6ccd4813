package models

import (
	"errors"
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid viewing status")
)

// Request модели

// CancelViewingRequest запрос на отмену просмотра
type CancelViewingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// AttachCalendarEventRequest запрос на привязку события календаря
type AttachCalendarEventRequest struct {
	EventID     string  `json:"eventId"`
	EventLink   *string `json:"eventLink,omitempty"`
	MeetingLink *string `json:"meetingLink,omitempty"`
}

// GetAgentViewingsRequest запрос на получение просмотров агента
type GetAgentViewingsRequest struct {
	AgentID         int64      `json:"agentId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершённые просмотры
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetAgentViewingsRequest) ToDomainFilter() (domain.AgentViewingsFilter, error) {
	filter := domain.AgentViewingsFilter{
		AgentID:         r.AgentID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainViewingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ViewingResponse ответ с данными просмотра
type ViewingResponse struct {
	ID          int64 `json:"id"`
	PropertyID  int64 `json:"propertyId"`
	ApplicantID int64 `json:"applicantId"`
	AgentID     int64 `json:"agentId"`

	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
	ViewingType    string    `json:"viewingType"`
	Status         string    `json:"status"`

	// Денормализованные данные
	PropertyTitle   string  `json:"propertyTitle"`
	PropertyAddress *string `json:"propertyAddress,omitempty"`
	ApplicantName   string  `json:"applicantName"`
	ApplicantEmail  *string `json:"applicantEmail,omitempty"`
	ApplicantPhone  *string `json:"applicantPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	CalendarEventID   *string `json:"calendarEventId,omitempty"`
	CalendarEventLink *string `json:"calendarEventLink,omitempty"`
	MeetingLink       *string `json:"meetingLink,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ViewingListResponse ответ со списком просмотров
type ViewingListResponse struct {
	Viewings []ViewingResponse `json:"viewings"`
}

// CancelViewingResponse ответ на отмену просмотра
// Warnings содержит нефатальные проблемы синхронизации календаря
type CancelViewingResponse struct {
	Viewing  *ViewingResponse `json:"viewing"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Методы конвертации

// FromDomainViewing конвертирует domain модель в DTO
func FromDomainViewing(v *domain.Viewing) *ViewingResponse {
	if v == nil {
		return nil
	}

	resp := &ViewingResponse{
		ID:                 v.ID,
		PropertyID:         v.PropertyID,
		ApplicantID:        v.ApplicantID,
		AgentID:            v.AgentID,
		ScheduledStart:     v.ScheduledStart,
		ScheduledEnd:       v.ScheduledEnd,
		ViewingType:        string(v.ViewingType),
		Status:             string(v.Status),
		PropertyTitle:      v.PropertyTitle,
		PropertyAddress:    v.PropertyAddress,
		ApplicantName:      v.ApplicantName,
		ApplicantEmail:     v.ApplicantEmail,
		ApplicantPhone:     v.ApplicantPhone,
		Notes:              v.Notes,
		CalendarEventID:    v.CalendarEventID,
		CalendarEventLink:  v.CalendarEventLink,
		MeetingLink:        v.MeetingLink,
		CancellationReason: v.CancellationReason,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if v.CancelledAt != nil {
		cancelledStr := v.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainViewingList конвертирует список domain моделей в DTO
func FromDomainViewingList(viewings []*domain.Viewing) *ViewingListResponse {
	if viewings == nil {
		return &ViewingListResponse{
			Viewings: []ViewingResponse{},
		}
	}

	resp := &ViewingListResponse{
		Viewings: make([]ViewingResponse, len(viewings)),
	}

	for i, viewing := range viewings {
		if viewingResp := FromDomainViewing(viewing); viewingResp != nil {
			resp.Viewings[i] = *viewingResp
		}
	}

	return resp
}

// ToDomainViewingStatus конвертирует строку в domain.ViewingStatus с валидацией
func ToDomainViewingStatus(status string) (domain.ViewingStatus, error) {
	s := domain.ViewingStatus(status)

	// Валидируем статус
	validStatuses := []domain.ViewingStatus{
		domain.StatusScheduled,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
