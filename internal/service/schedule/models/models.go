package models

import (
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
	"github.com/oryxestates/viewing-service/pkg/types"
)

// Request модели

// WorkingHoursRuleInput правило рабочих часов в запросе
type WorkingHoursRuleInput struct {
	Weekday int    `json:"weekday"` // 0 = Sunday ... 6 = Saturday
	Start   string `json:"start"`   // "HH:MM"
	End     string `json:"end"`     // "HH:MM"
}

// UpdateScheduleRequest запрос на полную замену расписания агента
type UpdateScheduleRequest struct {
	Timezone *string                 `json:"timezone,omitempty"`
	Rules    []WorkingHoursRuleInput `json:"rules"`
}

// CreateBlackoutRequest запрос на создание блэкаут-периода
type CreateBlackoutRequest struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  *string   `json:"reason,omitempty"`
}

// Response модели

// WorkingHoursRuleResponse правило рабочих часов в ответе
type WorkingHoursRuleResponse struct {
	Weekday int    `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// ScheduleResponse ответ с расписанием агента
// IsDefault = true, когда агент ещё не настроил собственное расписание
// и действуют часы по умолчанию
type ScheduleResponse struct {
	AgentID   int64                      `json:"agentId"`
	Timezone  string                     `json:"timezone"`
	IsDefault bool                       `json:"isDefault"`
	Rules     []WorkingHoursRuleResponse `json:"rules"`
	UpdatedAt *time.Time                 `json:"updatedAt,omitempty"`
}

// BlackoutResponse ответ с данными блэкаут-периода
type BlackoutResponse struct {
	ID        int64     `json:"id"`
	AgentID   int64     `json:"agentId"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlackoutListResponse ответ со списком блэкаут-периодов
type BlackoutListResponse struct {
	Blackouts []BlackoutResponse `json:"blackouts"`
}

// CalendarStatusResponse ответ со статусом подключения календаря агента
type CalendarStatusResponse struct {
	AgentID            int64   `json:"agentId"`
	Connected          bool    `json:"connected"`
	ExternalCalendarID string  `json:"externalCalendarId,omitempty"`
	LastSyncAt         *string `json:"lastSyncAt,omitempty"` // ISO 8601 format
}

// Методы конвертации

// ToDomainRule конвертирует правило запроса в domain модель
func (r WorkingHoursRuleInput) ToDomainRule() domain.WorkingHoursRule {
	return domain.WorkingHoursRule{
		Weekday: time.Weekday(r.Weekday),
		Start:   types.TimeString(r.Start),
		End:     types.TimeString(r.End),
	}
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.AgentSchedule, isDefault bool) *ScheduleResponse {
	if s == nil {
		return nil
	}

	resp := &ScheduleResponse{
		AgentID:   s.AgentID,
		Timezone:  s.Timezone,
		IsDefault: isDefault,
		Rules:     make([]WorkingHoursRuleResponse, len(s.Rules)),
	}

	for i, rule := range s.Rules {
		resp.Rules[i] = WorkingHoursRuleResponse{
			Weekday: int(rule.Weekday),
			Start:   rule.Start.String(),
			End:     rule.End.String(),
		}
	}

	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// FromDomainBlackout конвертирует блэкаут-период в DTO
func FromDomainBlackout(b *domain.BlackoutPeriod) *BlackoutResponse {
	if b == nil {
		return nil
	}
	return &BlackoutResponse{
		ID:        b.ID,
		AgentID:   b.AgentID,
		StartAt:   b.Period.Start,
		EndAt:     b.Period.End,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlackoutList конвертирует список блэкаут-периодов в DTO
func FromDomainBlackoutList(blackouts []domain.BlackoutPeriod) *BlackoutListResponse {
	resp := &BlackoutListResponse{
		Blackouts: make([]BlackoutResponse, 0, len(blackouts)),
	}
	for i := range blackouts {
		if b := FromDomainBlackout(&blackouts[i]); b != nil {
			resp.Blackouts = append(resp.Blackouts, *b)
		}
	}
	return resp
}

// FromDomainConnection конвертирует подключение календаря в DTO статуса
func FromDomainConnection(agentID int64, conn *domain.CalendarConnection) *CalendarStatusResponse {
	resp := &CalendarStatusResponse{
		AgentID: agentID,
	}

	if conn == nil {
		return resp
	}

	resp.Connected = conn.Connected
	resp.ExternalCalendarID = conn.ExternalCalendarID
	if conn.LastSyncAt != nil {
		lastSync := conn.LastSyncAt.Format(time.RFC3339)
		resp.LastSyncAt = &lastSync
	}

	return resp
}
