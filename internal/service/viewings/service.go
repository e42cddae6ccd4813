package viewings

import (
	"context"
	"errors"
	"fmt"

	"github.com/oryxestates/viewing-service/internal/domain"
	calendarconnRepo "github.com/oryxestates/viewing-service/internal/infra/storage/calendarconn"
	viewingRepo "github.com/oryxestates/viewing-service/internal/infra/storage/viewing"
	"github.com/oryxestates/viewing-service/internal/service/viewings/models"
)

// Service сервис для работы с просмотрами недвижимости
type Service struct {
	viewingRepo      ViewingRepository
	calendarConnRepo CalendarConnRepository
	calendarGateway  CalendarGateway
	logger           Logger
}

// NewService создает новый экземпляр сервиса просмотров
func NewService(
	viewingRepo ViewingRepository,
	calendarConnRepo CalendarConnRepository,
	calendarGateway CalendarGateway,
	logger Logger,
) *Service {
	return &Service{
		viewingRepo:      viewingRepo,
		calendarConnRepo: calendarConnRepo,
		calendarGateway:  calendarGateway,
		logger:           logger,
	}
}

// GetByID получает просмотр по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ViewingResponse, error) {
	s.logger.Info("GetByID: fetching viewing id=%d", id)

	viewing, err := s.getViewing(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainViewing(viewing), nil
}

// GetAgentViewings получает просмотры агента с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных просмотров
func (s *Service) GetAgentViewings(ctx context.Context, req *models.GetAgentViewingsRequest) (*models.ViewingListResponse, error) {
	s.logger.Info("GetAgentViewings: fetching viewings for agent=%d", req.AgentID)

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetAgentViewings: invalid filter for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	viewings, err := s.viewingRepo.GetByAgentWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetAgentViewings: repository error for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: GetAgentViewings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAgentViewings: successfully fetched %d viewings for agent=%d", len(viewings), req.AgentID)
	return models.FromDomainViewingList(viewings), nil
}

// Confirm подтверждает просмотр
// Допустим только переход scheduled -> confirmed
func (s *Service) Confirm(ctx context.Context, id int64) (*models.ViewingResponse, error) {
	s.logger.Info("Confirm: confirming viewing id=%d", id)

	viewing, err := s.getViewing(ctx, "Confirm", id)
	if err != nil {
		return nil, err
	}

	if !viewing.CanBeConfirmed() {
		s.logger.Warn("Confirm: viewing id=%d cannot be confirmed, status=%s", id, viewing.Status)
		return nil, fmt.Errorf("%w: cannot confirm viewing in status %q", ErrInvalidTransition, viewing.Status)
	}

	if err := s.updateStatus(ctx, "Confirm", id, domain.StatusConfirmed); err != nil {
		return nil, err
	}

	viewing.Status = domain.StatusConfirmed
	s.logger.Info("Confirm: successfully confirmed viewing id=%d", id)
	return models.FromDomainViewing(viewing), nil
}

// Complete завершает просмотр
// Допустим только переход confirmed -> completed
func (s *Service) Complete(ctx context.Context, id int64) (*models.ViewingResponse, error) {
	s.logger.Info("Complete: completing viewing id=%d", id)

	viewing, err := s.getViewing(ctx, "Complete", id)
	if err != nil {
		return nil, err
	}

	if !viewing.CanBeCompleted() {
		s.logger.Warn("Complete: viewing id=%d cannot be completed, status=%s", id, viewing.Status)
		return nil, fmt.Errorf("%w: cannot complete viewing in status %q", ErrInvalidTransition, viewing.Status)
	}

	if err := s.updateStatus(ctx, "Complete", id, domain.StatusCompleted); err != nil {
		return nil, err
	}

	viewing.Status = domain.StatusCompleted
	s.logger.Info("Complete: successfully completed viewing id=%d", id)
	return models.FromDomainViewing(viewing), nil
}

// Cancel отменяет просмотр
// Локальная отмена выполняется всегда; отмена события во внешнем календаре
// выполняется best-effort - сбой синхронизации попадает в Warnings ответа,
// но не отменяет локальную отмену
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelViewingRequest) (*models.CancelViewingResponse, error) {
	s.logger.Info("Cancel: cancelling viewing id=%d", id)

	viewing, err := s.getViewing(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if !viewing.CanBeCancelled() {
		s.logger.Warn("Cancel: viewing id=%d cannot be cancelled, status=%s", id, viewing.Status)
		return nil, fmt.Errorf("%w: cannot cancel viewing in status %q", ErrInvalidTransition, viewing.Status)
	}

	// Отменяем просмотр локально
	if err := s.viewingRepo.Cancel(ctx, id, req.CancellationReason); err != nil {
		if errors.Is(err, viewingRepo.ErrViewingNotFound) {
			s.logger.Warn("Cancel: viewing id=%d not found during cancellation", id)
			return nil, ErrViewingNotFound
		}
		s.logger.Error("Cancel: repository error for viewing id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Отменяем событие во внешнем календаре (best-effort)
	var warnings []string
	if viewing.HasCalendarEvent() {
		if warn := s.cancelCalendarEvent(ctx, viewing); warn != "" {
			warnings = append(warnings, warn)
		}
	}

	cancelled, err := s.getViewing(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled viewing id=%d", id)
	return &models.CancelViewingResponse{
		Viewing:  models.FromDomainViewing(cancelled),
		Warnings: warnings,
	}, nil
}

// AttachCalendarEvent привязывает событие внешнего календаря к просмотру
// Повторная привязка того же события идемпотентна
func (s *Service) AttachCalendarEvent(ctx context.Context, id int64, req *models.AttachCalendarEventRequest) (*models.ViewingResponse, error) {
	s.logger.Info("AttachCalendarEvent: attaching event=%s to viewing id=%d", req.EventID, id)

	if req.EventID == "" {
		s.logger.Warn("AttachCalendarEvent: empty event id for viewing id=%d", id)
		return nil, fmt.Errorf("%w: eventId is required", ErrInvalidInput)
	}

	viewing, err := s.getViewing(ctx, "AttachCalendarEvent", id)
	if err != nil {
		return nil, err
	}

	// Идемпотентность: то же событие уже привязано
	if viewing.HasCalendarEvent() && *viewing.CalendarEventID == req.EventID {
		s.logger.Info("AttachCalendarEvent: event=%s already attached to viewing id=%d", req.EventID, id)
		return models.FromDomainViewing(viewing), nil
	}

	ref := domain.CalendarEventRef{
		EventID:     req.EventID,
		EventLink:   req.EventLink,
		MeetingLink: req.MeetingLink,
	}
	if err := s.viewingRepo.AttachCalendarEvent(ctx, id, ref); err != nil {
		if errors.Is(err, viewingRepo.ErrViewingNotFound) {
			s.logger.Warn("AttachCalendarEvent: viewing id=%d not found", id)
			return nil, ErrViewingNotFound
		}
		s.logger.Error("AttachCalendarEvent: repository error for viewing id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: AttachCalendarEvent - repository error: %v", ErrInternal, err)
	}

	viewing.CalendarEventID = &ref.EventID
	viewing.CalendarEventLink = ref.EventLink
	viewing.MeetingLink = ref.MeetingLink

	s.logger.Info("AttachCalendarEvent: successfully attached event=%s to viewing id=%d", req.EventID, id)
	return models.FromDomainViewing(viewing), nil
}

// DetachCalendarEvent отвязывает событие внешнего календаря от просмотра
// Отвязка при отсутствии события идемпотентна
func (s *Service) DetachCalendarEvent(ctx context.Context, id int64) (*models.ViewingResponse, error) {
	s.logger.Info("DetachCalendarEvent: detaching event from viewing id=%d", id)

	viewing, err := s.getViewing(ctx, "DetachCalendarEvent", id)
	if err != nil {
		return nil, err
	}

	// Идемпотентность: событие уже отвязано
	if !viewing.HasCalendarEvent() {
		s.logger.Info("DetachCalendarEvent: viewing id=%d has no attached event", id)
		return models.FromDomainViewing(viewing), nil
	}

	if err := s.viewingRepo.DetachCalendarEvent(ctx, id); err != nil {
		if errors.Is(err, viewingRepo.ErrViewingNotFound) {
			s.logger.Warn("DetachCalendarEvent: viewing id=%d not found", id)
			return nil, ErrViewingNotFound
		}
		s.logger.Error("DetachCalendarEvent: repository error for viewing id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: DetachCalendarEvent - repository error: %v", ErrInternal, err)
	}

	viewing.CalendarEventID = nil
	viewing.CalendarEventLink = nil
	viewing.MeetingLink = nil

	s.logger.Info("DetachCalendarEvent: successfully detached event from viewing id=%d", id)
	return models.FromDomainViewing(viewing), nil
}

// Вспомогательные методы

func (s *Service) getViewing(ctx context.Context, op string, id int64) (*domain.Viewing, error) {
	viewing, err := s.viewingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, viewingRepo.ErrViewingNotFound) {
			s.logger.Warn("%s: viewing id=%d not found", op, id)
			return nil, ErrViewingNotFound
		}
		s.logger.Error("%s: repository error for viewing id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return viewing, nil
}

func (s *Service) updateStatus(ctx context.Context, op string, id int64, status domain.ViewingStatus) error {
	if err := s.viewingRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, viewingRepo.ErrViewingNotFound) {
			s.logger.Warn("%s: viewing id=%d not found during update", op, id)
			return ErrViewingNotFound
		}
		s.logger.Error("%s: repository error for viewing id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

// cancelCalendarEvent отменяет событие во внешнем календаре агента.
// Возвращает текст предупреждения при сбое, пустую строку при успехе
func (s *Service) cancelCalendarEvent(ctx context.Context, viewing *domain.Viewing) string {
	conn, err := s.calendarConnRepo.GetByAgentID(ctx, viewing.AgentID)
	if err != nil {
		if errors.Is(err, calendarconnRepo.ErrConnectionNotFound) {
			s.logger.Warn("cancelCalendarEvent: agent=%d has no calendar connection, event=%s left in place",
				viewing.AgentID, *viewing.CalendarEventID)
			return "calendar event was not cancelled: agent has no calendar connection"
		}
		s.logger.Error("cancelCalendarEvent: failed to load connection for agent=%d: %v", viewing.AgentID, err)
		return "calendar event was not cancelled: failed to load calendar connection"
	}

	if err := s.calendarGateway.CancelEvent(ctx, conn, *viewing.CalendarEventID); err != nil {
		s.logger.Warn("cancelCalendarEvent: failed to cancel event=%s for viewing id=%d: %v",
			*viewing.CalendarEventID, viewing.ID, err)
		return "calendar event could not be cancelled in the external calendar"
	}

	s.logger.Info("cancelCalendarEvent: cancelled event=%s for viewing id=%d", *viewing.CalendarEventID, viewing.ID)
	return ""
}
