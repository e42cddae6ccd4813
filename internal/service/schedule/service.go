package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
	calendarconnRepo "github.com/oryxestates/viewing-service/internal/infra/storage/calendarconn"
	scheduleRepo "github.com/oryxestates/viewing-service/internal/infra/storage/schedule"
	"github.com/oryxestates/viewing-service/internal/service/schedule/models"
)

// Service сервис для работы с расписаниями агентов
type Service struct {
	scheduleRepo     ScheduleRepository
	calendarConnRepo CalendarConnRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	calendarConnRepo CalendarConnRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:     scheduleRepo,
		calendarConnRepo: calendarConnRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetSchedule получает расписание агента
// Если агент не настроил расписание, возвращает часы по умолчанию
func (s *Service) GetSchedule(ctx context.Context, agentID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for agent=%d", agentID)

	sched, err := s.scheduleRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Info("GetSchedule: agent=%d has no schedule, returning defaults", agentID)
			return models.FromDomainSchedule(&domain.AgentSchedule{
				AgentID:  agentID,
				Timezone: domain.DefaultTimezone,
				Rules:    domain.DefaultWorkingHours(),
			}, true), nil
		}
		s.logger.Error("GetSchedule: repository error for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSchedule: successfully fetched schedule for agent=%d (%d rules)", agentID, len(sched.Rules))
	return models.FromDomainSchedule(sched, false), nil
}

// UpdateSchedule полностью заменяет расписание агента
// На каждый день недели действует не более одного правила, при дублях
// побеждает последнее указанное (last-write-wins)
func (s *Service) UpdateSchedule(ctx context.Context, agentID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for agent=%d (%d rules)", agentID, len(req.Rules))

	// 1. Валидируем входные данные
	rules, err := s.validateRules(req.Rules)
	if err != nil {
		s.logger.Warn("UpdateSchedule: validation failed for agent=%d: %v", agentID, err)
		return nil, err
	}

	timezone := domain.DefaultTimezone
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			s.logger.Warn("UpdateSchedule: invalid timezone=%q for agent=%d", *req.Timezone, agentID)
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, *req.Timezone)
		}
		timezone = *req.Timezone
	}

	sched := &domain.AgentSchedule{
		AgentID:  agentID,
		Timezone: timezone,
		Rules:    rules,
	}

	// 2. Заменяем расписание атомарно (delete + insert в одной транзакции)
	if err := s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.scheduleRepo.ReplaceForAgent(ctx, sched)
	}); err != nil {
		s.logger.Error("UpdateSchedule: repository error for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSchedule: successfully updated schedule for agent=%d", agentID)
	return models.FromDomainSchedule(sched, false), nil
}

// GetBlackouts получает блэкаут-периоды агента, пересекающиеся с диапазоном
func (s *Service) GetBlackouts(ctx context.Context, agentID int64, from, to time.Time) (*models.BlackoutListResponse, error) {
	s.logger.Info("GetBlackouts: fetching blackouts for agent=%d", agentID)

	dateRange, err := domain.NewTimeInterval(from, to)
	if err != nil {
		s.logger.Warn("GetBlackouts: invalid range for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	blackouts, err := s.scheduleRepo.GetBlackoutsInRange(ctx, agentID, dateRange)
	if err != nil {
		s.logger.Error("GetBlackouts: repository error for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: GetBlackouts - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBlackouts: successfully fetched %d blackouts for agent=%d", len(blackouts), agentID)
	return models.FromDomainBlackoutList(blackouts), nil
}

// CreateBlackout создает блэкаут-период агента
func (s *Service) CreateBlackout(ctx context.Context, agentID int64, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	s.logger.Info("CreateBlackout: creating blackout for agent=%d", agentID)

	period, err := domain.NewTimeInterval(req.StartAt, req.EndAt)
	if err != nil {
		s.logger.Warn("CreateBlackout: invalid period for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		s.logger.Warn("CreateBlackout: reason too long for agent=%d", agentID)
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	blackout := &domain.BlackoutPeriod{
		AgentID: agentID,
		Period:  period,
		Reason:  req.Reason,
	}

	created, err := s.scheduleRepo.CreateBlackout(ctx, blackout)
	if err != nil {
		s.logger.Error("CreateBlackout: repository error for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlackout: successfully created blackout id=%d for agent=%d", created.ID, agentID)
	return models.FromDomainBlackout(created), nil
}

// DeleteBlackout удаляет блэкаут-период агента
func (s *Service) DeleteBlackout(ctx context.Context, agentID, blackoutID int64) error {
	s.logger.Info("DeleteBlackout: deleting blackout id=%d for agent=%d", blackoutID, agentID)

	if err := s.scheduleRepo.DeleteBlackout(ctx, agentID, blackoutID); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlackoutNotFound) {
			s.logger.Warn("DeleteBlackout: blackout id=%d not found for agent=%d", blackoutID, agentID)
			return ErrBlackoutNotFound
		}
		s.logger.Error("DeleteBlackout: repository error for blackout id=%d: %v", blackoutID, err)
		return fmt.Errorf("%w: DeleteBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlackout: successfully deleted blackout id=%d for agent=%d", blackoutID, agentID)
	return nil
}

// GetCalendarStatus получает статус подключения внешнего календаря агента
// Отсутствие записи о подключении не ошибка: возвращается connected=false
func (s *Service) GetCalendarStatus(ctx context.Context, agentID int64) (*models.CalendarStatusResponse, error) {
	s.logger.Info("GetCalendarStatus: fetching calendar status for agent=%d", agentID)

	conn, err := s.calendarConnRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, calendarconnRepo.ErrConnectionNotFound) {
			s.logger.Info("GetCalendarStatus: agent=%d has no calendar connection", agentID)
			return models.FromDomainConnection(agentID, nil), nil
		}
		s.logger.Error("GetCalendarStatus: repository error for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: GetCalendarStatus - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConnection(agentID, conn), nil
}

// Вспомогательные методы

// validateRules валидирует правила рабочих часов и применяет last-write-wins
// при нескольких правилах на один день недели
func (s *Service) validateRules(inputs []models.WorkingHoursRuleInput) ([]domain.WorkingHoursRule, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one working hours rule is required", ErrInvalidInput)
	}

	byWeekday := make(map[time.Weekday]domain.WorkingHoursRule, len(inputs))
	order := make([]time.Weekday, 0, len(inputs))

	for _, input := range inputs {
		if input.Weekday < 0 || input.Weekday > 6 {
			return nil, fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
		}

		rule := input.ToDomainRule()
		if err := rule.Start.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, input.Start)
		}
		if err := rule.End.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid end time %q", ErrInvalidInput, input.End)
		}
		if !rule.Start.IsBefore(rule.End) {
			return nil, fmt.Errorf("%w: start time must be before end time for weekday %d", ErrInvalidInput, input.Weekday)
		}

		if _, seen := byWeekday[rule.Weekday]; !seen {
			order = append(order, rule.Weekday)
		}
		byWeekday[rule.Weekday] = rule
	}

	rules := make([]domain.WorkingHoursRule, 0, len(byWeekday))
	for _, weekday := range order {
		rules = append(rules, byWeekday[weekday])
	}
	return rules, nil
}
