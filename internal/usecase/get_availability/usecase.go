package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/oryxestates/viewing-service/internal/domain"
	calendarconnRepo "github.com/oryxestates/viewing-service/internal/infra/storage/calendarconn"
	scheduleRepo "github.com/oryxestates/viewing-service/internal/infra/storage/schedule"
	"github.com/oryxestates/viewing-service/internal/scheduling"
)

// UseCase use case для получения доступных слотов агента
type UseCase struct {
	viewingRepo      ViewingRepository
	scheduleRepo     ScheduleRepository
	calendarConnRepo CalendarConnRepository
	calendarGateway  CalendarGateway
	defaults         Defaults
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	viewingRepo ViewingRepository,
	scheduleRepo ScheduleRepository,
	calendarConnRepo CalendarConnRepository,
	calendarGateway CalendarGateway,
	defaults Defaults,
	logger Logger,
) *UseCase {
	return &UseCase{
		viewingRepo:      viewingRepo,
		scheduleRepo:     scheduleRepo,
		calendarConnRepo: calendarConnRepo,
		calendarGateway:  calendarGateway,
		defaults:         defaults,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: agent=%d, from=%s, to=%s",
		req.AgentID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	params, err := validateRequest(req, uc.defaults)
	if err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	dateRange, err := domain.NewTimeInterval(req.From, req.To)
	if err != nil {
		uc.logger.Warn("GetAvailability: invalid range for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем расписание агента (часы по умолчанию, если не настроено)
	schedule, err := uc.loadSchedule(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}

	// 4. Собираем занятые интервалы из всех источников
	busy, warnings, err := uc.collectBusy(ctx, req.AgentID, dateRange)
	if err != nil {
		return nil, err
	}

	// 5. Вычисляем свободные окна
	freeWindows, err := scheduling.ComputeFreeWindows(dateRange, schedule, busy)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidRange) {
			return nil, ErrInvalidRange
		}
		uc.logger.Error("GetAvailability: failed to compute free windows for agent=%d: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: failed to compute free windows: %v", ErrInternal, err)
	}

	// 6. Генерируем слоты
	slots := scheduling.GenerateSlots(freeWindows, params.SlotDurationMinutes, params.BufferMinutes, params.MinLeadTimeMinutes, now)

	uc.logger.Info("GetAvailability: generated %d slots for agent=%d", len(slots), req.AgentID)

	return &Response{
		AgentID:  req.AgentID,
		From:     dateRange.Start,
		To:       dateRange.End,
		Slots:    fromDomainSlots(slots),
		Warnings: warnings,
	}, nil
}

// loadSchedule получает расписание агента, подставляя часы по умолчанию,
// когда агент его не настроил
func (uc *UseCase) loadSchedule(ctx context.Context, agentID int64) (*domain.AgentSchedule, error) {
	schedule, err := uc.scheduleRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetAvailability: agent=%d has no schedule, using defaults", agentID)
			return &domain.AgentSchedule{
				AgentID:  agentID,
				Timezone: domain.DefaultTimezone,
				Rules:    domain.DefaultWorkingHours(),
			}, nil
		}
		uc.logger.Error("GetAvailability: failed to get schedule for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	return schedule, nil
}

// collectBusy собирает занятые интервалы агента из всех источников:
// активные просмотры, блэкаут-периоды и внешний календарь.
// Недоступность внешнего календаря не фатальна - занятость считается
// по локальным данным, а в ответ добавляется предупреждение
func (uc *UseCase) collectBusy(ctx context.Context, agentID int64, dateRange domain.TimeInterval) ([]domain.BusyInterval, []string, error) {
	busy := make([]domain.BusyInterval, 0)

	// Активные просмотры
	viewings, err := uc.viewingRepo.GetByAgentWithFilter(ctx, domain.AgentViewingsFilter{
		AgentID: agentID,
		From:    &dateRange.Start,
		To:      &dateRange.End,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get viewings for agent=%d: %v", agentID, err)
		return nil, nil, fmt.Errorf("%w: failed to get viewings: %v", ErrInternal, err)
	}
	for _, v := range viewings {
		busy = append(busy, domain.BusyInterval{
			TimeInterval: v.Interval(),
			Source:       domain.BusySourceExistingViewing,
		})
	}

	// Блэкаут-периоды
	blackouts, err := uc.scheduleRepo.GetBlackoutsInRange(ctx, agentID, dateRange)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get blackouts for agent=%d: %v", agentID, err)
		return nil, nil, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}
	for _, b := range blackouts {
		busy = append(busy, domain.BusyInterval{
			TimeInterval: b.Period,
			Source:       domain.BusySourceBlackout,
		})
	}

	// Внешний календарь (best-effort)
	var warnings []string
	external, warn := uc.externalBusy(ctx, agentID, dateRange)
	if warn != "" {
		warnings = append(warnings, warn)
	}
	busy = append(busy, external...)

	return busy, warnings, nil
}

// externalBusy запрашивает занятость внешнего календаря агента.
// Возвращает текст предупреждения при сбое синхронизации
func (uc *UseCase) externalBusy(ctx context.Context, agentID int64, dateRange domain.TimeInterval) ([]domain.BusyInterval, string) {
	conn, err := uc.calendarConnRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, calendarconnRepo.ErrConnectionNotFound) {
			// Агент не подключал календарь - не предупреждение
			return nil, ""
		}
		uc.logger.Error("GetAvailability: failed to get calendar connection for agent=%d: %v", agentID, err)
		return nil, "external calendar is unavailable, availability is based on local data only"
	}

	if !conn.Connected {
		return nil, ""
	}

	external, err := uc.calendarGateway.GetBusyIntervals(ctx, conn, dateRange)
	if err != nil {
		uc.logger.Warn("GetAvailability: external calendar unavailable for agent=%d: %v", agentID, err)
		return nil, "external calendar is unavailable, availability is based on local data only"
	}

	return external, ""
}
