package book_viewing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oryxestates/viewing-service/internal/domain"
	calendarconnRepo "github.com/oryxestates/viewing-service/internal/infra/storage/calendarconn"
	scheduleRepo "github.com/oryxestates/viewing-service/internal/infra/storage/schedule"
	"github.com/oryxestates/viewing-service/internal/scheduling"
)

// UseCase use case для бронирования просмотра
type UseCase struct {
	viewingRepo      ViewingRepository
	scheduleRepo     ScheduleRepository
	calendarConnRepo CalendarConnRepository
	calendarGateway  CalendarGateway
	txManager        TransactionManager
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
	txManager TransactionManager,
	defaults Defaults,
	logger Logger,
) *UseCase {
	return &UseCase{
		viewingRepo:      viewingRepo,
		scheduleRepo:     scheduleRepo,
		calendarConnRepo: calendarConnRepo,
		calendarGateway:  calendarGateway,
		txManager:        txManager,
		defaults:         defaults,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case бронирования просмотра
//
// Доступность слота перепроверяется внутри сериализуемой транзакции с
// блокировкой активных просмотров агента (FOR UPDATE) - два конкурентных
// запроса на один слот не могут пройти оба. Обращения к внешнему календарю
// выполняются вне транзакции: занятость запрашивается до неё, событие
// создается после фиксации (best-effort)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookViewing: agent=%d, property=%d, applicant=%d, start=%s",
		req.AgentID, req.PropertyID, req.ApplicantID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	params, err := validateRequest(req, uc.defaults)
	if err != nil {
		uc.logger.Warn("BookViewing: validation failed: %v", err)
		return nil, err
	}

	requested, err := domain.NewTimeInterval(req.StartTime, req.StartTime.Add(time.Duration(params.SlotDurationMinutes)*time.Minute))
	if err != nil {
		uc.logger.Warn("BookViewing: invalid requested slot: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем расписание агента (часы по умолчанию, если не настроено)
	schedule, err := uc.loadSchedule(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}

	// Доступность пересчитывается в пределах календарного дня запрошенного
	// слота в таймзоне расписания
	loc := schedule.Location()
	dayStart := startOfDay(requested.Start.In(loc))
	dayRange := domain.TimeInterval{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}

	// 4. Запрашиваем занятость внешнего календаря ДО транзакции:
	// сетевые вызовы внутри сериализуемой транзакции недопустимы
	conn, externalBusy, warnings := uc.externalBusy(ctx, req.AgentID, dayRange)

	// 5. Перепроверяем доступность и создаем просмотр в сериализуемой транзакции
	var created *domain.Viewing
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Активные просмотры агента за день с блокировкой (FOR UPDATE)
		viewings, err := uc.viewingRepo.GetByAgentWithFilter(txCtx, domain.AgentViewingsFilter{
			AgentID:   req.AgentID,
			From:      &dayRange.Start,
			To:        &dayRange.End,
			ForUpdate: true,
		})
		if err != nil {
			uc.logger.Error("BookViewing: failed to get viewings for agent=%d: %v", req.AgentID, err)
			return fmt.Errorf("%w: failed to get viewings: %v", ErrInternal, err)
		}

		// 5.2. Блэкаут-периоды агента
		blackouts, err := uc.scheduleRepo.GetBlackoutsInRange(txCtx, req.AgentID, dayRange)
		if err != nil {
			uc.logger.Error("BookViewing: failed to get blackouts for agent=%d: %v", req.AgentID, err)
			return fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
		}

		// 5.3. Собираем занятость и пересчитываем предлагаемые слоты
		busy := make([]domain.BusyInterval, 0, len(viewings)+len(blackouts)+len(externalBusy))
		for _, v := range viewings {
			busy = append(busy, domain.BusyInterval{
				TimeInterval: v.Interval(),
				Source:       domain.BusySourceExistingViewing,
			})
		}
		for _, b := range blackouts {
			busy = append(busy, domain.BusyInterval{
				TimeInterval: b.Period,
				Source:       domain.BusySourceBlackout,
			})
		}
		busy = append(busy, externalBusy...)

		freeWindows, err := scheduling.ComputeFreeWindows(dayRange, schedule, busy)
		if err != nil {
			uc.logger.Error("BookViewing: failed to compute free windows for agent=%d: %v", req.AgentID, err)
			return fmt.Errorf("%w: failed to compute free windows: %v", ErrInternal, err)
		}

		slots := scheduling.GenerateSlots(freeWindows, params.SlotDurationMinutes, params.BufferMinutes, params.MinLeadTimeMinutes, now)

		// 5.4. Запрошенный слот должен точно совпадать с одним из предлагаемых
		if _, ok := scheduling.FindSlot(slots, requested); !ok {
			uc.logger.Warn("BookViewing: slot %s-%s no longer available for agent=%d, %d alternatives",
				requested.Start.Format(time.RFC3339), requested.End.Format(time.RFC3339), req.AgentID, len(slots))
			return &SlotConflictError{AlternativeSlots: fromDomainSlots(slots)}
		}

		// 5.5. Создаем просмотр
		viewing := &domain.Viewing{
			PropertyID:      req.PropertyID,
			ApplicantID:     req.ApplicantID,
			AgentID:         req.AgentID,
			ScheduledStart:  requested.Start,
			ScheduledEnd:    requested.End,
			ViewingType:     params.ViewingType,
			Status:          domain.StatusScheduled,
			PropertyTitle:   req.PropertyTitle,
			PropertyAddress: req.PropertyAddress,
			ApplicantName:   req.ApplicantName,
			ApplicantEmail:  req.ApplicantEmail,
			ApplicantPhone:  req.ApplicantPhone,
			Notes:           req.Notes,
		}

		created, err = uc.viewingRepo.Create(txCtx, viewing)
		if err != nil {
			uc.logger.Error("BookViewing: failed to create viewing: %v", err)
			return fmt.Errorf("%w: failed to create viewing: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookViewing: successfully created viewing id=%d", created.ID)

	// 6. Материализуем событие во внешнем календаре после фиксации
	// транзакции (best-effort): просмотр уже забронирован, сбой
	// синхронизации попадает в Warnings
	if warn := uc.materializeCalendarEvent(ctx, conn, created); warn != "" {
		warnings = append(warnings, warn)
	}

	return fromDomainViewing(created, warnings), nil
}

// loadSchedule получает расписание агента, подставляя часы по умолчанию,
// когда агент его не настроил
func (uc *UseCase) loadSchedule(ctx context.Context, agentID int64) (*domain.AgentSchedule, error) {
	schedule, err := uc.scheduleRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("BookViewing: agent=%d has no schedule, using defaults", agentID)
			return &domain.AgentSchedule{
				AgentID:  agentID,
				Timezone: domain.DefaultTimezone,
				Rules:    domain.DefaultWorkingHours(),
			}, nil
		}
		uc.logger.Error("BookViewing: failed to get schedule for agent=%d: %v", agentID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	return schedule, nil
}

// externalBusy запрашивает занятость внешнего календаря агента.
// Сбой не фатален: бронирование продолжается по локальным данным
func (uc *UseCase) externalBusy(ctx context.Context, agentID int64, dateRange domain.TimeInterval) (*domain.CalendarConnection, []domain.BusyInterval, []string) {
	conn, err := uc.calendarConnRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, calendarconnRepo.ErrConnectionNotFound) {
			return nil, nil, nil
		}
		uc.logger.Error("BookViewing: failed to get calendar connection for agent=%d: %v", agentID, err)
		return nil, nil, []string{"external calendar is unavailable, availability is based on local data only"}
	}

	if !conn.Connected {
		return conn, nil, nil
	}

	busy, err := uc.calendarGateway.GetBusyIntervals(ctx, conn, dateRange)
	if err != nil {
		uc.logger.Warn("BookViewing: external calendar unavailable for agent=%d: %v", agentID, err)
		return conn, nil, []string{"external calendar is unavailable, availability is based on local data only"}
	}

	return conn, busy, nil
}

// materializeCalendarEvent создает событие во внешнем календаре для
// созданного просмотра и привязывает его. Возвращает текст предупреждения
// при сбое, пустую строку при успехе или отсутствии подключения
func (uc *UseCase) materializeCalendarEvent(ctx context.Context, conn *domain.CalendarConnection, viewing *domain.Viewing) string {
	if conn == nil || !conn.Connected {
		return ""
	}

	ref, err := uc.calendarGateway.CreateEvent(ctx, conn, viewing)
	if err != nil {
		uc.logger.Warn("BookViewing: failed to create calendar event for viewing id=%d: %v", viewing.ID, err)
		return "viewing was booked, but the calendar event could not be created"
	}

	if err := uc.viewingRepo.AttachCalendarEvent(ctx, viewing.ID, *ref); err != nil {
		uc.logger.Error("BookViewing: failed to attach calendar event=%s to viewing id=%d: %v",
			ref.EventID, viewing.ID, err)
		return "viewing was booked, but the calendar event reference could not be saved"
	}

	viewing.CalendarEventID = &ref.EventID
	viewing.CalendarEventLink = ref.EventLink
	viewing.MeetingLink = ref.MeetingLink

	uc.logger.Info("BookViewing: attached calendar event=%s to viewing id=%d", ref.EventID, viewing.ID)
	return ""
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
