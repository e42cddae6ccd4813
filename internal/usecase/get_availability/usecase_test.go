package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oryxestates/viewing-service/internal/domain"
	calendarconnRepo "github.com/oryxestates/viewing-service/internal/infra/storage/calendarconn"
	scheduleRepo "github.com/oryxestates/viewing-service/internal/infra/storage/schedule"
	"github.com/oryxestates/viewing-service/pkg/ptr"
	"github.com/oryxestates/viewing-service/pkg/types"
)

type fakeViewingRepo struct {
	viewings []*domain.Viewing
}

func (f *fakeViewingRepo) GetByAgentWithFilter(ctx context.Context, filter domain.AgentViewingsFilter) ([]*domain.Viewing, error) {
	return f.viewings, nil
}

type fakeScheduleRepo struct {
	schedule  *domain.AgentSchedule
	blackouts []domain.BlackoutPeriod
}

func (f *fakeScheduleRepo) GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentSchedule, error) {
	if f.schedule == nil {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return f.schedule, nil
}

func (f *fakeScheduleRepo) GetBlackoutsInRange(ctx context.Context, agentID int64, dateRange domain.TimeInterval) ([]domain.BlackoutPeriod, error) {
	return f.blackouts, nil
}

type fakeCalendarConnRepo struct {
	conn    *domain.CalendarConnection
	connErr error
}

func (f *fakeCalendarConnRepo) GetByAgentID(ctx context.Context, agentID int64) (*domain.CalendarConnection, error) {
	if f.connErr != nil {
		return nil, f.connErr
	}
	if f.conn == nil {
		return nil, calendarconnRepo.ErrConnectionNotFound
	}
	return f.conn, nil
}

type fakeCalendarGateway struct {
	busy    []domain.BusyInterval
	busyErr error
}

func (f *fakeCalendarGateway) GetBusyIntervals(ctx context.Context, conn *domain.CalendarConnection, dateRange domain.TimeInterval) ([]domain.BusyInterval, error) {
	return f.busy, f.busyErr
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	uc           *UseCase
	viewingRepo  *fakeViewingRepo
	scheduleRepo *fakeScheduleRepo
	connRepo     *fakeCalendarConnRepo
	gateway      *fakeCalendarGateway

	loc *time.Location
}

// newFixture настраивает агента с расписанием Пн 09:00-18:00 (Asia/Dubai),
// текущее время - до начала диапазона запроса
func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Dubai")
	require.NoError(t, err)

	f := &fixture{
		viewingRepo: &fakeViewingRepo{},
		scheduleRepo: &fakeScheduleRepo{
			schedule: &domain.AgentSchedule{
				AgentID:  1,
				Timezone: "Asia/Dubai",
				Rules: []domain.WorkingHoursRule{
					{Weekday: time.Monday, Start: types.TimeString("09:00"), End: types.TimeString("18:00")},
				},
			},
		},
		connRepo: &fakeCalendarConnRepo{},
		gateway:  &fakeCalendarGateway{},
		loc:      loc,
	}

	f.uc = NewUseCase(
		f.viewingRepo,
		f.scheduleRepo,
		f.connRepo,
		f.gateway,
		Defaults{SlotDurationMinutes: 30, BufferMinutes: 0, MinLeadTimeMinutes: 60},
		noopLogger{},
	)
	f.uc.timeProvider = fixedTimeProvider{now: time.Date(2026, 9, 1, 12, 0, 0, 0, loc)}

	return f
}

// mondayRequest запрашивает доступность на понедельник 2026-09-07
func (f *fixture) mondayRequest() *Request {
	return &Request{
		AgentID: 1,
		From:    time.Date(2026, 9, 7, 0, 0, 0, 0, f.loc),
		To:      time.Date(2026, 9, 8, 0, 0, 0, 0, f.loc),
	}
}

func TestUseCase_Execute(t *testing.T) {
	t.Run("full working day yields 18 half-hour slots", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err)

		assert.Len(t, resp.Slots, 18, "09:00-18:00 at 30-minute steps")
		assert.True(t, resp.Slots[0].StartTime.Equal(time.Date(2026, 9, 7, 9, 0, 0, 0, f.loc)))
		assert.Equal(t, 30, resp.Slots[0].DurationMinutes)
		assert.Empty(t, resp.Warnings)
	})

	t.Run("existing viewing carves out its slot", func(t *testing.T) {
		f := newFixture(t)
		f.viewingRepo.viewings = []*domain.Viewing{
			{
				ID:             1,
				AgentID:        1,
				ScheduledStart: time.Date(2026, 9, 7, 10, 0, 0, 0, f.loc),
				ScheduledEnd:   time.Date(2026, 9, 7, 10, 30, 0, 0, f.loc),
				Status:         domain.StatusScheduled,
			},
		}

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err)

		assert.Len(t, resp.Slots, 17, "one slot taken by the viewing")
		for _, slot := range resp.Slots {
			assert.False(t, slot.StartTime.Equal(time.Date(2026, 9, 7, 10, 0, 0, 0, f.loc)))
		}
	})

	t.Run("blackout removes its whole span", func(t *testing.T) {
		f := newFixture(t)
		f.scheduleRepo.blackouts = []domain.BlackoutPeriod{
			{
				ID:      1,
				AgentID: 1,
				Period: domain.TimeInterval{
					Start: time.Date(2026, 9, 7, 9, 0, 0, 0, f.loc),
					End:   time.Date(2026, 9, 7, 13, 0, 0, 0, f.loc),
				},
			},
		}

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err)

		require.NotEmpty(t, resp.Slots)
		assert.True(t, resp.Slots[0].StartTime.Equal(time.Date(2026, 9, 7, 13, 0, 0, 0, f.loc)))
	})

	t.Run("missing schedule falls back to default hours", func(t *testing.T) {
		f := newFixture(t)
		f.scheduleRepo.schedule = nil

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err)
		assert.Len(t, resp.Slots, 18)
	})

	t.Run("external calendar busy is subtracted", func(t *testing.T) {
		f := newFixture(t)
		f.connRepo.conn = &domain.CalendarConnection{AgentID: 1, Connected: true}
		f.gateway.busy = []domain.BusyInterval{
			{
				TimeInterval: domain.TimeInterval{
					Start: time.Date(2026, 9, 7, 9, 0, 0, 0, f.loc),
					End:   time.Date(2026, 9, 7, 9, 30, 0, 0, f.loc),
				},
				Source: domain.BusySourceExternalCalendar,
			},
		}

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err)
		assert.Len(t, resp.Slots, 17)
		assert.Empty(t, resp.Warnings)
	})

	t.Run("external calendar outage degrades with a warning", func(t *testing.T) {
		f := newFixture(t)
		f.connRepo.conn = &domain.CalendarConnection{AgentID: 1, Connected: true}
		f.gateway.busyErr = errors.New("google api: 503")

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err, "availability is computed from local data")
		assert.Len(t, resp.Slots, 18)
		require.Len(t, resp.Warnings, 1)
		assert.Contains(t, resp.Warnings[0], "external calendar is unavailable")
	})

	t.Run("agent without calendar connection gets no warning", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err)
		assert.Empty(t, resp.Warnings)
	})

	t.Run("disconnected calendar is skipped silently", func(t *testing.T) {
		f := newFixture(t)
		f.connRepo.conn = &domain.CalendarConnection{AgentID: 1, Connected: false}
		f.gateway.busyErr = errors.New("must not be called")

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err)
		assert.Empty(t, resp.Warnings)
	})

	t.Run("lead time hides slots that start too soon", func(t *testing.T) {
		f := newFixture(t)
		// 09:40 on the requested Monday: with the 60-minute lead the first
		// offerable slot is 11:00 (grid stays aligned with 09:00).
		f.uc.timeProvider = fixedTimeProvider{now: time.Date(2026, 9, 7, 9, 40, 0, 0, f.loc)}

		resp, err := f.uc.Execute(context.Background(), f.mondayRequest())
		require.NoError(t, err)
		require.NotEmpty(t, resp.Slots)
		assert.True(t, resp.Slots[0].StartTime.Equal(time.Date(2026, 9, 7, 11, 0, 0, 0, f.loc)))
	})
}

func TestValidateRequest(t *testing.T) {
	defaults := Defaults{SlotDurationMinutes: 30, BufferMinutes: 0, MinLeadTimeMinutes: 60}
	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	base := func() *Request {
		return &Request{AgentID: 1, From: from, To: from.AddDate(0, 0, 7)}
	}

	t.Run("defaults applied", func(t *testing.T) {
		params, err := validateRequest(base(), defaults)
		require.NoError(t, err)
		assert.Equal(t, 30, params.SlotDurationMinutes)
		assert.Equal(t, 0, params.BufferMinutes)
		assert.Equal(t, 60, params.MinLeadTimeMinutes)
	})

	t.Run("overrides applied", func(t *testing.T) {
		req := base()
		req.SlotDurationMinutes = ptr.Ptr(60)
		req.BufferMinutes = ptr.Ptr(15)
		req.MinLeadTimeMinutes = ptr.Ptr(120)

		params, err := validateRequest(req, defaults)
		require.NoError(t, err)
		assert.Equal(t, 60, params.SlotDurationMinutes)
		assert.Equal(t, 15, params.BufferMinutes)
		assert.Equal(t, 120, params.MinLeadTimeMinutes)
	})

	t.Run("inverted range", func(t *testing.T) {
		req := base()
		req.From, req.To = req.To, req.From
		_, err := validateRequest(req, defaults)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("range too long", func(t *testing.T) {
		req := base()
		req.To = req.From.AddDate(0, 0, domain.MaxAvailabilityDays+1)
		_, err := validateRequest(req, defaults)
		assert.ErrorIs(t, err, ErrRangeTooLong)
	})

	t.Run("invalid overrides", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(req *Request)
		}{
			{"zero agent id", func(req *Request) { req.AgentID = 0 }},
			{"missing from", func(req *Request) { req.From = time.Time{} }},
			{"duration below minimum", func(req *Request) { req.SlotDurationMinutes = ptr.Ptr(5) }},
			{"buffer above maximum", func(req *Request) { req.BufferMinutes = ptr.Ptr(500) }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := base()
				tt.mutate(req)
				_, err := validateRequest(req, defaults)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}
