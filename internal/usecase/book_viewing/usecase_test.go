package book_viewing

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
	viewings  []*domain.Viewing
	createErr error
	attachErr error

	created     *domain.Viewing
	attachedRef *domain.CalendarEventRef
}

func (f *fakeViewingRepo) Create(ctx context.Context, v *domain.Viewing) (*domain.Viewing, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *v
	created.ID = 100
	f.created = &created
	return &created, nil
}

func (f *fakeViewingRepo) GetByAgentWithFilter(ctx context.Context, filter domain.AgentViewingsFilter) ([]*domain.Viewing, error) {
	return f.viewings, nil
}

func (f *fakeViewingRepo) AttachCalendarEvent(ctx context.Context, id int64, ref domain.CalendarEventRef) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attachedRef = &ref
	return nil
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
	conn *domain.CalendarConnection
}

func (f *fakeCalendarConnRepo) GetByAgentID(ctx context.Context, agentID int64) (*domain.CalendarConnection, error) {
	if f.conn == nil {
		return nil, calendarconnRepo.ErrConnectionNotFound
	}
	return f.conn, nil
}

type fakeCalendarGateway struct {
	busy      []domain.BusyInterval
	busyErr   error
	eventRef  *domain.CalendarEventRef
	createErr error
}

func (f *fakeCalendarGateway) GetBusyIntervals(ctx context.Context, conn *domain.CalendarConnection, dateRange domain.TimeInterval) ([]domain.BusyInterval, error) {
	return f.busy, f.busyErr
}

func (f *fakeCalendarGateway) CreateEvent(ctx context.Context, conn *domain.CalendarConnection, v *domain.Viewing) (*domain.CalendarEventRef, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.eventRef, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
	uc          *UseCase
	viewingRepo *fakeViewingRepo
	gateway     *fakeCalendarGateway

	loc       *time.Location
	slotStart time.Time
}

// newFixture настраивает агента с расписанием Пн 09:00-18:00 (Asia/Dubai)
// и запросом на слот 2026-09-07 (понедельник) 10:00 по Дубаю
func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Dubai")
	require.NoError(t, err)

	f := &fixture{
		viewingRepo: &fakeViewingRepo{},
		gateway:     &fakeCalendarGateway{},
		loc:         loc,
		slotStart:   time.Date(2026, 9, 7, 10, 0, 0, 0, loc),
	}

	schedule := &domain.AgentSchedule{
		AgentID:  1,
		Timezone: "Asia/Dubai",
		Rules: []domain.WorkingHoursRule{
			{Weekday: time.Monday, Start: types.TimeString("09:00"), End: types.TimeString("18:00")},
		},
	}

	f.uc = NewUseCase(
		f.viewingRepo,
		&fakeScheduleRepo{schedule: schedule},
		&fakeCalendarConnRepo{},
		f.gateway,
		passthroughTxManager{},
		Defaults{SlotDurationMinutes: 30, BufferMinutes: 0, MinLeadTimeMinutes: 60},
		noopLogger{},
	)
	f.uc.timeProvider = fixedTimeProvider{now: time.Date(2026, 9, 7, 8, 0, 0, 0, loc)}

	return f
}

func (f *fixture) request() *Request {
	return &Request{
		AgentID:       1,
		PropertyID:    10,
		ApplicantID:   20,
		StartTime:     f.slotStart,
		PropertyTitle: "2BR Apartment, Marina Heights",
		ApplicantName: "Fatima Hassan",
	}
}

func TestUseCase_Execute(t *testing.T) {
	t.Run("books a free slot", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.uc.Execute(context.Background(), f.request())
		require.NoError(t, err)

		assert.Equal(t, int64(100), resp.ID)
		assert.Equal(t, string(domain.StatusScheduled), resp.Status)
		assert.True(t, resp.ScheduledStart.Equal(f.slotStart))
		assert.True(t, resp.ScheduledEnd.Equal(f.slotStart.Add(30*time.Minute)))
		assert.Equal(t, string(domain.ViewingTypeInPerson), resp.ViewingType)
		assert.Empty(t, resp.Warnings)
		assert.Nil(t, resp.CalendarEventID, "no calendar connection, no event")
	})

	t.Run("conflicting viewing returns alternatives", func(t *testing.T) {
		f := newFixture(t)
		f.viewingRepo.viewings = []*domain.Viewing{
			{
				ID:             50,
				AgentID:        1,
				ScheduledStart: f.slotStart,
				ScheduledEnd:   f.slotStart.Add(30 * time.Minute),
				Status:         domain.StatusScheduled,
			},
		}

		_, err := f.uc.Execute(context.Background(), f.request())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)

		var conflict *SlotConflictError
		require.ErrorAs(t, err, &conflict)
		require.NotEmpty(t, conflict.AlternativeSlots)
		for _, slot := range conflict.AlternativeSlots {
			assert.False(t, slot.StartTime.Equal(f.slotStart), "the taken slot must not be offered")
		}
	})

	t.Run("blackout covering the slot blocks booking", func(t *testing.T) {
		f := newFixture(t)
		scheduleRepoFake := &fakeScheduleRepo{
			schedule: &domain.AgentSchedule{
				AgentID:  1,
				Timezone: "Asia/Dubai",
				Rules: []domain.WorkingHoursRule{
					{Weekday: time.Monday, Start: types.TimeString("09:00"), End: types.TimeString("18:00")},
				},
			},
			blackouts: []domain.BlackoutPeriod{
				{
					ID:      1,
					AgentID: 1,
					Period: domain.TimeInterval{
						Start: time.Date(2026, 9, 7, 9, 0, 0, 0, f.loc),
						End:   time.Date(2026, 9, 7, 12, 0, 0, 0, f.loc),
					},
				},
			},
		}
		f.uc.scheduleRepo = scheduleRepoFake

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	})

	t.Run("off-grid start time is rejected as unavailable", func(t *testing.T) {
		f := newFixture(t)
		req := f.request()
		req.StartTime = f.slotStart.Add(10 * time.Minute)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	})

	t.Run("slot inside lead time is rejected", func(t *testing.T) {
		f := newFixture(t)
		// 09:30 now + 60m lead puts the cutoff past the requested 10:00 slot.
		f.uc.timeProvider = fixedTimeProvider{now: time.Date(2026, 9, 7, 9, 30, 0, 0, f.loc)}

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	})

	t.Run("defaults apply when the agent has no schedule", func(t *testing.T) {
		f := newFixture(t)
		f.uc.scheduleRepo = &fakeScheduleRepo{}

		// Default hours are Mon-Sat 09:00-18:00 Asia/Dubai, the Monday 10:00
		// slot is still offerable.
		resp, err := f.uc.Execute(context.Background(), f.request())
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	})

	t.Run("external busy interval blocks the slot", func(t *testing.T) {
		f := newFixture(t)
		f.uc.calendarConnRepo = &fakeCalendarConnRepo{
			conn: &domain.CalendarConnection{AgentID: 1, Connected: true},
		}
		f.gateway.busy = []domain.BusyInterval{
			{
				TimeInterval: domain.TimeInterval{
					Start: time.Date(2026, 9, 7, 9, 45, 0, 0, f.loc),
					End:   time.Date(2026, 9, 7, 10, 15, 0, 0, f.loc),
				},
				Source: domain.BusySourceExternalCalendar,
			},
		}

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	})

	t.Run("external calendar outage books with a warning", func(t *testing.T) {
		f := newFixture(t)
		f.uc.calendarConnRepo = &fakeCalendarConnRepo{
			conn: &domain.CalendarConnection{AgentID: 1, Connected: true},
		}
		f.gateway.busyErr = errors.New("google api: 503")
		f.gateway.createErr = errors.New("google api: 503")

		resp, err := f.uc.Execute(context.Background(), f.request())
		require.NoError(t, err, "booking proceeds on local data")
		require.NotEmpty(t, resp.Warnings)
	})

	t.Run("calendar event is materialized after booking", func(t *testing.T) {
		f := newFixture(t)
		link := "https://calendar.example.com/evt-7"
		f.uc.calendarConnRepo = &fakeCalendarConnRepo{
			conn: &domain.CalendarConnection{AgentID: 1, Connected: true},
		}
		f.gateway.eventRef = &domain.CalendarEventRef{EventID: "evt-7", EventLink: &link}

		resp, err := f.uc.Execute(context.Background(), f.request())
		require.NoError(t, err)
		assert.Empty(t, resp.Warnings)
		require.NotNil(t, resp.CalendarEventID)
		assert.Equal(t, "evt-7", *resp.CalendarEventID)
		require.NotNil(t, f.viewingRepo.attachedRef)
		assert.Equal(t, "evt-7", f.viewingRepo.attachedRef.EventID)
	})

	t.Run("event creation failure leaves the booking intact", func(t *testing.T) {
		f := newFixture(t)
		f.uc.calendarConnRepo = &fakeCalendarConnRepo{
			conn: &domain.CalendarConnection{AgentID: 1, Connected: true},
		}
		f.gateway.createErr = errors.New("google api: quota exceeded")

		resp, err := f.uc.Execute(context.Background(), f.request())
		require.NoError(t, err)
		assert.Equal(t, int64(100), resp.ID)
		require.Len(t, resp.Warnings, 1)
		assert.Contains(t, resp.Warnings[0], "calendar event could not be created")
		assert.Nil(t, resp.CalendarEventID)
	})
}

func TestValidateRequest(t *testing.T) {
	defaults := Defaults{SlotDurationMinutes: 30, BufferMinutes: 0, MinLeadTimeMinutes: 60}
	base := func() *Request {
		return &Request{
			AgentID:       1,
			PropertyID:    10,
			ApplicantID:   20,
			StartTime:     time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
			PropertyTitle: "Villa 12, Palm Jumeirah",
			ApplicantName: "Omar Al Rashid",
		}
	}

	t.Run("defaults applied", func(t *testing.T) {
		params, err := validateRequest(base(), defaults)
		require.NoError(t, err)
		assert.Equal(t, 30, params.SlotDurationMinutes)
		assert.Equal(t, domain.ViewingTypeInPerson, params.ViewingType)
	})

	t.Run("duration override", func(t *testing.T) {
		req := base()
		req.SlotDurationMinutes = ptr.Ptr(60)

		params, err := validateRequest(req, defaults)
		require.NoError(t, err)
		assert.Equal(t, 60, params.SlotDurationMinutes)
	})

	t.Run("virtual viewing type", func(t *testing.T) {
		req := base()
		req.ViewingType = "virtual"

		params, err := validateRequest(req, defaults)
		require.NoError(t, err)
		assert.Equal(t, domain.ViewingTypeVirtual, params.ViewingType)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(req *Request)
		}{
			{"zero agent id", func(req *Request) { req.AgentID = 0 }},
			{"zero property id", func(req *Request) { req.PropertyID = 0 }},
			{"zero applicant id", func(req *Request) { req.ApplicantID = 0 }},
			{"zero start time", func(req *Request) { req.StartTime = time.Time{} }},
			{"missing property title", func(req *Request) { req.PropertyTitle = "" }},
			{"missing applicant name", func(req *Request) { req.ApplicantName = "" }},
			{"duration below minimum", func(req *Request) { req.SlotDurationMinutes = ptr.Ptr(5) }},
			{"duration above maximum", func(req *Request) { req.SlotDurationMinutes = ptr.Ptr(600) }},
			{"unknown viewing type", func(req *Request) { req.ViewingType = "telepathic" }},
			{"notes too long", func(req *Request) { req.Notes = ptr.Ptr(string(make([]byte, domain.MaxNotesLength+1))) }},
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
