package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oryxestates/viewing-service/internal/domain"
	calendarconnRepo "github.com/oryxestates/viewing-service/internal/infra/storage/calendarconn"
	scheduleRepo "github.com/oryxestates/viewing-service/internal/infra/storage/schedule"
	"github.com/oryxestates/viewing-service/internal/service/schedule/models"
	"github.com/oryxestates/viewing-service/pkg/ptr"
)

type fakeScheduleRepo struct {
	getByAgentID        func(ctx context.Context, agentID int64) (*domain.AgentSchedule, error)
	replaceForAgent     func(ctx context.Context, schedule *domain.AgentSchedule) error
	getBlackoutsInRange func(ctx context.Context, agentID int64, dateRange domain.TimeInterval) ([]domain.BlackoutPeriod, error)
	createBlackout      func(ctx context.Context, blackout *domain.BlackoutPeriod) (*domain.BlackoutPeriod, error)
	deleteBlackout      func(ctx context.Context, agentID, blackoutID int64) error
}

func (f *fakeScheduleRepo) GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentSchedule, error) {
	return f.getByAgentID(ctx, agentID)
}

func (f *fakeScheduleRepo) ReplaceForAgent(ctx context.Context, schedule *domain.AgentSchedule) error {
	return f.replaceForAgent(ctx, schedule)
}

func (f *fakeScheduleRepo) GetBlackoutsInRange(ctx context.Context, agentID int64, dateRange domain.TimeInterval) ([]domain.BlackoutPeriod, error) {
	return f.getBlackoutsInRange(ctx, agentID, dateRange)
}

func (f *fakeScheduleRepo) CreateBlackout(ctx context.Context, blackout *domain.BlackoutPeriod) (*domain.BlackoutPeriod, error) {
	return f.createBlackout(ctx, blackout)
}

func (f *fakeScheduleRepo) DeleteBlackout(ctx context.Context, agentID, blackoutID int64) error {
	return f.deleteBlackout(ctx, agentID, blackoutID)
}

type fakeCalendarConnRepo struct {
	getByAgentID func(ctx context.Context, agentID int64) (*domain.CalendarConnection, error)
}

func (f *fakeCalendarConnRepo) GetByAgentID(ctx context.Context, agentID int64) (*domain.CalendarConnection, error) {
	return f.getByAgentID(ctx, agentID)
}

// passthroughTxManager выполняет функции без реальной транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newTestService(repo *fakeScheduleRepo, connRepo *fakeCalendarConnRepo) *Service {
	if connRepo == nil {
		connRepo = &fakeCalendarConnRepo{}
	}
	return NewService(repo, connRepo, passthroughTxManager{}, noopLogger{})
}

func TestService_GetSchedule(t *testing.T) {
	t.Run("configured schedule", func(t *testing.T) {
		repo := &fakeScheduleRepo{
			getByAgentID: func(ctx context.Context, agentID int64) (*domain.AgentSchedule, error) {
				return &domain.AgentSchedule{
					AgentID:  agentID,
					Timezone: "Asia/Dubai",
					Rules: []domain.WorkingHoursRule{
						{Weekday: time.Monday, Start: "10:00", End: "16:00"},
					},
				}, nil
			},
		}
		svc := newTestService(repo, nil)

		resp, err := svc.GetSchedule(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		require.Len(t, resp.Rules, 1)
		assert.Equal(t, "10:00", resp.Rules[0].Start)
	})

	t.Run("missing schedule falls back to defaults", func(t *testing.T) {
		repo := &fakeScheduleRepo{
			getByAgentID: func(ctx context.Context, agentID int64) (*domain.AgentSchedule, error) {
				return nil, scheduleRepo.ErrScheduleNotFound
			},
		}
		svc := newTestService(repo, nil)

		resp, err := svc.GetSchedule(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.Equal(t, domain.DefaultTimezone, resp.Timezone)
		assert.Len(t, resp.Rules, 6, "Mon-Sat by default")
	})
}

func TestService_UpdateSchedule(t *testing.T) {
	t.Run("replaces the schedule atomically", func(t *testing.T) {
		var saved *domain.AgentSchedule
		repo := &fakeScheduleRepo{
			replaceForAgent: func(ctx context.Context, schedule *domain.AgentSchedule) error {
				saved = schedule
				return nil
			},
		}
		svc := newTestService(repo, nil)

		tz := "Europe/London"
		resp, err := svc.UpdateSchedule(context.Background(), 1, &models.UpdateScheduleRequest{
			Timezone: &tz,
			Rules: []models.WorkingHoursRuleInput{
				{Weekday: 1, Start: "08:00", End: "14:00"},
				{Weekday: 2, Start: "09:00", End: "18:00"},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "Europe/London", saved.Timezone)
		assert.Len(t, saved.Rules, 2)
		assert.Equal(t, "Europe/London", resp.Timezone)
	})

	t.Run("duplicate weekday is last-write-wins", func(t *testing.T) {
		var saved *domain.AgentSchedule
		repo := &fakeScheduleRepo{
			replaceForAgent: func(ctx context.Context, schedule *domain.AgentSchedule) error {
				saved = schedule
				return nil
			},
		}
		svc := newTestService(repo, nil)

		_, err := svc.UpdateSchedule(context.Background(), 1, &models.UpdateScheduleRequest{
			Rules: []models.WorkingHoursRuleInput{
				{Weekday: 1, Start: "08:00", End: "14:00"},
				{Weekday: 1, Start: "10:00", End: "19:00"},
			},
		})
		require.NoError(t, err)
		require.Len(t, saved.Rules, 1)
		assert.Equal(t, "10:00", saved.Rules[0].Start.String())
		assert.Equal(t, "19:00", saved.Rules[0].End.String())
	})

	t.Run("missing timezone defaults to agency timezone", func(t *testing.T) {
		var saved *domain.AgentSchedule
		repo := &fakeScheduleRepo{
			replaceForAgent: func(ctx context.Context, schedule *domain.AgentSchedule) error {
				saved = schedule
				return nil
			},
		}
		svc := newTestService(repo, nil)

		_, err := svc.UpdateSchedule(context.Background(), 1, &models.UpdateScheduleRequest{
			Rules: []models.WorkingHoursRuleInput{{Weekday: 3, Start: "09:00", End: "18:00"}},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTimezone, saved.Timezone)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name string
			req  *models.UpdateScheduleRequest
		}{
			{"empty rules", &models.UpdateScheduleRequest{}},
			{"weekday out of range", &models.UpdateScheduleRequest{
				Rules: []models.WorkingHoursRuleInput{{Weekday: 7, Start: "09:00", End: "18:00"}},
			}},
			{"invalid start time", &models.UpdateScheduleRequest{
				Rules: []models.WorkingHoursRuleInput{{Weekday: 1, Start: "9am", End: "18:00"}},
			}},
			{"start not before end", &models.UpdateScheduleRequest{
				Rules: []models.WorkingHoursRuleInput{{Weekday: 1, Start: "18:00", End: "09:00"}},
			}},
		}

		svc := newTestService(&fakeScheduleRepo{}, nil)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.UpdateSchedule(context.Background(), 1, tt.req)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})

	t.Run("unknown timezone rejected", func(t *testing.T) {
		svc := newTestService(&fakeScheduleRepo{}, nil)

		tz := "Mars/Olympus_Mons"
		_, err := svc.UpdateSchedule(context.Background(), 1, &models.UpdateScheduleRequest{
			Timezone: &tz,
			Rules:    []models.WorkingHoursRuleInput{{Weekday: 1, Start: "09:00", End: "18:00"}},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_CreateBlackout(t *testing.T) {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	t.Run("valid blackout", func(t *testing.T) {
		repo := &fakeScheduleRepo{
			createBlackout: func(ctx context.Context, blackout *domain.BlackoutPeriod) (*domain.BlackoutPeriod, error) {
				created := *blackout
				created.ID = 7
				return &created, nil
			},
		}
		svc := newTestService(repo, nil)

		resp, err := svc.CreateBlackout(context.Background(), 1, &models.CreateBlackoutRequest{
			StartAt: start,
			EndAt:   start.AddDate(0, 0, 5),
			Reason:  ptr.Ptr("annual leave"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.ID)
		require.NotNil(t, resp.Reason)
		assert.Equal(t, "annual leave", *resp.Reason)
	})

	t.Run("inverted period rejected", func(t *testing.T) {
		svc := newTestService(&fakeScheduleRepo{}, nil)

		_, err := svc.CreateBlackout(context.Background(), 1, &models.CreateBlackoutRequest{
			StartAt: start,
			EndAt:   start.AddDate(0, 0, -1),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("reason too long rejected", func(t *testing.T) {
		svc := newTestService(&fakeScheduleRepo{}, nil)

		long := make([]byte, domain.MaxReasonLength+1)
		for i := range long {
			long[i] = 'x'
		}
		_, err := svc.CreateBlackout(context.Background(), 1, &models.CreateBlackoutRequest{
			StartAt: start,
			EndAt:   start.AddDate(0, 0, 1),
			Reason:  ptr.Ptr(string(long)),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_DeleteBlackout(t *testing.T) {
	t.Run("missing blackout maps to sentinel", func(t *testing.T) {
		repo := &fakeScheduleRepo{
			deleteBlackout: func(ctx context.Context, agentID, blackoutID int64) error {
				return scheduleRepo.ErrBlackoutNotFound
			},
		}
		svc := newTestService(repo, nil)

		err := svc.DeleteBlackout(context.Background(), 1, 99)
		assert.ErrorIs(t, err, ErrBlackoutNotFound)
	})

	t.Run("scoped to the agent", func(t *testing.T) {
		var gotAgentID, gotBlackoutID int64
		repo := &fakeScheduleRepo{
			deleteBlackout: func(ctx context.Context, agentID, blackoutID int64) error {
				gotAgentID, gotBlackoutID = agentID, blackoutID
				return nil
			},
		}
		svc := newTestService(repo, nil)

		require.NoError(t, svc.DeleteBlackout(context.Background(), 5, 42))
		assert.Equal(t, int64(5), gotAgentID)
		assert.Equal(t, int64(42), gotBlackoutID)
	})
}

func TestService_GetCalendarStatus(t *testing.T) {
	t.Run("no connection yields connected=false", func(t *testing.T) {
		connRepo := &fakeCalendarConnRepo{
			getByAgentID: func(ctx context.Context, agentID int64) (*domain.CalendarConnection, error) {
				return nil, calendarconnRepo.ErrConnectionNotFound
			},
		}
		svc := newTestService(&fakeScheduleRepo{}, connRepo)

		resp, err := svc.GetCalendarStatus(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, resp.Connected)
		assert.Empty(t, resp.ExternalCalendarID)
	})

	t.Run("active connection", func(t *testing.T) {
		lastSync := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		connRepo := &fakeCalendarConnRepo{
			getByAgentID: func(ctx context.Context, agentID int64) (*domain.CalendarConnection, error) {
				return &domain.CalendarConnection{
					AgentID:            agentID,
					Connected:          true,
					ExternalCalendarID: "agent1@group.calendar.google.com",
					LastSyncAt:         &lastSync,
				}, nil
			},
		}
		svc := newTestService(&fakeScheduleRepo{}, connRepo)

		resp, err := svc.GetCalendarStatus(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, resp.Connected)
		assert.Equal(t, "agent1@group.calendar.google.com", resp.ExternalCalendarID)
		require.NotNil(t, resp.LastSyncAt)
		assert.Equal(t, "2026-09-01T12:00:00Z", *resp.LastSyncAt)
	})
}
