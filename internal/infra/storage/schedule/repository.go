package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/oryxestates/viewing-service/internal/domain"
	"github.com/oryxestates/viewing-service/pkg/dbmetrics"
	"github.com/oryxestates/viewing-service/pkg/psqlbuilder"
	"github.com/oryxestates/viewing-service/pkg/types"
)

// Repository репозиторий рабочих часов и блэкаут-периодов агентов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByAgentID получает расписание агента (все правила по дням недели).
// Если правил нет, возвращает ErrScheduleNotFound - вызывающая сторона
// решает, применять ли расписание по умолчанию.
func (r *Repository) GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"start_time",
		"end_time",
		"timezone",
		"updated_at",
	).
		From("working_hours_rules").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByAgentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAgentID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sched := &domain.AgentSchedule{AgentID: agentID}

	for rows.Next() {
		var weekday int
		var start, end types.TimeString
		var tz string
		var updatedAt sql.NullTime

		if err := rows.Scan(&weekday, &start, &end, &tz, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetByAgentID - scan rule: %v", ErrScanRow, err)
		}

		sched.Rules = append(sched.Rules, domain.WorkingHoursRule{
			Weekday: time.Weekday(weekday),
			Start:   start,
			End:     end,
		})
		sched.Timezone = tz
		if updatedAt.Valid && updatedAt.Time.After(sched.UpdatedAt) {
			sched.UpdatedAt = updatedAt.Time
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByAgentID - iterate rules: %v", ErrExecQuery, err)
	}

	if len(sched.Rules) == 0 {
		return nil, ErrScheduleNotFound
	}

	return sched, nil
}

// ReplaceForAgent заменяет расписание агента целиком (last-write-wins).
// Должен вызываться внутри транзакции, чтобы агент не остался без
// расписания при ошибке между delete и insert.
func (r *Repository) ReplaceForAgent(ctx context.Context, sched *domain.AgentSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	delQuery, delArgs, err := psqlbuilder.Delete("working_hours_rules").
		Where(squirrel.Eq{"agent_id": sched.AgentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForAgent - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForAgent - execute delete: %v", ErrExecQuery, err)
	}

	if len(sched.Rules) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("working_hours_rules").
		Columns("agent_id", "weekday", "start_time", "end_time", "timezone")

	for _, rule := range sched.Rules {
		insertBuilder = insertBuilder.Values(
			sched.AgentID,
			int(rule.Weekday),
			rule.Start,
			rule.End,
			sched.Timezone,
		)
	}

	insQuery, insArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForAgent - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insQuery, insArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForAgent - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBlackoutsInRange получает блэкаут-периоды агента, пересекающиеся с диапазоном
func (r *Repository) GetBlackoutsInRange(ctx context.Context, agentID int64, dateRange domain.TimeInterval) ([]domain.BlackoutPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"agent_id",
		"start_at",
		"end_at",
		"reason",
		"created_at",
	).
		From("blackout_periods").
		Where(squirrel.Eq{"agent_id": agentID}).
		Where(squirrel.Gt{"end_at": dateRange.Start}).
		Where(squirrel.Lt{"start_at": dateRange.End}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackoutsInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackoutsInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]domain.BlackoutPeriod, 0)
	for rows.Next() {
		var b domain.BlackoutPeriod
		var createdAt sql.NullTime

		if err := rows.Scan(&b.ID, &b.AgentID, &b.Period.Start, &b.Period.End, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetBlackoutsInRange - scan blackout: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		blackouts = append(blackouts, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlackoutsInRange - iterate blackouts: %v", ErrExecQuery, err)
	}

	return blackouts, nil
}

// CreateBlackout создает блэкаут-период агента
func (r *Repository) CreateBlackout(ctx context.Context, b *domain.BlackoutPeriod) (*domain.BlackoutPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blackout_periods").
		Columns("agent_id", "start_at", "end_at", "reason").
		Values(b.AgentID, b.Period.Start, b.Period.End, b.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	return b, nil
}

// DeleteBlackout удаляет блэкаут-период агента
func (r *Repository) DeleteBlackout(ctx context.Context, agentID, blackoutID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blackout_periods").
		Where(squirrel.Eq{"id": blackoutID, "agent_id": agentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}
