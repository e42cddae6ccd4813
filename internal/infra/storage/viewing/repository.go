package viewing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/oryxestates/viewing-service/internal/domain"
	"github.com/oryxestates/viewing-service/pkg/dbmetrics"
	"github.com/oryxestates/viewing-service/pkg/psqlbuilder"
)

var viewingColumns = []string{
	"id",
	"property_id",
	"applicant_id",
	"agent_id",
	"scheduled_start",
	"scheduled_end",
	"viewing_type",
	"status",
	"property_title",
	"property_address",
	"applicant_name",
	"applicant_email",
	"applicant_phone",
	"notes",
	"calendar_event_id",
	"calendar_event_link",
	"meeting_link",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с просмотрами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория просмотров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый просмотр.
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Создание с проверкой доступности слота всегда должно выполняться внутри
// сериализуемой транзакции - см. usecase book_viewing.
func (r *Repository) Create(ctx context.Context, v *domain.Viewing) (*domain.Viewing, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("viewings").
		Columns(
			"property_id",
			"applicant_id",
			"agent_id",
			"scheduled_start",
			"scheduled_end",
			"viewing_type",
			"status",
			"property_title",
			"property_address",
			"applicant_name",
			"applicant_email",
			"applicant_phone",
			"notes",
		).
		Values(
			v.PropertyID,
			v.ApplicantID,
			v.AgentID,
			v.ScheduledStart,
			v.ScheduledEnd,
			v.ViewingType,
			v.Status,
			v.PropertyTitle,
			v.PropertyAddress,
			v.ApplicantName,
			v.ApplicantEmail,
			v.ApplicantPhone,
			v.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return v, nil
}

// GetByID получает просмотр по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Viewing, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(viewingColumns...).
		From("viewings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	v, err := scanViewing(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrViewingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan viewing: %v", ErrScanRow, err)
	}

	return v, nil
}

// GetByAgentWithFilter получает просмотры агента с гибкой фильтрацией.
//
// Фильтрация по периоду использует пересечение интервалов: возвращаются
// просмотры, чей [scheduled_start, scheduled_end) пересекается с [From, To).
// При ForUpdate=true (только внутри транзакции) выбранные строки блокируются -
// это точка сериализации бронирований одного агента.
func (r *Repository) GetByAgentWithFilter(ctx context.Context, filter domain.AgentViewingsFilter) ([]*domain.Viewing, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(viewingColumns...).
		From("viewings").
		Where(squirrel.Eq{"agent_id": filter.AgentID})

	// Пересечение с запрошенным периодом (полуоткрытые интервалы)
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"scheduled_end": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"scheduled_start": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		activeStatusStrings := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			activeStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("scheduled_start ASC")

	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAgentWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAgentWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanViewings(rows)
}

// UpdateStatus обновляет статус просмотра
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ViewingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("viewings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет просмотр, сохраняя причину и время отмены
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("viewings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Cancel", query, args)
}

// AttachCalendarEvent сохраняет ссылку на событие внешнего календаря.
// Повторная привязка перезаписывает предыдущую.
func (r *Repository) AttachCalendarEvent(ctx context.Context, id int64, ref domain.CalendarEventRef) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("viewings").
		Set("calendar_event_id", ref.EventID).
		Set("calendar_event_link", ref.EventLink).
		Set("meeting_link", ref.MeetingLink).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachCalendarEvent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "AttachCalendarEvent", query, args)
}

// DetachCalendarEvent удаляет ссылку на событие внешнего календаря.
// Отвязка при отсутствии привязки - no-op (строка все равно обновляется).
func (r *Repository) DetachCalendarEvent(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("viewings").
		Set("calendar_event_id", nil).
		Set("calendar_event_link", nil).
		Set("meeting_link", nil).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DetachCalendarEvent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "DetachCalendarEvent", query, args)
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrViewingNotFound
	}
	return nil
}

func scanViewing(row *sql.Row) (*domain.Viewing, error) {
	var v domain.Viewing
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.PropertyID,
		&v.ApplicantID,
		&v.AgentID,
		&v.ScheduledStart,
		&v.ScheduledEnd,
		&v.ViewingType,
		&v.Status,
		&v.PropertyTitle,
		&v.PropertyAddress,
		&v.ApplicantName,
		&v.ApplicantEmail,
		&v.ApplicantPhone,
		&v.Notes,
		&v.CalendarEventID,
		&v.CalendarEventLink,
		&v.MeetingLink,
		&v.CancellationReason,
		&v.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time
	return &v, nil
}

func scanViewings(rows *sql.Rows) ([]*domain.Viewing, error) {
	viewings := make([]*domain.Viewing, 0)

	for rows.Next() {
		var v domain.Viewing
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&v.ID,
			&v.PropertyID,
			&v.ApplicantID,
			&v.AgentID,
			&v.ScheduledStart,
			&v.ScheduledEnd,
			&v.ViewingType,
			&v.Status,
			&v.PropertyTitle,
			&v.PropertyAddress,
			&v.ApplicantName,
			&v.ApplicantEmail,
			&v.ApplicantPhone,
			&v.Notes,
			&v.CalendarEventID,
			&v.CalendarEventLink,
			&v.MeetingLink,
			&v.CancellationReason,
			&v.CancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan viewing row: %v", ErrScanRow, err)
		}

		v.CreatedAt = createdAt.Time
		v.UpdatedAt = updatedAt.Time
		viewings = append(viewings, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate viewing rows: %v", ErrExecQuery, err)
	}

	return viewings, nil
}
