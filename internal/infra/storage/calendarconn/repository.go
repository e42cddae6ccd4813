package calendarconn

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

// Repository репозиторий подключений агентов к внешнему календарю.
// Записи создаются OAuth-потоком внешней системы, сервис их читает
// и обновляет только last_sync_at.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория подключений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByAgentID получает запись о подключении календаря агента
func (r *Repository) GetByAgentID(ctx context.Context, agentID int64) (*domain.CalendarConnection, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"agent_id",
		"connected",
		"external_calendar_id",
		"token_json",
		"last_sync_at",
		"created_at",
		"updated_at",
	).
		From("calendar_connections").
		Where(squirrel.Eq{"agent_id": agentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByAgentID - build select query: %v", ErrBuildQuery, err)
	}

	var conn domain.CalendarConnection
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&conn.AgentID,
		&conn.Connected,
		&conn.ExternalCalendarID,
		&conn.TokenJSON,
		&conn.LastSyncAt,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConnectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAgentID - scan connection: %v", ErrScanRow, err)
	}

	conn.CreatedAt = createdAt.Time
	conn.UpdatedAt = updatedAt.Time

	return &conn, nil
}

// TouchLastSync обновляет время последней успешной синхронизации
func (r *Repository) TouchLastSync(ctx context.Context, agentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("calendar_connections").
		Set("last_sync_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"agent_id": agentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TouchLastSync - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TouchLastSync - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TouchLastSync - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrConnectionNotFound
	}
	return nil
}
