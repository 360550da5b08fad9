package packs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	"github.com/m1shk4/PTS-BookingService/pkg/dbmetrics"
	"github.com/m1shk4/PTS-BookingService/pkg/psqlbuilder"
)

var packColumns = []string{
	"id",
	"client_id",
	"trainer_id",
	"service_type_id",
	"total_sessions",
	"sessions_remaining",
	"status",
	"forfeited_sessions",
	"refunded_sessions",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с пакетами сессий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пакетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает пакет по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы конкурирующее
// бронирование того же пакета дождалось завершения текущего.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.SessionPack, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(packColumns...).
		From("session_packs").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	pack, err := r.scanPack(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan pack: %w", ErrScanRow, err)
	}

	return pack, nil
}

// GetActiveByClientAndTrainer получает активные пакеты пары клиент-тренер
func (r *Repository) GetActiveByClientAndTrainer(ctx context.Context, clientID, trainerID int64) ([]*domain.SessionPack, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(packColumns...).
		From("session_packs").
		Where(squirrel.Eq{
			"client_id":  clientID,
			"trainer_id": trainerID,
			"status":     domain.PackStatusActive,
		}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByClientAndTrainer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByClientAndTrainer - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	packs := make([]*domain.SessionPack, 0)
	for rows.Next() {
		pack, err := r.scanPack(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveByClientAndTrainer - scan row: %w", ErrScanRow, err)
		}
		packs = append(packs, pack)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveByClientAndTrainer - rows error: %w", ErrScanRow, err)
	}

	return packs, nil
}

// DecrementRemaining списывает одну сессию из пакета условным UPDATE:
// строка меняется только если пакет активен и в нем остались сессии.
// Ноль затронутых строк означает, что пакет исчерпан или архивирован
// конкурирующей операцией, и возвращается ErrNoSessionsRemaining.
// Вместе с CHECK (sessions_remaining >= 0) это закрывает гонку
// чтение-потом-запись без компенсирующих удалений.
func (r *Repository) DecrementRemaining(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("session_packs").
		Set("sessions_remaining", squirrel.Expr("sessions_remaining - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.PackStatusActive}).
		Where(squirrel.Gt{"sessions_remaining": 0}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementRemaining - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementRemaining - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementRemaining - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNoSessionsRemaining
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanPack(row rowScanner) (*domain.SessionPack, error) {
	var pack domain.SessionPack
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&pack.ID,
		&pack.ClientID,
		&pack.TrainerID,
		&pack.ServiceTypeID,
		&pack.TotalSessions,
		&pack.SessionsRemaining,
		&pack.Status,
		&pack.ForfeitedSessions,
		&pack.RefundedSessions,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	pack.CreatedAt = createdAt.Time
	pack.UpdatedAt = updatedAt.Time

	return &pack, nil
}
