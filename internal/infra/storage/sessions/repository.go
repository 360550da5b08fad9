package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	"github.com/m1shk4/PTS-BookingService/pkg/dbmetrics"
	"github.com/m1shk4/PTS-BookingService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникального ограничения
const uniqueViolation = "23505"

// trainerSlotConstraint имя частичного уникального индекса активных сессий
const trainerSlotConstraint = "uq_sessions_trainer_slot_active"

var sessionColumns = []string{
	"id",
	"trainer_id",
	"client_id",
	"service_type_id",
	"start_at",
	"duration_minutes",
	"status",
	"pack_id",
	"subscription_id",
	"is_from_credit",
	"cancellation_reason",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с сессиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую сессию.
// Если в контексте передана активная транзакция, использует её.
// Вставка конкурирующей сессии на тот же слот тренера упирается в частичный
// уникальный индекс и возвращает ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sessions").
		Columns(
			"trainer_id",
			"client_id",
			"service_type_id",
			"start_at",
			"duration_minutes",
			"status",
			"pack_id",
			"subscription_id",
			"is_from_credit",
			"notes",
		).
		Values(
			session.TrainerID,
			session.ClientID,
			session.ServiceTypeID,
			session.StartAt,
			session.DurationMinutes,
			session.Status,
			session.PackID,
			session.SubscriptionID,
			session.IsFromCredit,
			session.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isConstraintViolation(err, trainerSlotConstraint) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return session, nil
}

// GetByID получает сессию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	session, err := r.scanSession(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %w", ErrScanRow, err)
	}

	return session, nil
}

// GetByClientID получает сессии клиента, отсортированные от новых к старым.
// Опционально фильтрует по статусу.
func (r *Repository) GetByClientID(ctx context.Context, clientID int64, status *domain.SessionStatus) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("start_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSessions(rows)
}

// GetByTrainerAndRange получает сессии тренера с началом в [start, end),
// отсортированные по времени начала.
// По умолчанию возвращает только активные сессии (занимающие слот);
// includeInactive добавляет отмененные и no-show.
func (r *Repository) GetByTrainerAndRange(
	ctx context.Context,
	trainerID int64,
	start, end time.Time,
	includeInactive bool,
) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"trainer_id": trainerID}).
		Where(squirrel.GtOrEq{"start_at": start}).
		Where(squirrel.Lt{"start_at": end}).
		OrderBy("start_at ASC")

	if !includeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings()})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTrainerAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTrainerAndRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSessions(rows)
}

// CountOverlapping подсчитывает активные сессии тренера, пересекающиеся
// с интервалом [start, end). Граничащие интервалы пересечением не считаются.
// excludeSessionID исключает сессию из подсчета (используется при правке
// существующей сессии).
func (r *Repository) CountOverlapping(
	ctx context.Context,
	trainerID int64,
	start, end time.Time,
	excludeSessionID *int64,
) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("sessions").
		Where(squirrel.Eq{"trainer_id": trainerID}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings()}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Expr("start_at + make_interval(mins => duration_minutes) > ?", start))

	if excludeSessionID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeSessionID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountOverlapping - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// CountConsumingPack подсчитывает сессии, фактически расходующие пакет:
// запланированные, проведенные, no-show, а также отмененные со штрафом.
func (r *Repository) CountConsumingPack(ctx context.Context, packID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	consuming := make([]string, len(domain.PackConsumingStatuses))
	for i, s := range domain.PackConsumingStatuses {
		consuming[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("sessions").
		Where(squirrel.Eq{"pack_id": packID}).
		Where(squirrel.Or{
			squirrel.Eq{"status": consuming},
			squirrel.And{
				squirrel.Eq{"status": []string{
					string(domain.StatusCancelledLate),
					string(domain.StatusCancelledEarly),
				}},
				squirrel.Eq{"cancellation_reason": domain.PenaltyCancellationReason},
			},
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountConsumingPack - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountConsumingPack - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus обновляет статус сессии
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "UpdateStatus", query, args)
}

// UpdateSchedule переносит сессию на другое время (правка расписания)
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, startAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("start_at", startAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	err = r.execExpectingRow(ctx, executor, "UpdateSchedule", query, args)
	if err != nil && isConstraintViolation(err, trainerSlotConstraint) {
		return ErrSlotTaken
	}
	return err
}

// Cancel переводит сессию в отмененный статус с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.SessionStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Cancel", query, args)
}

// execExpectingRow выполняет запрос и требует ровно одну затронутую строку
func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.TrainerID,
		&session.ClientID,
		&session.ServiceTypeID,
		&session.StartAt,
		&session.DurationMinutes,
		&session.Status,
		&session.PackID,
		&session.SubscriptionID,
		&session.IsFromCredit,
		&session.CancellationReason,
		&session.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return &session, nil
}

func (r *Repository) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	result := make([]*domain.Session, 0)

	for rows.Next() {
		session, err := r.scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSessions - scan row: %w", ErrScanRow, err)
		}
		result = append(result, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSessions - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

func inactiveStatusStrings() []string {
	result := make([]string, len(domain.InactiveSessionStatuses))
	for i, s := range domain.InactiveSessionStatuses {
		result[i] = string(s)
	}
	return result
}

// isConstraintViolation проверяет нарушение конкретного уникального ограничения
func isConstraintViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation && pqErr.Constraint == constraint
	}
	return false
}
