package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	"github.com/m1shk4/PTS-BookingService/pkg/dbmetrics"
	"github.com/m1shk4/PTS-BookingService/pkg/psqlbuilder"
	"github.com/m1shk4/PTS-BookingService/pkg/types"
)

// Repository репозиторий для чтения расписания доступности тренера.
// Шаблоны и исключения создаются тренером через настройки (внешний модуль),
// движок их только читает.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetTemplatesByTrainer получает все недельные шаблоны тренера,
// отсортированные по дню недели и времени начала
func (r *Repository) GetTemplatesByTrainer(ctx context.Context, trainerID int64) ([]*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"trainer_id",
		"weekday",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("availability_templates").
		Where(squirrel.Eq{"trainer_id": trainerID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplatesByTrainer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplatesByTrainer - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.AvailabilityTemplate, 0)
	for rows.Next() {
		var tpl domain.AvailabilityTemplate
		var weekday int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&tpl.ID,
			&tpl.TrainerID,
			&weekday,
			&tpl.StartTime,
			&tpl.EndTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetTemplatesByTrainer - scan row: %w", ErrScanRow, err)
		}

		tpl.Weekday = time.Weekday(weekday)
		tpl.CreatedAt = createdAt.Time
		tpl.UpdatedAt = updatedAt.Time
		templates = append(templates, &tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetTemplatesByTrainer - rows error: %w", ErrScanRow, err)
	}

	return templates, nil
}

// GetExceptionsByTrainerAndRange получает исключения тренера для дат
// в интервале [from, to].
// Внутри одного дня исключения отсортированы по id ASC, то есть в порядке
// создания. Резолвер доступности применяет их именно в этом порядке,
// это контракт, а не случайность.
func (r *Repository) GetExceptionsByTrainerAndRange(
	ctx context.Context,
	trainerID int64,
	from, to time.Time,
) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"trainer_id",
		"exception_date",
		"start_time",
		"end_time",
		"exception_type",
		"created_at",
	).
		From("availability_exceptions").
		Where(squirrel.Eq{"trainer_id": trainerID}).
		Where(squirrel.GtOrEq{"exception_date": from}).
		Where(squirrel.LtOrEq{"exception_date": to}).
		OrderBy("exception_date ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByTrainerAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByTrainerAndRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.AvailabilityException, 0)
	for rows.Next() {
		var exc domain.AvailabilityException
		var startTime, endTime sql.NullString
		var createdAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.TrainerID,
			&exc.Date,
			&startTime,
			&endTime,
			&exc.Type,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByTrainerAndRange - scan row: %w", ErrScanRow, err)
		}

		if exc.StartTime, err = nullableTimeString(startTime); err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByTrainerAndRange - parse start_time: %w", ErrScanRow, err)
		}
		if exc.EndTime, err = nullableTimeString(endTime); err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByTrainerAndRange - parse end_time: %w", ErrScanRow, err)
		}

		exc.CreatedAt = createdAt.Time
		exceptions = append(exceptions, &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByTrainerAndRange - rows error: %w", ErrScanRow, err)
	}

	return exceptions, nil
}

// nullableTimeString конвертирует NULL-able TIME колонку в *types.TimeString
func nullableTimeString(v sql.NullString) (*types.TimeString, error) {
	if !v.Valid {
		return nil, nil
	}

	var ts types.TimeString
	if err := ts.Scan(v.String); err != nil {
		return nil, err
	}
	return &ts, nil
}
