package billingperiods

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

var periodColumns = []string{
	"id",
	"subscription_id",
	"period_start",
	"period_end",
	"amount_due",
	"status",
	"is_final",
	"created_at",
}

// Repository репозиторий для работы с биллинговыми периодами подписок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория биллинговых периодов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetLatestBySubscription получает последний по дате начала период подписки
func (r *Repository) GetLatestBySubscription(ctx context.Context, subscriptionID int64) (*domain.SubscriptionBillingPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(periodColumns...).
		From("subscription_billing_periods").
		Where(squirrel.Eq{"subscription_id": subscriptionID}).
		OrderBy("period_start DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestBySubscription - build select query: %v", ErrBuildQuery, err)
	}

	period, err := r.scanPeriod(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNoPeriods
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestBySubscription - scan period: %w", ErrScanRow, err)
	}

	return period, nil
}

// ExistsByStart проверяет, существует ли период подписки с данной датой начала
func (r *Repository) ExistsByStart(ctx context.Context, subscriptionID int64, periodStart time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("subscription_billing_periods").
		Where(squirrel.Eq{
			"subscription_id": subscriptionID,
			"period_start":    periodStart,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsByStart - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByStart - scan row: %w", ErrScanRow, err)
	}

	return true, nil
}

// Create создает новый биллинговый период.
// Уникальный индекс (subscription_id, period_start) страхует идемпотентность
// от параллельных запусков джобы: дубликат возвращает ErrDuplicatePeriod.
func (r *Repository) Create(ctx context.Context, period *domain.SubscriptionBillingPeriod) (*domain.SubscriptionBillingPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("subscription_billing_periods").
		Columns(
			"subscription_id",
			"period_start",
			"period_end",
			"amount_due",
			"status",
			"is_final",
		).
		Values(
			period.SubscriptionID,
			period.PeriodStart,
			period.PeriodEnd,
			period.AmountDue,
			period.Status,
			period.IsFinal,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&period.ID,
		&createdAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrDuplicatePeriod
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	period.CreatedAt = createdAt.Time

	return period, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanPeriod(row rowScanner) (*domain.SubscriptionBillingPeriod, error) {
	var period domain.SubscriptionBillingPeriod
	var createdAt sql.NullTime

	err := row.Scan(
		&period.ID,
		&period.SubscriptionID,
		&period.PeriodStart,
		&period.PeriodEnd,
		&period.AmountDue,
		&period.Status,
		&period.IsFinal,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	period.CreatedAt = createdAt.Time

	return &period, nil
}
