package subscriptions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	"github.com/m1shk4/PTS-BookingService/pkg/dbmetrics"
	"github.com/m1shk4/PTS-BookingService/pkg/psqlbuilder"
)

var subscriptionColumns = []string{
	"id",
	"client_id",
	"trainer_id",
	"billing_cycle_start",
	"payment_frequency",
	"billing_amount",
	"status",
	"end_date",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с подписками клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подписок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает подписку по ID вместе с её квотами по типам услуг
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ClientSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subscriptionColumns...).
		From("client_subscriptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	sub, err := r.scanSubscription(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan subscription: %w", ErrScanRow, err)
	}

	if err := r.loadAllocations(ctx, executor, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// GetActiveByClientAndTrainer получает активные подписки пары клиент-тренер
// вместе с квотами по типам услуг
func (r *Repository) GetActiveByClientAndTrainer(ctx context.Context, clientID, trainerID int64) ([]*domain.ClientSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subscriptionColumns...).
		From("client_subscriptions").
		Where(squirrel.Eq{
			"client_id":  clientID,
			"trainer_id": trainerID,
			"status":     domain.SubscriptionStatusActive,
		}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByClientAndTrainer - build select query: %v", ErrBuildQuery, err)
	}

	subs, err := r.querySubscriptions(ctx, executor, query, args)
	if err != nil {
		return nil, err
	}

	for _, sub := range subs {
		if err := r.loadAllocations(ctx, executor, sub); err != nil {
			return nil, err
		}
	}

	return subs, nil
}

// GetAllActive получает все активные подписки.
// Используется джобой генерации биллинговых периодов; квоты не загружаются.
func (r *Repository) GetAllActive(ctx context.Context) ([]*domain.ClientSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subscriptionColumns...).
		From("client_subscriptions").
		Where(squirrel.Eq{"status": domain.SubscriptionStatusActive}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllActive - build select query: %v", ErrBuildQuery, err)
	}

	return r.querySubscriptions(ctx, executor, query, args)
}

// GetAllocation получает квоту подписки на конкретный тип услуги
func (r *Repository) GetAllocation(ctx context.Context, subscriptionID, serviceTypeID int64) (*domain.SubscriptionServiceAllocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"subscription_id",
		"service_type_id",
		"quantity_per_period",
		"cost_per_session",
	).
		From("subscription_service_allocations").
		Where(squirrel.Eq{
			"subscription_id": subscriptionID,
			"service_type_id": serviceTypeID,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllocation - build select query: %v", ErrBuildQuery, err)
	}

	var alloc domain.SubscriptionServiceAllocation
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&alloc.ID,
		&alloc.SubscriptionID,
		&alloc.ServiceTypeID,
		&alloc.QuantityPerPeriod,
		&alloc.CostPerSession,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAllocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllocation - scan allocation: %w", ErrScanRow, err)
	}

	return &alloc, nil
}

func (r *Repository) querySubscriptions(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]*domain.ClientSubscription, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querySubscriptions - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	subs := make([]*domain.ClientSubscription, 0)
	for rows.Next() {
		sub, err := r.scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: querySubscriptions - scan row: %w", ErrScanRow, err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: querySubscriptions - rows error: %w", ErrScanRow, err)
	}

	return subs, nil
}

func (r *Repository) loadAllocations(ctx context.Context, executor DBExecutor, sub *domain.ClientSubscription) error {
	query, args, err := psqlbuilder.Select(
		"id",
		"subscription_id",
		"service_type_id",
		"quantity_per_period",
		"cost_per_session",
	).
		From("subscription_service_allocations").
		Where(squirrel.Eq{"subscription_id": sub.ID}).
		OrderBy("service_type_id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadAllocations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAllocations - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	allocations := make([]domain.SubscriptionServiceAllocation, 0)
	for rows.Next() {
		var alloc domain.SubscriptionServiceAllocation
		err := rows.Scan(
			&alloc.ID,
			&alloc.SubscriptionID,
			&alloc.ServiceTypeID,
			&alloc.QuantityPerPeriod,
			&alloc.CostPerSession,
		)
		if err != nil {
			return fmt.Errorf("%w: loadAllocations - scan row: %w", ErrScanRow, err)
		}
		allocations = append(allocations, alloc)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadAllocations - rows error: %w", ErrScanRow, err)
	}

	sub.Allocations = allocations
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSubscription(row rowScanner) (*domain.ClientSubscription, error) {
	var sub domain.ClientSubscription
	var endDate sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&sub.ID,
		&sub.ClientID,
		&sub.TrainerID,
		&sub.BillingCycleStart,
		&sub.PaymentFrequency,
		&sub.BillingAmount,
		&sub.Status,
		&endDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endDate.Valid {
		sub.EndDate = &endDate.Time
	}
	sub.CreatedAt = createdAt.Time
	sub.UpdatedAt = updatedAt.Time

	return &sub, nil
}
