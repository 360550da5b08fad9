package credits

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	"github.com/m1shk4/PTS-BookingService/pkg/dbmetrics"
	"github.com/m1shk4/PTS-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с кредитами подписок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кредитов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create чеканит новый кредит за отмененную сессию.
// Идемпотентность по origin_session_id обеспечивается уникальным индексом:
// вставка выполняется с ON CONFLICT DO NOTHING, и ноль затронутых строк
// означает, что кредит за эту сессию уже существует (ErrCreditAlreadyMinted).
func (r *Repository) Create(ctx context.Context, credit *domain.SubscriptionSessionCredit) (*domain.SubscriptionSessionCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("subscription_session_credits").
		Columns(
			"subscription_id",
			"service_type_id",
			"credit_value",
			"status",
			"origin_session_id",
		).
		Values(
			credit.SubscriptionID,
			credit.ServiceTypeID,
			credit.CreditValue,
			credit.Status,
			credit.OriginSessionID,
		).
		Suffix("ON CONFLICT (origin_session_id) DO NOTHING RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&credit.ID,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCreditAlreadyMinted
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	credit.CreatedAt = createdAt.Time

	return credit, nil
}

// GetAvailableBySubscription получает доступные кредиты подписки
func (r *Repository) GetAvailableBySubscription(ctx context.Context, subscriptionID int64) ([]*domain.SubscriptionSessionCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"subscription_id",
		"service_type_id",
		"credit_value",
		"status",
		"origin_session_id",
		"created_at",
	).
		From("subscription_session_credits").
		Where(squirrel.Eq{
			"subscription_id": subscriptionID,
			"status":          domain.CreditStatusAvailable,
		}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailableBySubscription - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailableBySubscription - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.SubscriptionSessionCredit, 0)
	for rows.Next() {
		var credit domain.SubscriptionSessionCredit
		var createdAt sql.NullTime

		err := rows.Scan(
			&credit.ID,
			&credit.SubscriptionID,
			&credit.ServiceTypeID,
			&credit.CreditValue,
			&credit.Status,
			&credit.OriginSessionID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAvailableBySubscription - scan row: %w", ErrScanRow, err)
		}

		credit.CreatedAt = createdAt.Time
		result = append(result, &credit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAvailableBySubscription - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}
