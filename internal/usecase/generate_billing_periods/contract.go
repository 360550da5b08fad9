package generate_billing_periods

import (
	"context"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	GetAllActive(ctx context.Context) ([]*domain.ClientSubscription, error)
}

// BillingPeriodRepository интерфейс репозитория биллинговых периодов
type BillingPeriodRepository interface {
	GetLatestBySubscription(ctx context.Context, subscriptionID int64) (*domain.SubscriptionBillingPeriod, error)
	ExistsByStart(ctx context.Context, subscriptionID int64, periodStart time.Time) (bool, error)
	Create(ctx context.Context, period *domain.SubscriptionBillingPeriod) (*domain.SubscriptionBillingPeriod, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
