package cancel_session

import (
	"context"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	Cancel(ctx context.Context, id int64, status domain.SessionStatus, reason *string) error
}

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	GetAllocation(ctx context.Context, subscriptionID, serviceTypeID int64) (*domain.SubscriptionServiceAllocation, error)
}

// CreditRepository интерфейс репозитория кредитов абонемента
type CreditRepository interface {
	Create(ctx context.Context, credit *domain.SubscriptionSessionCredit) (*domain.SubscriptionSessionCredit, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
