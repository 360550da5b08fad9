package list_entitlements

import (
	"context"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// PackRepository интерфейс репозитория пакетов сессий
type PackRepository interface {
	GetActiveByClientAndTrainer(ctx context.Context, clientID, trainerID int64) ([]*domain.SessionPack, error)
}

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	GetActiveByClientAndTrainer(ctx context.Context, clientID, trainerID int64) ([]*domain.ClientSubscription, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	CountConsumingPack(ctx context.Context, packID int64) (int, error)
}

// CreditRepository интерфейс репозитория кредитов абонемента
type CreditRepository interface {
	GetAvailableBySubscription(ctx context.Context, subscriptionID int64) ([]*domain.SubscriptionSessionCredit, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
