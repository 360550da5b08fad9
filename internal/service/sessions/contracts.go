package sessions

import (
	"context"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.SessionStatus) ([]*domain.Session, error)
	GetByTrainerAndRange(ctx context.Context, trainerID int64, start, end time.Time, includeInactive bool) ([]*domain.Session, error)
	CountOverlapping(ctx context.Context, trainerID int64, start, end time.Time, excludeSessionID *int64) (int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus) error
	UpdateSchedule(ctx context.Context, id int64, startAt time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
