package resolve_availability

import (
	"context"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписания доступности
type AvailabilityRepository interface {
	GetTemplatesByTrainer(ctx context.Context, trainerID int64) ([]*domain.AvailabilityTemplate, error)
	GetExceptionsByTrainerAndRange(ctx context.Context, trainerID int64, from, to time.Time) ([]*domain.AvailabilityException, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByTrainerAndRange(ctx context.Context, trainerID int64, start, end time.Time, includeInactive bool) ([]*domain.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
