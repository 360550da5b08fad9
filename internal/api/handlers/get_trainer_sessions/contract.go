package get_trainer_sessions

import (
	"context"

	"github.com/m1shk4/PTS-BookingService/internal/service/sessions/models"
)

type SessionService interface {
	GetTrainerSessions(ctx context.Context, req *models.GetTrainerSessionsRequest) (*models.SessionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
