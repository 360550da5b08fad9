package billing_tick

import (
	"context"

	generateBillingPeriods "github.com/m1shk4/PTS-BookingService/internal/usecase/generate_billing_periods"
)

type GenerateBillingPeriodsUseCase interface {
	Execute(ctx context.Context) (*generateBillingPeriods.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
