package get_entitlements

import (
	"context"

	listEntitlements "github.com/m1shk4/PTS-BookingService/internal/usecase/list_entitlements"
)

type ListEntitlementsUseCase interface {
	Execute(ctx context.Context, req *listEntitlements.Request) (*listEntitlements.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
