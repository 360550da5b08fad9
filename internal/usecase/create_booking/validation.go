package create_booking

import (
	"fmt"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainerID must be positive", ErrInvalidInput)
	}

	if req.ServiceTypeID <= 0 {
		return fmt.Errorf("%w: serviceTypeID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if !req.Method.Valid() {
		return fmt.Errorf("%w: unknown booking method %q", ErrInvalidInput, req.Method)
	}

	// Для pack и subscription нужен идентификатор источника
	if req.Method != domain.MethodOneOff {
		if req.SourceID == nil || *req.SourceID <= 0 {
			return fmt.Errorf("%w: sourceID is required for method %q", ErrInvalidInput, req.Method)
		}
	}

	return nil
}

// validateStartAt проверяет, что сессия не начинается в прошлом
func validateStartAt(startAt, now time.Time) error {
	if startAt.Before(now) {
		return ErrSessionInPast
	}
	return nil
}

// validatePack проверяет, что пакет пригоден для этого бронирования.
// Остаток не проверяется здесь: его атомарно проверяет условный декремент.
func validatePack(pack *domain.SessionPack, req *Request) error {
	if !pack.IsActive() {
		return fmt.Errorf("%w: pack id=%d is not active", ErrPackNotUsable, pack.ID)
	}

	if pack.ClientID != req.ClientID {
		return fmt.Errorf("%w: pack id=%d belongs to another client", ErrPackNotUsable, pack.ID)
	}

	if pack.TrainerID != req.TrainerID {
		return fmt.Errorf("%w: pack id=%d belongs to another trainer", ErrPackNotUsable, pack.ID)
	}

	if pack.ServiceTypeID != req.ServiceTypeID {
		return fmt.Errorf("%w: pack id=%d does not cover service type %d", ErrPackNotUsable, pack.ID, req.ServiceTypeID)
	}

	if !pack.HasRemaining() {
		return fmt.Errorf("%w: pack id=%d", ErrPackExhausted, pack.ID)
	}

	return nil
}

// validateSubscription проверяет, что абонемент пригоден для этого бронирования
func validateSubscription(sub *domain.ClientSubscription, req *Request) error {
	if !sub.IsActive() {
		return fmt.Errorf("%w: subscription id=%d is not active", ErrSubscriptionNotUsable, sub.ID)
	}

	if sub.ClientID != req.ClientID {
		return fmt.Errorf("%w: subscription id=%d belongs to another client", ErrSubscriptionNotUsable, sub.ID)
	}

	if sub.TrainerID != req.TrainerID {
		return fmt.Errorf("%w: subscription id=%d belongs to another trainer", ErrSubscriptionNotUsable, sub.ID)
	}

	if sub.AllocationForServiceType(req.ServiceTypeID) == nil {
		return fmt.Errorf("%w: subscription id=%d has no allocation for service type %d",
			ErrSubscriptionNotUsable, sub.ID, req.ServiceTypeID)
	}

	return nil
}
