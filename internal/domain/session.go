package domain

import "time"

// SessionStatus represents the status of a training session
type SessionStatus string

const (
	StatusScheduled       SessionStatus = "scheduled"
	StatusCompleted       SessionStatus = "completed"
	StatusCancelledLate   SessionStatus = "cancelled_late"
	StatusCancelledEarly  SessionStatus = "cancelled_early"
	StatusNoShow          SessionStatus = "no_show"
	StatusPendingApproval SessionStatus = "pending_approval"
)

// BookingMethod represents the entitlement a booking consumes
type BookingMethod string

const (
	MethodPack         BookingMethod = "pack"
	MethodSubscription BookingMethod = "subscription"
	MethodOneOff       BookingMethod = "one_off"
)

// Valid returns true if the method is one of the known booking methods
func (m BookingMethod) Valid() bool {
	switch m {
	case MethodPack, MethodSubscription, MethodOneOff:
		return true
	default:
		return false
	}
}

// Session represents a single personal-training session
type Session struct {
	ID              int64
	TrainerID       int64
	ClientID        int64
	ServiceTypeID   int64
	StartAt         time.Time
	DurationMinutes int
	Status          SessionStatus

	// Entitlement linkage: at most one of PackID/SubscriptionID is set,
	// one-off sessions carry neither
	PackID         *int64
	SubscriptionID *int64
	IsFromCredit   bool

	CancellationReason *string
	Notes              *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndAt returns the end instant of the session
func (s *Session) EndAt() time.Time {
	return s.StartAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// IsActive returns true if the session still occupies its time slot
func (s *Session) IsActive() bool {
	return s.Status != StatusCancelledLate &&
		s.Status != StatusCancelledEarly &&
		s.Status != StatusNoShow
}

// IsCancelled returns true if the session has been cancelled
func (s *Session) IsCancelled() bool {
	return s.Status == StatusCancelledLate || s.Status == StatusCancelledEarly
}

// CanBeCancelled returns true if the session can still be cancelled
func (s *Session) CanBeCancelled() bool {
	return s.Status == StatusScheduled || s.Status == StatusPendingApproval
}

// Overlaps returns true if the session interval intersects [start, end).
// Touching intervals do not count as an overlap.
func (s *Session) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && s.EndAt().After(start)
}

// Valid returns true if the status is one of the known session statuses
func (st SessionStatus) Valid() bool {
	switch st {
	case StatusScheduled, StatusCompleted, StatusCancelledLate,
		StatusCancelledEarly, StatusNoShow, StatusPendingApproval:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for statuses a session can never leave
func (st SessionStatus) IsTerminal() bool {
	switch st {
	case StatusCompleted, StatusCancelledLate, StatusCancelledEarly, StatusNoShow:
		return true
	case StatusScheduled, StatusPendingApproval:
		return false
	default:
		return false
	}
}

// CanTransitionTo reports whether a session may move from st to next.
// Statuses are write-once-terminal: once a session is completed, cancelled
// or marked no-show there is no way back, including back to scheduled.
func (st SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if !next.Valid() || st == next {
		return false
	}

	switch st {
	case StatusPendingApproval:
		return next == StatusScheduled ||
			next == StatusCancelledLate ||
			next == StatusCancelledEarly
	case StatusScheduled:
		return next == StatusCompleted ||
			next == StatusCancelledLate ||
			next == StatusCancelledEarly ||
			next == StatusNoShow
	case StatusCompleted, StatusCancelledLate, StatusCancelledEarly, StatusNoShow:
		return false
	default:
		return false
	}
}
