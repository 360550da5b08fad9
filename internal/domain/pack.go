package domain

import "time"

// PackStatus represents the status of a session pack
type PackStatus string

const (
	PackStatusActive   PackStatus = "active"
	PackStatusArchived PackStatus = "archived"
)

// SessionPack represents a prepaid bundle of sessions for one client,
// trainer and service type.
type SessionPack struct {
	ID                int64
	ClientID          int64
	TrainerID         int64
	ServiceTypeID     int64
	TotalSessions     int
	SessionsRemaining int
	Status            PackStatus

	// Set only by the whole-pack cancellation flow, never per session
	ForfeitedSessions int
	RefundedSessions  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the pack can still be booked against
func (p *SessionPack) IsActive() bool {
	return p.Status == PackStatusActive
}

// HasRemaining returns true if the pack has sessions left
func (p *SessionPack) HasRemaining() bool {
	return p.SessionsRemaining > 0
}
