package domain

import (
	"time"

	"github.com/m1shk4/PTS-BookingService/pkg/types"
)

// AvailabilityTemplate represents a recurring weekly availability rule.
// The rule has no end date: it applies to every matching weekday until the
// trainer removes it.
type AvailabilityTemplate struct {
	ID        int64
	TrainerID int64
	Weekday   time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExceptionType represents the kind of a date-specific availability override
type ExceptionType string

const (
	ExceptionFullDayUnavailable ExceptionType = "full_day_unavailable"
	ExceptionPartialUnavailable ExceptionType = "partial_unavailable"
	ExceptionExtraAvailability  ExceptionType = "extra_availability"
)

// Valid returns true if the type is one of the known exception types
func (t ExceptionType) Valid() bool {
	switch t {
	case ExceptionFullDayUnavailable, ExceptionPartialUnavailable, ExceptionExtraAvailability:
		return true
	default:
		return false
	}
}

// AvailabilityException represents a one-off override of the weekly templates
// for a specific date. StartTime/EndTime are nil for full-day exceptions.
type AvailabilityException struct {
	ID        int64
	TrainerID int64
	Date      time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Type      ExceptionType
	CreatedAt time.Time
}

// TimeRange represents a half-open interval [Start, End) of absolute instants
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// IsEmpty returns true if the range covers no time
func (r TimeRange) IsEmpty() bool {
	return !r.End.After(r.Start)
}

// Overlaps returns true if the range intersects other.
// Touching ranges do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Touches returns true if the range overlaps or directly adjoins other
func (r TimeRange) Touches(other TimeRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}
