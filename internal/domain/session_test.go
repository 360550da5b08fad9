package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_PendingApproval(t *testing.T) {
	assert.True(t, StatusPendingApproval.CanTransitionTo(StatusScheduled))
	assert.True(t, StatusPendingApproval.CanTransitionTo(StatusCancelledLate))
	assert.True(t, StatusPendingApproval.CanTransitionTo(StatusCancelledEarly))

	assert.False(t, StatusPendingApproval.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusPendingApproval.CanTransitionTo(StatusNoShow))
}

func TestCanTransitionTo_Scheduled(t *testing.T) {
	assert.True(t, StatusScheduled.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusScheduled.CanTransitionTo(StatusCancelledLate))
	assert.True(t, StatusScheduled.CanTransitionTo(StatusCancelledEarly))
	assert.True(t, StatusScheduled.CanTransitionTo(StatusNoShow))

	assert.False(t, StatusScheduled.CanTransitionTo(StatusPendingApproval))
}

func TestCanTransitionTo_TerminalStatusesAreFinal(t *testing.T) {
	terminal := []SessionStatus{StatusCompleted, StatusCancelledLate, StatusCancelledEarly, StatusNoShow}
	all := []SessionStatus{StatusScheduled, StatusCompleted, StatusCancelledLate,
		StatusCancelledEarly, StatusNoShow, StatusPendingApproval}

	for _, from := range terminal {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestCanTransitionTo_SelfAndUnknownRejected(t *testing.T) {
	assert.False(t, StatusScheduled.CanTransitionTo(StatusScheduled))
	assert.False(t, StatusScheduled.CanTransitionTo(SessionStatus("postponed")))
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Session{Status: StatusScheduled}).CanBeCancelled())
	assert.True(t, (&Session{Status: StatusPendingApproval}).CanBeCancelled())

	assert.False(t, (&Session{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Session{Status: StatusCancelledEarly}).CanBeCancelled())
	assert.False(t, (&Session{Status: StatusNoShow}).CanBeCancelled())
}

func TestOverlaps_TouchingIsNotOverlap(t *testing.T) {
	start := time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)
	session := &Session{StartAt: start, DurationMinutes: SessionDurationMinutes}

	// adjacent intervals do not overlap
	assert.False(t, session.Overlaps(start.Add(-time.Hour), start))
	assert.False(t, session.Overlaps(session.EndAt(), session.EndAt().Add(time.Hour)))

	assert.True(t, session.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.True(t, session.Overlaps(start.Add(-30*time.Minute), start.Add(time.Minute)))
	assert.True(t, session.Overlaps(start.Add(-time.Hour), session.EndAt().Add(time.Hour)))
}

func TestIsActive_CancelledAndNoShowFreeTheSlot(t *testing.T) {
	assert.True(t, (&Session{Status: StatusScheduled}).IsActive())
	assert.True(t, (&Session{Status: StatusPendingApproval}).IsActive())
	assert.True(t, (&Session{Status: StatusCompleted}).IsActive())

	assert.False(t, (&Session{Status: StatusCancelledLate}).IsActive())
	assert.False(t, (&Session{Status: StatusCancelledEarly}).IsActive())
	assert.False(t, (&Session{Status: StatusNoShow}).IsActive())
}
