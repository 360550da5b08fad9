package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rowsAffected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type fakeExecutor struct {
	execErr error
	result  sql.Result
}

func (e *fakeExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if e.execErr != nil {
		return nil, e.execErr
	}
	return e.result, nil
}

func (e *fakeExecutor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (e *fakeExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func TestUpdateSchedule_SlotConstraintMapsToSlotTaken(t *testing.T) {
	repo := NewRepository(&fakeExecutor{execErr: &pq.Error{
		Code:       pq.ErrorCode(uniqueViolation),
		Constraint: trainerSlotConstraint,
	}})

	err := repo.UpdateSchedule(context.Background(), 42, time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestUpdateSchedule_OtherConstraintNotMasked(t *testing.T) {
	repo := NewRepository(&fakeExecutor{execErr: &pq.Error{
		Code:       pq.ErrorCode(uniqueViolation),
		Constraint: "uq_credits_origin_session",
	}})

	err := repo.UpdateSchedule(context.Background(), 42, time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC))

	assert.NotErrorIs(t, err, ErrSlotTaken)
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestUpdateSchedule_DriverErrorStaysInChain(t *testing.T) {
	repo := NewRepository(&fakeExecutor{execErr: &pq.Error{Code: "40001"}})

	err := repo.UpdateSchedule(context.Background(), 42, time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestUpdateSchedule_NoRowsReturnsNotFound(t *testing.T) {
	repo := NewRepository(&fakeExecutor{result: fakeResult{rowsAffected: 0}})

	err := repo.UpdateSchedule(context.Background(), 42, time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, ErrSessionNotFound)
}
