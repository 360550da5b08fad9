package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	sessionRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/sessions"
	"github.com/m1shk4/PTS-BookingService/internal/service/sessions/models"
	"github.com/m1shk4/PTS-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSessionRepo struct {
	session     *domain.Session
	list        []*domain.Session
	overlapping int
	scheduleErr error

	updatedStatus    *domain.SessionStatus
	rescheduledStart *time.Time
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	return r.session, nil
}

func (r *fakeSessionRepo) GetByClientID(ctx context.Context, clientID int64, status *domain.SessionStatus) ([]*domain.Session, error) {
	return r.list, nil
}

func (r *fakeSessionRepo) GetByTrainerAndRange(ctx context.Context, trainerID int64, start, end time.Time, includeInactive bool) ([]*domain.Session, error) {
	return r.list, nil
}

func (r *fakeSessionRepo) CountOverlapping(ctx context.Context, trainerID int64, start, end time.Time, excludeSessionID *int64) (int, error) {
	return r.overlapping, nil
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus) error {
	r.updatedStatus = &status
	return nil
}

func (r *fakeSessionRepo) UpdateSchedule(ctx context.Context, id int64, startAt time.Time) error {
	if r.scheduleErr != nil {
		return r.scheduleErr
	}
	r.rescheduledStart = &startAt
	return nil
}

func testSession(status domain.SessionStatus) *domain.Session {
	return &domain.Session{
		ID:              42,
		TrainerID:       2,
		ClientID:        1,
		ServiceTypeID:   3,
		StartAt:         time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC),
		DurationMinutes: domain.SessionDurationMinutes,
		Status:          status,
	}
}

func TestGetByID_OwnerAndTrainerSee(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusScheduled)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)

	_, err = svc.GetByID(context.Background(), 42, 2)
	require.NoError(t, err)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusScheduled)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 42, 999)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetClientSessions_OnlyOwner(t *testing.T) {
	svc := NewService(&fakeSessionRepo{}, fakeTxManager{}, nopLogger{})

	_, err := svc.GetClientSessions(context.Background(), &models.GetClientSessionsRequest{
		ClientID: 1,
		CallerID: 2,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetClientSessions_InvalidStatusRejected(t *testing.T) {
	svc := NewService(&fakeSessionRepo{}, fakeTxManager{}, nopLogger{})

	_, err := svc.GetClientSessions(context.Background(), &models.GetClientSessionsRequest{
		ClientID: 1,
		CallerID: 1,
		Status:   ptr.Ptr("postponed"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTrainerSessions_InvalidPeriodRejected(t *testing.T) {
	svc := NewService(&fakeSessionRepo{}, fakeTxManager{}, nopLogger{})

	start := time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetTrainerSessions(context.Background(), &models.GetTrainerSessionsRequest{
		TrainerID: 2,
		CallerID:  2,
		Start:     start,
		End:       start.AddDate(0, 0, -1),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_TrainerCompletesSession(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusScheduled)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	resp, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "completed",
	})

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusCompleted, *repo.updatedStatus)
}

func TestUpdateStatus_ClientDenied(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusScheduled)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 1,
		Status:   "completed",
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateStatus_TerminalStatusLocked(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusCompleted)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "scheduled",
	})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_ApprovalRechecksOverlap(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusPendingApproval), overlapping: 1}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "scheduled",
	})

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, repo.updatedStatus)
}

func TestUpdateStatus_ApprovalWithRescheduleMovesSession(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusPendingApproval)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	newStart := time.Date(2025, 11, 5, 14, 0, 0, 0, time.UTC)

	resp, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "scheduled",
		StartAt:  &newStart,
	})

	require.NoError(t, err)
	assert.Equal(t, "scheduled", resp.Status)
	require.NotNil(t, repo.rescheduledStart)
	assert.True(t, repo.rescheduledStart.Equal(newStart))
}

func TestUpdateStatus_RescheduleScheduledSession(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusScheduled)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	newStart := time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC)

	resp, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "scheduled",
		StartAt:  &newStart,
	})

	require.NoError(t, err)
	assert.Equal(t, "scheduled", resp.Status)
	require.NotNil(t, repo.rescheduledStart)
	assert.True(t, repo.rescheduledStart.Equal(newStart))
}

func TestUpdateStatus_RescheduleConflictRejected(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusScheduled), overlapping: 1}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	newStart := time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC)

	_, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "scheduled",
		StartAt:  &newStart,
	})

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, repo.rescheduledStart)
}

func TestUpdateStatus_RescheduleLosesRaceForSlot(t *testing.T) {
	repo := &fakeSessionRepo{
		session:     testSession(domain.StatusScheduled),
		scheduleErr: sessionRepo.ErrSlotTaken,
	}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	newStart := time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC)

	_, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "scheduled",
		StartAt:  &newStart,
	})

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, repo.updatedStatus)
}

func TestUpdateStatus_SameTimeRescheduleRejected(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusScheduled)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	sameStart := time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)

	_, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "scheduled",
		StartAt:  &sameStart,
	})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_RescheduleOnlyWhenScheduling(t *testing.T) {
	repo := &fakeSessionRepo{session: testSession(domain.StatusScheduled)}
	svc := NewService(repo, fakeTxManager{}, nopLogger{})

	newStart := time.Date(2025, 11, 5, 14, 0, 0, 0, time.UTC)

	_, err := svc.UpdateStatus(context.Background(), 42, &models.UpdateStatusRequest{
		CallerID: 2,
		Status:   "completed",
		StartAt:  &newStart,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, repo.rescheduledStart)
}
