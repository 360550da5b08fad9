package cancel_session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	creditsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/credits"
	subscriptionsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/subscriptions"
	"github.com/m1shk4/PTS-BookingService/pkg/ptr"
)

var testNow = time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTimeProvider struct{ now time.Time }

func (p *fakeTimeProvider) Now() time.Time { return p.now }

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSessionRepo struct {
	session *domain.Session
	getErr  error

	cancelledStatus domain.SessionStatus
	cancelledReason *string
	cancelCalls     int
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.session, nil
}

func (r *fakeSessionRepo) Cancel(ctx context.Context, id int64, status domain.SessionStatus, reason *string) error {
	r.cancelCalls++
	r.cancelledStatus = status
	r.cancelledReason = reason
	return nil
}

type fakeSubscriptionRepo struct {
	allocation *domain.SubscriptionServiceAllocation
	getErr     error
}

func (r *fakeSubscriptionRepo) GetAllocation(ctx context.Context, subscriptionID, serviceTypeID int64) (*domain.SubscriptionServiceAllocation, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.allocation, nil
}

type fakeCreditRepo struct {
	created   *domain.SubscriptionSessionCredit
	createErr error
}

func (r *fakeCreditRepo) Create(ctx context.Context, credit *domain.SubscriptionSessionCredit) (*domain.SubscriptionSessionCredit, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	credit.ID = 500
	r.created = credit
	return credit, nil
}

func newTestUseCase(sessions *fakeSessionRepo, subs *fakeSubscriptionRepo, credits *fakeCreditRepo) *UseCase {
	uc := NewUseCase(sessions, subs, credits, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

// subscriptionSession starts in hoursAhead hours relative to the fixed clock
func subscriptionSession(hoursAhead int) *domain.Session {
	return &domain.Session{
		ID:              42,
		TrainerID:       2,
		ClientID:        1,
		ServiceTypeID:   3,
		StartAt:         testNow.Add(time.Duration(hoursAhead) * time.Hour),
		DurationMinutes: domain.SessionDurationMinutes,
		Status:          domain.StatusScheduled,
		SubscriptionID:  ptr.Ptr(int64(11)),
	}
}

func allocation() *domain.SubscriptionServiceAllocation {
	return &domain.SubscriptionServiceAllocation{
		ID:                9,
		SubscriptionID:    11,
		ServiceTypeID:     3,
		QuantityPerPeriod: 2,
		CostPerSession:    45,
	}
}

func TestExecute_LateCancellationWithPenalty(t *testing.T) {
	sessions := &fakeSessionRepo{session: subscriptionSession(10)}
	credits := &fakeCreditRepo{}
	uc := newTestUseCase(sessions, &fakeSubscriptionRepo{allocation: allocation()}, credits)

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 1, Penalize: true})

	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.True(t, resp.Penalized)
	assert.Equal(t, string(domain.StatusCancelledLate), resp.Status)
	assert.Equal(t, domain.StatusCancelledLate, sessions.cancelledStatus)
	require.NotNil(t, sessions.cancelledReason)
	assert.Equal(t, domain.PenaltyCancellationReason, *sessions.cancelledReason)
	assert.True(t, resp.CreditMinted)
	assert.Equal(t, 45.0, resp.CreditValue)
	require.NotNil(t, credits.created)
	assert.Equal(t, int64(42), credits.created.OriginSessionID)
}

func TestExecute_LateCancellationWithoutPenalty(t *testing.T) {
	sessions := &fakeSessionRepo{session: subscriptionSession(10)}
	uc := newTestUseCase(sessions, &fakeSubscriptionRepo{allocation: allocation()}, &fakeCreditRepo{})

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 1, Penalize: false})

	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.False(t, resp.Penalized)
	assert.Equal(t, string(domain.StatusCancelledLate), resp.Status)
	assert.Nil(t, sessions.cancelledReason)
}

func TestExecute_EarlyCancellationNeverPenalized(t *testing.T) {
	sessions := &fakeSessionRepo{session: subscriptionSession(72)}
	uc := newTestUseCase(sessions, &fakeSubscriptionRepo{allocation: allocation()}, &fakeCreditRepo{})

	// penalize=true игнорируется для ранней отмены
	resp, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 1, Penalize: true})

	require.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.False(t, resp.Penalized)
	assert.Equal(t, string(domain.StatusCancelledEarly), resp.Status)
	assert.Nil(t, sessions.cancelledReason)
	assert.True(t, resp.CreditMinted)
}

func TestExecute_RepeatCancellationMintsNoSecondCredit(t *testing.T) {
	sessions := &fakeSessionRepo{session: subscriptionSession(72)}
	credits := &fakeCreditRepo{createErr: creditsRepo.ErrCreditAlreadyMinted}
	uc := newTestUseCase(sessions, &fakeSubscriptionRepo{allocation: allocation()}, credits)

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 1})

	require.NoError(t, err)
	assert.False(t, resp.CreditMinted)
	assert.Zero(t, resp.CreditValue)
}

func TestExecute_PackSessionMintsNoCredit(t *testing.T) {
	session := subscriptionSession(72)
	session.SubscriptionID = nil
	session.PackID = ptr.Ptr(int64(7))
	credits := &fakeCreditRepo{}
	uc := newTestUseCase(&fakeSessionRepo{session: session}, &fakeSubscriptionRepo{}, credits)

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 1})

	require.NoError(t, err)
	assert.False(t, resp.CreditMinted)
	assert.Nil(t, credits.created)
}

func TestExecute_CreditFundedSessionMintsNoCredit(t *testing.T) {
	session := subscriptionSession(72)
	session.IsFromCredit = true
	credits := &fakeCreditRepo{}
	uc := newTestUseCase(&fakeSessionRepo{session: session}, &fakeSubscriptionRepo{allocation: allocation()}, credits)

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 1})

	require.NoError(t, err)
	assert.False(t, resp.CreditMinted)
	assert.Nil(t, credits.created)
}

func TestExecute_MissingAllocationCancelsWithoutCredit(t *testing.T) {
	sessions := &fakeSessionRepo{session: subscriptionSession(72)}
	subs := &fakeSubscriptionRepo{getErr: subscriptionsRepo.ErrAllocationNotFound}
	uc := newTestUseCase(sessions, subs, &fakeCreditRepo{})

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, sessions.cancelCalls)
	assert.False(t, resp.CreditMinted)
}

func TestExecute_TrainerMayCancel(t *testing.T) {
	sessions := &fakeSessionRepo{session: subscriptionSession(72)}
	uc := newTestUseCase(sessions, &fakeSubscriptionRepo{allocation: allocation()}, &fakeCreditRepo{})

	_, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 2})

	require.NoError(t, err)
	assert.Equal(t, 1, sessions.cancelCalls)
}

func TestExecute_StrangerForbidden(t *testing.T) {
	sessions := &fakeSessionRepo{session: subscriptionSession(72)}
	uc := newTestUseCase(sessions, &fakeSubscriptionRepo{}, &fakeCreditRepo{})

	_, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 999})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, sessions.cancelCalls)
}

func TestExecute_CompletedSessionNotCancellable(t *testing.T) {
	session := subscriptionSession(72)
	session.Status = domain.StatusCompleted
	sessions := &fakeSessionRepo{session: session}
	uc := newTestUseCase(sessions, &fakeSubscriptionRepo{}, &fakeCreditRepo{})

	_, err := uc.Execute(context.Background(), &Request{SessionID: 42, CallerID: 1})

	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Zero(t, sessions.cancelCalls)
}
