package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	packsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/packs"
	"github.com/m1shk4/PTS-BookingService/pkg/ptr"
)

var testNow = time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTimeProvider struct{ now time.Time }

func (p *fakeTimeProvider) Now() time.Time { return p.now }

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSessionRepo struct {
	overlapping int
	created     *domain.Session
	createErr   error
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	session.ID = 100
	r.created = session
	return session, nil
}

func (r *fakeSessionRepo) CountOverlapping(ctx context.Context, trainerID int64, start, end time.Time, excludeSessionID *int64) (int, error) {
	return r.overlapping, nil
}

type fakePackRepo struct {
	pack         *domain.SessionPack
	getErr       error
	decrementErr error
	decremented  int
}

func (r *fakePackRepo) GetByID(ctx context.Context, id int64) (*domain.SessionPack, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.pack, nil
}

func (r *fakePackRepo) DecrementRemaining(ctx context.Context, id int64) error {
	if r.decrementErr != nil {
		return r.decrementErr
	}
	r.decremented++
	r.pack.SessionsRemaining--
	return nil
}

type fakeSubscriptionRepo struct {
	sub    *domain.ClientSubscription
	getErr error
}

func (r *fakeSubscriptionRepo) GetByID(ctx context.Context, id int64) (*domain.ClientSubscription, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.sub, nil
}

func newTestUseCase(sessions *fakeSessionRepo, packs *fakePackRepo, subs *fakeSubscriptionRepo) *UseCase {
	uc := NewUseCase(sessions, packs, subs, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func activePack(remaining int) *domain.SessionPack {
	return &domain.SessionPack{
		ID:                7,
		ClientID:          1,
		TrainerID:         2,
		ServiceTypeID:     3,
		TotalSessions:     10,
		SessionsRemaining: remaining,
		Status:            domain.PackStatusActive,
	}
}

func packRequest() *Request {
	return &Request{
		ClientID:      1,
		TrainerID:     2,
		ServiceTypeID: 3,
		StartAt:       testNow.Add(48 * time.Hour),
		Method:        domain.MethodPack,
		SourceID:      ptr.Ptr(int64(7)),
	}
}

func TestExecute_PackBookingDecrementsPack(t *testing.T) {
	sessions := &fakeSessionRepo{}
	packs := &fakePackRepo{pack: activePack(5)}
	uc := newTestUseCase(sessions, packs, &fakeSubscriptionRepo{})

	resp, err := uc.Execute(context.Background(), packRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.SessionID)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, 1, packs.decremented)
	require.NotNil(t, sessions.created)
	require.NotNil(t, sessions.created.PackID)
	assert.Equal(t, int64(7), *sessions.created.PackID)
	assert.Equal(t, domain.SessionDurationMinutes, sessions.created.DurationMinutes)
}

func TestExecute_OverlapFailsWithConflict(t *testing.T) {
	sessions := &fakeSessionRepo{overlapping: 1}
	packs := &fakePackRepo{pack: activePack(5)}
	uc := newTestUseCase(sessions, packs, &fakeSubscriptionRepo{})

	_, err := uc.Execute(context.Background(), packRequest())

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, sessions.created)
	assert.Zero(t, packs.decremented)
}

func TestExecute_LastPackSessionThenExhausted(t *testing.T) {
	sessions := &fakeSessionRepo{}
	packs := &fakePackRepo{pack: activePack(1)}
	uc := newTestUseCase(sessions, packs, &fakeSubscriptionRepo{})

	_, err := uc.Execute(context.Background(), packRequest())
	require.NoError(t, err)
	assert.Zero(t, packs.pack.SessionsRemaining)

	// Пакет исчерпан: следующее бронирование отклоняется
	req := packRequest()
	req.StartAt = req.StartAt.Add(2 * time.Hour)
	_, err = uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrPackExhausted)
	assert.Equal(t, 1, packs.decremented)
}

func TestExecute_ConcurrentDecrementLosesWithExhausted(t *testing.T) {
	// Остаток виден, но условный UPDATE проигрывает гонку
	sessions := &fakeSessionRepo{}
	packs := &fakePackRepo{pack: activePack(1), decrementErr: packsRepo.ErrNoSessionsRemaining}
	uc := newTestUseCase(sessions, packs, &fakeSubscriptionRepo{})

	_, err := uc.Execute(context.Background(), packRequest())

	assert.ErrorIs(t, err, ErrPackExhausted)
}

func TestExecute_PackServiceTypeMismatchRejected(t *testing.T) {
	pack := activePack(5)
	pack.ServiceTypeID = 99
	uc := newTestUseCase(&fakeSessionRepo{}, &fakePackRepo{pack: pack}, &fakeSubscriptionRepo{})

	_, err := uc.Execute(context.Background(), packRequest())

	assert.ErrorIs(t, err, ErrPackNotUsable)
}

func TestExecute_PackNotFound(t *testing.T) {
	packs := &fakePackRepo{getErr: packsRepo.ErrPackNotFound}
	uc := newTestUseCase(&fakeSessionRepo{}, packs, &fakeSubscriptionRepo{})

	_, err := uc.Execute(context.Background(), packRequest())

	assert.ErrorIs(t, err, ErrPackNotFound)
}

func TestExecute_SubscriptionBookingLinksSubscription(t *testing.T) {
	sessions := &fakeSessionRepo{}
	subs := &fakeSubscriptionRepo{sub: &domain.ClientSubscription{
		ID:        11,
		ClientID:  1,
		TrainerID: 2,
		Status:    domain.SubscriptionStatusActive,
		Allocations: []domain.SubscriptionServiceAllocation{
			{SubscriptionID: 11, ServiceTypeID: 3, QuantityPerPeriod: 2, CostPerSession: 45},
		},
	}}
	uc := newTestUseCase(sessions, &fakePackRepo{}, subs)

	req := packRequest()
	req.Method = domain.MethodSubscription
	req.SourceID = ptr.Ptr(int64(11))

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	require.NotNil(t, sessions.created.SubscriptionID)
	assert.Equal(t, int64(11), *sessions.created.SubscriptionID)
	assert.Nil(t, sessions.created.PackID)
}

func TestExecute_SubscriptionWithoutAllocationRejected(t *testing.T) {
	subs := &fakeSubscriptionRepo{sub: &domain.ClientSubscription{
		ID:        11,
		ClientID:  1,
		TrainerID: 2,
		Status:    domain.SubscriptionStatusActive,
	}}
	uc := newTestUseCase(&fakeSessionRepo{}, &fakePackRepo{}, subs)

	req := packRequest()
	req.Method = domain.MethodSubscription
	req.SourceID = ptr.Ptr(int64(11))

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSubscriptionNotUsable)
}

func TestExecute_OneOffYieldsPendingApproval(t *testing.T) {
	sessions := &fakeSessionRepo{}
	uc := newTestUseCase(sessions, &fakePackRepo{}, &fakeSubscriptionRepo{})

	req := packRequest()
	req.Method = domain.MethodOneOff
	req.SourceID = nil

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPendingApproval), resp.Status)
	assert.Contains(t, resp.Message, "awaiting trainer approval")
	assert.Nil(t, sessions.created.PackID)
	assert.Nil(t, sessions.created.SubscriptionID)
}

func TestExecute_StartInPastRejected(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakePackRepo{pack: activePack(5)}, &fakeSubscriptionRepo{})

	req := packRequest()
	req.StartAt = testNow.Add(-time.Hour)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSessionInPast)
}

func TestExecute_MissingSourceIDRejected(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakePackRepo{}, &fakeSubscriptionRepo{})

	req := packRequest()
	req.SourceID = nil

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
}
