package cancel_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	creditsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/credits"
	sessionsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/sessions"
	subscriptionsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/subscriptions"
	"github.com/m1shk4/PTS-BookingService/pkg/ptr"
)

// UseCase use case для отмены сессии
type UseCase struct {
	sessionRepo      SessionRepository
	subscriptionRepo SubscriptionRepository
	creditRepo       CreditRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	subscriptionRepo SubscriptionRepository,
	creditRepo CreditRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:      sessionRepo,
		subscriptionRepo: subscriptionRepo,
		creditRepo:       creditRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case отмены сессии.
// Ранняя отмена никогда не штрафуется, даже если penalize=true.
// Кредит начисляется только за абонементские сессии, забронированные не по
// кредиту; для пакетов посессионного возврата нет - пакет пересчитывается
// только при отмене пакета целиком.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelSession: session=%d, caller=%d, penalize=%t", req.SessionID, req.CallerID, req.Penalize)

	if req.SessionID <= 0 {
		return nil, fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}
	if req.CallerID <= 0 {
		return nil, fmt.Errorf("%w: callerID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем сессию
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionsRepo.ErrSessionNotFound) {
				uc.logger.Warn("CancelSession: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("CancelSession: failed to get session id=%d: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}

		// 2. Отменять может клиент-владелец или тренер сессии
		if session.ClientID != req.CallerID && session.TrainerID != req.CallerID {
			uc.logger.Warn("CancelSession: caller=%d does not own session id=%d (client=%d, trainer=%d)",
				req.CallerID, session.ID, session.ClientID, session.TrainerID)
			return ErrForbidden
		}

		// 3. Проверяем, что сессию еще можно отменить
		if !session.CanBeCancelled() {
			uc.logger.Warn("CancelSession: session id=%d in status %s cannot be cancelled", session.ID, session.Status)
			return fmt.Errorf("%w: session id=%d is %s", ErrNotCancellable, session.ID, session.Status)
		}

		// 4. Определяем позднюю отмену и итоговый штраф
		isLate := session.StartAt.Sub(now) <= domain.LateCancellationWindowHours*time.Hour
		penalized := isLate && req.Penalize

		status := domain.StatusCancelledEarly
		var reason *string
		if isLate {
			status = domain.StatusCancelledLate
		}
		if penalized {
			reason = ptr.Ptr(domain.PenaltyCancellationReason)
		}

		// 5. Переводим сессию в отмененный статус
		if err := uc.sessionRepo.Cancel(txCtx, session.ID, status, reason); err != nil {
			uc.logger.Error("CancelSession: failed to cancel session id=%d: %v", session.ID, err)
			return fmt.Errorf("%w: failed to cancel session: %w", ErrInternal, err)
		}

		resp = &Response{
			SessionID: session.ID,
			Status:    string(status),
			IsLate:    isLate,
			Penalized: penalized,
		}

		// 6. Начисляем кредит за абонементскую сессию
		if session.SubscriptionID != nil && !session.IsFromCredit {
			minted, value, err := uc.mintCredit(txCtx, session)
			if err != nil {
				return err
			}
			resp.CreditMinted = minted
			resp.CreditValue = value
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelSession: session id=%d cancelled, status=%s, penalized=%t, creditMinted=%t",
		resp.SessionID, resp.Status, resp.Penalized, resp.CreditMinted)

	return resp, nil
}

// mintCredit начисляет кредит абонемента за отмененную сессию.
// Повторная отмена той же сессии кредит не дублирует: вставка
// идемпотентна по origin_session_id.
func (uc *UseCase) mintCredit(ctx context.Context, session *domain.Session) (bool, float64, error) {
	allocation, err := uc.subscriptionRepo.GetAllocation(ctx, *session.SubscriptionID, session.ServiceTypeID)
	if err != nil {
		if errors.Is(err, subscriptionsRepo.ErrAllocationNotFound) {
			// Состав абонемента изменился после бронирования, начислять нечего
			uc.logger.Warn("CancelSession: subscription id=%d has no allocation for service type %d, no credit minted",
				*session.SubscriptionID, session.ServiceTypeID)
			return false, 0, nil
		}
		uc.logger.Error("CancelSession: failed to get allocation for subscription id=%d: %v",
			*session.SubscriptionID, err)
		return false, 0, fmt.Errorf("%w: failed to get allocation: %w", ErrInternal, err)
	}

	credit := &domain.SubscriptionSessionCredit{
		SubscriptionID:  *session.SubscriptionID,
		ServiceTypeID:   session.ServiceTypeID,
		CreditValue:     allocation.CostPerSession,
		Status:          domain.CreditStatusAvailable,
		OriginSessionID: session.ID,
	}

	if _, err := uc.creditRepo.Create(ctx, credit); err != nil {
		if errors.Is(err, creditsRepo.ErrCreditAlreadyMinted) {
			uc.logger.Info("CancelSession: credit for session id=%d already minted", session.ID)
			return false, 0, nil
		}
		uc.logger.Error("CancelSession: failed to mint credit for session id=%d: %v", session.ID, err)
		return false, 0, fmt.Errorf("%w: failed to mint credit: %w", ErrInternal, err)
	}

	uc.logger.Info("CancelSession: minted credit id=%d value=%.2f for session id=%d",
		credit.ID, credit.CreditValue, session.ID)

	return true, credit.CreditValue, nil
}
