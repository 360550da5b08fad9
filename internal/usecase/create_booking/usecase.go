package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	packsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/packs"
	sessionsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/sessions"
	subscriptionsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/subscriptions"
)

// UseCase use case для создания сессии
type UseCase struct {
	sessionRepo      SessionRepository
	packRepo         PackRepository
	subscriptionRepo SubscriptionRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	packRepo PackRepository,
	subscriptionRepo SubscriptionRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:      sessionRepo,
		packRepo:         packRepo,
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания сессии.
// Проверка пересечений, проверка источника оплаты, вставка сессии и
// списание из пакета выполняются одной сериализуемой транзакцией:
// никаких компенсирующих удалений при частичном сбое.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, trainer=%d, service=%d, start=%s, method=%s",
		req.ClientID, req.TrainerID, req.ServiceTypeID, req.StartAt.Format(time.RFC3339), req.Method)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что сессия не в прошлом
	now := uc.timeProvider.Now()
	if err := validateStartAt(req.StartAt, now); err != nil {
		uc.logger.Warn("CreateBooking: start=%s is in the past", req.StartAt.Format(time.RFC3339))
		return nil, err
	}

	end := req.StartAt.Add(domain.SessionDurationMinutes * time.Minute)

	// Переменная для хранения результата
	var result *domain.Session

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Проверяем пересечения с активными сессиями тренера
		overlapping, err := uc.sessionRepo.CountOverlapping(txCtx, req.TrainerID, req.StartAt, end, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count overlapping sessions: %v", err)
			return fmt.Errorf("%w: failed to count overlapping sessions: %w", ErrInternal, err)
		}

		if overlapping > 0 {
			uc.logger.Warn("CreateBooking: slot conflict for trainer=%d at %s, %d overlapping",
				req.TrainerID, req.StartAt.Format(time.RFC3339), overlapping)
			return ErrSlotConflict
		}

		session := &domain.Session{
			TrainerID:       req.TrainerID,
			ClientID:        req.ClientID,
			ServiceTypeID:   req.ServiceTypeID,
			StartAt:         req.StartAt,
			DurationMinutes: domain.SessionDurationMinutes,
			Status:          domain.StatusScheduled,
			Notes:           req.Notes,
		}

		// 3.2. Проверяем источник оплаты и связываем его с сессией
		switch req.Method {
		case domain.MethodPack:
			if err := uc.resolvePack(txCtx, req, session); err != nil {
				return err
			}

		case domain.MethodSubscription:
			if err := uc.resolveSubscription(txCtx, req, session); err != nil {
				return err
			}

		case domain.MethodOneOff:
			// Разовые сессии ждут подтверждения тренера
			session.Status = domain.StatusPendingApproval
		}

		// 3.3. Сохраняем сессию
		created, err := uc.sessionRepo.Create(txCtx, session)
		if err != nil {
			if errors.Is(err, sessionsRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot taken by concurrent booking, trainer=%d at %s",
					req.TrainerID, req.StartAt.Format(time.RFC3339))
				return ErrSlotConflict
			}
			uc.logger.Error("CreateBooking: failed to create session: %v", err)
			return fmt.Errorf("%w: failed to create session: %w", ErrInternal, err)
		}

		// 3.4. Списываем сессию из пакета условным UPDATE.
		// Ошибка здесь откатывает и вставку сессии.
		if req.Method == domain.MethodPack {
			if err := uc.packRepo.DecrementRemaining(txCtx, *session.PackID); err != nil {
				if errors.Is(err, packsRepo.ErrNoSessionsRemaining) {
					uc.logger.Warn("CreateBooking: pack id=%d exhausted by concurrent booking", *session.PackID)
					return fmt.Errorf("%w: pack id=%d", ErrPackExhausted, *session.PackID)
				}
				uc.logger.Error("CreateBooking: failed to decrement pack id=%d: %v", *session.PackID, err)
				return fmt.Errorf("%w: failed to decrement pack: %w", ErrInternal, err)
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created session id=%d, status=%s", result.ID, result.Status)

	return &Response{
		SessionID: result.ID,
		Status:    string(result.Status),
		StartAt:   result.StartAt,
		EndAt:     result.EndAt(),
		Message:   confirmationMessage(result.Status, result.StartAt),
	}, nil
}

// resolvePack проверяет пакет и привязывает его к сессии
func (uc *UseCase) resolvePack(ctx context.Context, req *Request, session *domain.Session) error {
	pack, err := uc.packRepo.GetByID(ctx, *req.SourceID)
	if err != nil {
		if errors.Is(err, packsRepo.ErrPackNotFound) {
			uc.logger.Warn("CreateBooking: pack id=%d not found", *req.SourceID)
			return ErrPackNotFound
		}
		uc.logger.Error("CreateBooking: failed to get pack id=%d: %v", *req.SourceID, err)
		return fmt.Errorf("%w: failed to get pack: %w", ErrInternal, err)
	}

	if err := validatePack(pack, req); err != nil {
		uc.logger.Warn("CreateBooking: pack id=%d rejected: %v", pack.ID, err)
		return err
	}

	session.PackID = &pack.ID
	return nil
}

// resolveSubscription проверяет абонемент и привязывает его к сессии
func (uc *UseCase) resolveSubscription(ctx context.Context, req *Request, session *domain.Session) error {
	sub, err := uc.subscriptionRepo.GetByID(ctx, *req.SourceID)
	if err != nil {
		if errors.Is(err, subscriptionsRepo.ErrSubscriptionNotFound) {
			uc.logger.Warn("CreateBooking: subscription id=%d not found", *req.SourceID)
			return ErrSubscriptionNotFound
		}
		uc.logger.Error("CreateBooking: failed to get subscription id=%d: %v", *req.SourceID, err)
		return fmt.Errorf("%w: failed to get subscription: %w", ErrInternal, err)
	}

	if err := validateSubscription(sub, req); err != nil {
		uc.logger.Warn("CreateBooking: subscription id=%d rejected: %v", sub.ID, err)
		return err
	}

	session.SubscriptionID = &sub.ID
	return nil
}

// confirmationMessage формирует подтверждение в зависимости от итогового статуса
func confirmationMessage(status domain.SessionStatus, startAt time.Time) string {
	when := startAt.Format("Mon, 02 Jan 2006 15:04")

	if status == domain.StatusPendingApproval {
		return fmt.Sprintf("Session requested for %s, awaiting trainer approval", when)
	}

	return fmt.Sprintf("Session booked for %s", when)
}
