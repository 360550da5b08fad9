package list_entitlements

import (
	"context"
	"fmt"
)

// UseCase use case для получения доступных источников оплаты бронирования
type UseCase struct {
	packRepo         PackRepository
	subscriptionRepo SubscriptionRepository
	sessionRepo      SessionRepository
	creditRepo       CreditRepository
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	packRepo PackRepository,
	subscriptionRepo SubscriptionRepository,
	sessionRepo SessionRepository,
	creditRepo CreditRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		packRepo:         packRepo,
		subscriptionRepo: subscriptionRepo,
		sessionRepo:      sessionRepo,
		creditRepo:       creditRepo,
		logger:           logger,
	}
}

// Execute выполняет use case получения источников оплаты.
// Остаток пакета не берется из колонки sessions_remaining, а пересчитывается
// по фактическим сессиям: так календарь не предлагает пакет, который уже
// выбран незакоммиченными тратами.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListEntitlements: client=%d, trainer=%d, service=%d",
		req.ClientID, req.TrainerID, req.ServiceTypeID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListEntitlements: validation failed: %v", err)
		return nil, err
	}

	packs, err := uc.resolvePacks(ctx, req)
	if err != nil {
		return nil, err
	}

	subscriptions, err := uc.resolveSubscriptions(ctx, req)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ListEntitlements: client=%d has %d packs, %d subscriptions for service=%d",
		req.ClientID, len(packs), len(subscriptions), req.ServiceTypeID)

	return &Response{
		Packs:         packs,
		Subscriptions: subscriptions,
		OneOff:        true,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainerID must be positive", ErrInvalidInput)
	}

	if req.ServiceTypeID <= 0 {
		return fmt.Errorf("%w: serviceTypeID must be positive", ErrInvalidInput)
	}

	return nil
}

// resolvePacks отбирает активные пакеты по типу услуги с ненулевым остатком
func (uc *UseCase) resolvePacks(ctx context.Context, req *Request) ([]PackOption, error) {
	packs, err := uc.packRepo.GetActiveByClientAndTrainer(ctx, req.ClientID, req.TrainerID)
	if err != nil {
		uc.logger.Error("ListEntitlements: failed to get packs for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get packs: %w", ErrInternal, err)
	}

	options := make([]PackOption, 0)

	for _, pack := range packs {
		if pack.ServiceTypeID != req.ServiceTypeID {
			continue
		}

		consumed, err := uc.sessionRepo.CountConsumingPack(ctx, pack.ID)
		if err != nil {
			uc.logger.Error("ListEntitlements: failed to count sessions for pack id=%d: %v", pack.ID, err)
			return nil, fmt.Errorf("%w: failed to count pack sessions: %w", ErrInternal, err)
		}

		remaining := pack.TotalSessions - consumed
		if remaining <= 0 {
			continue
		}

		options = append(options, PackOption{
			PackID:            pack.ID,
			TotalSessions:     pack.TotalSessions,
			SessionsRemaining: remaining,
		})
	}

	return options, nil
}

// resolveSubscriptions отбирает активные абонементы с аллокацией на тип услуги
func (uc *UseCase) resolveSubscriptions(ctx context.Context, req *Request) ([]SubscriptionOption, error) {
	subs, err := uc.subscriptionRepo.GetActiveByClientAndTrainer(ctx, req.ClientID, req.TrainerID)
	if err != nil {
		uc.logger.Error("ListEntitlements: failed to get subscriptions for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get subscriptions: %w", ErrInternal, err)
	}

	options := make([]SubscriptionOption, 0)

	for _, sub := range subs {
		allocation := sub.AllocationForServiceType(req.ServiceTypeID)
		if allocation == nil {
			continue
		}

		// Недельная квота аллокации при бронировании не проверяется,
		// абонемент предлагается независимо от числа уже взятых сессий

		credits, err := uc.creditRepo.GetAvailableBySubscription(ctx, sub.ID)
		if err != nil {
			uc.logger.Error("ListEntitlements: failed to get credits for subscription id=%d: %v", sub.ID, err)
			return nil, fmt.Errorf("%w: failed to get credits: %w", ErrInternal, err)
		}

		options = append(options, SubscriptionOption{
			SubscriptionID:   sub.ID,
			PaymentFrequency: string(sub.PaymentFrequency),
			CostPerSession:   allocation.CostPerSession,
			AvailableCredits: len(credits),
		})
	}

	return options, nil
}
