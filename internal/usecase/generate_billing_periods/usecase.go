package generate_billing_periods

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	billingRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/billingperiods"
)

// UseCase use case генерации биллинговых периодов.
// Вызывается внешним планировщиком, а не действием пользователя.
// Предполагается один активный запуск за раз: проверка дубликата
// по (subscription_id, period_start) плюс уникальный индекс в БД
// страхуют от пересекающихся запусков.
type UseCase struct {
	subscriptionRepo SubscriptionRepository
	periodRepo       BillingPeriodRepository
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	subscriptionRepo SubscriptionRepository,
	periodRepo BillingPeriodRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		subscriptionRepo: subscriptionRepo,
		periodRepo:       periodRepo,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет один тик генератора по всем активным абонементам.
// Ошибка одного абонемента не прерывает обработку остальных.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()
	horizon := now.AddDate(0, 0, domain.BillingHorizonDays)

	subs, err := uc.subscriptionRepo.GetAllActive(ctx)
	if err != nil {
		uc.logger.Error("GenerateBillingPeriods: failed to get active subscriptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get active subscriptions: %w", ErrInternal, err)
	}

	uc.logger.Info("GenerateBillingPeriods: processing %d active subscriptions", len(subs))

	resp := &Response{}

	for _, sub := range subs {
		resp.SubscriptionsProcessed++

		created, err := uc.processSubscription(ctx, sub, now, horizon)
		if err != nil {
			uc.logger.Error("GenerateBillingPeriods: subscription id=%d failed: %v", sub.ID, err)
			continue
		}

		if created {
			resp.PeriodsCreated++
		}
	}

	uc.logger.Info("GenerateBillingPeriods: processed=%d, created=%d",
		resp.SubscriptionsProcessed, resp.PeriodsCreated)

	return resp, nil
}

// processSubscription создает следующий период одного абонемента, если он нужен
func (uc *UseCase) processSubscription(
	ctx context.Context,
	sub *domain.ClientSubscription,
	now, horizon time.Time,
) (bool, error) {
	latest, err := uc.periodRepo.GetLatestBySubscription(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, billingRepo.ErrNoPeriods) {
			// Первый период заводится при оформлении абонемента, тик его не создает
			uc.logger.Info("GenerateBillingPeriods: subscription id=%d has no periods yet, skipping", sub.ID)
			return false, nil
		}
		return false, fmt.Errorf("failed to get latest period: %w", err)
	}

	nextStart := latest.PeriodEnd.AddDate(0, 0, 1)

	if nextStart.After(horizon) {
		return false, nil
	}

	nextEnd := nextStart.AddDate(0, 0, sub.PaymentFrequency.PeriodExtraDays())

	isFinal := false
	if sub.EndDate != nil {
		if nextStart.After(*sub.EndDate) {
			uc.logger.Info("GenerateBillingPeriods: subscription id=%d ended %s, skipping",
				sub.ID, sub.EndDate.Format(domain.DateFormat))
			return false, nil
		}

		// Конец абонемента попадает в период: укорачиваем и помечаем финальным
		if !sub.EndDate.After(nextEnd) {
			nextEnd = *sub.EndDate
			isFinal = true
		}
	}

	exists, err := uc.periodRepo.ExistsByStart(ctx, sub.ID, nextStart)
	if err != nil {
		return false, fmt.Errorf("failed to check existing period: %w", err)
	}
	if exists {
		return false, nil
	}

	period := &domain.SubscriptionBillingPeriod{
		SubscriptionID: sub.ID,
		PeriodStart:    nextStart,
		PeriodEnd:      nextEnd,
		AmountDue:      sub.BillingAmount,
		Status:         domain.BillingPeriodStatusDue,
		IsFinal:        isFinal,
	}

	if _, err := uc.periodRepo.Create(ctx, period); err != nil {
		if errors.Is(err, billingRepo.ErrDuplicatePeriod) {
			// Параллельный запуск успел первым
			uc.logger.Warn("GenerateBillingPeriods: period %s for subscription id=%d already created concurrently",
				nextStart.Format(domain.DateFormat), sub.ID)
			return false, nil
		}
		return false, fmt.Errorf("failed to create period: %w", err)
	}

	uc.logger.Info("GenerateBillingPeriods: created period id=%d [%s..%s] for subscription id=%d, final=%t",
		period.ID, nextStart.Format(domain.DateFormat), nextEnd.Format(domain.DateFormat), sub.ID, isFinal)

	return true, nil
}
