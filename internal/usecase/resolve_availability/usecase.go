package resolve_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

// UseCase use case расчета свободных интервалов тренера.
// Чистая функция над шаблонами, исключениями и занятыми сессиями:
// ничего не пишет, вызывается календарем до оформления бронирования.
type UseCase struct {
	availabilityRepo AvailabilityRepository
	sessionRepo      SessionRepository
	location         *time.Location
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	sessionRepo SessionRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		sessionRepo:      sessionRepo,
		location:         location,
		logger:           logger,
	}
}

// Execute выполняет расчет свободных интервалов в окне [WindowStart, WindowEnd)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveAvailability: trainer=%d, window=%s..%s",
		req.TrainerID, req.WindowStart.Format(time.RFC3339), req.WindowEnd.Format(time.RFC3339))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveAvailability: validation failed: %v", err)
		return nil, err
	}

	templates, err := uc.availabilityRepo.GetTemplatesByTrainer(ctx, req.TrainerID)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get templates for trainer=%d: %v", req.TrainerID, err)
		return nil, fmt.Errorf("%w: failed to get templates: %w", ErrInternal, err)
	}

	// Исключения выбираются по датам, границы окна расширяем до целых дней
	firstDay := dayStart(req.WindowStart, uc.location)
	lastDay := dayStart(req.WindowEnd, uc.location)

	exceptions, err := uc.availabilityRepo.GetExceptionsByTrainerAndRange(ctx, req.TrainerID, asUTCDate(firstDay), asUTCDate(lastDay))
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get exceptions for trainer=%d: %v", req.TrainerID, err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %w", ErrInternal, err)
	}

	// Сессии берем с запасом в сутки с обеих сторон, чтобы не потерять
	// сессии, пересекающие границы окна
	sessions, err := uc.sessionRepo.GetByTrainerAndRange(
		ctx,
		req.TrainerID,
		firstDay.AddDate(0, 0, -1),
		lastDay.AddDate(0, 0, 2),
		false,
	)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to get sessions for trainer=%d: %v", req.TrainerID, err)
		return nil, fmt.Errorf("%w: failed to get sessions: %w", ErrInternal, err)
	}

	intervals := make([]domain.TimeRange, 0)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		dayExcs := exceptionsForDay(exceptions, day)
		daySessions := sessionsForDay(sessions, day, uc.location)

		dayRanges, err := resolveDay(day, templates, dayExcs, daySessions, uc.location)
		if err != nil {
			uc.logger.Error("ResolveAvailability: failed to resolve day %s for trainer=%d: %v",
				day.Format(domain.DateFormat), req.TrainerID, err)
			return nil, fmt.Errorf("%w: failed to resolve day: %w", ErrInternal, err)
		}

		// Дни идут по возрастанию, внутри дня интервалы уже отсортированы
		intervals = append(intervals, dayRanges...)
	}

	uc.logger.Info("ResolveAvailability: resolved %d free intervals for trainer=%d", len(intervals), req.TrainerID)

	return &Response{
		TrainerID: req.TrainerID,
		Intervals: intervals,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainerID must be positive", ErrInvalidInput)
	}

	if req.WindowStart.IsZero() || req.WindowEnd.IsZero() {
		return fmt.Errorf("%w: window bounds are required", ErrInvalidInput)
	}

	if !req.WindowEnd.After(req.WindowStart) {
		return fmt.Errorf("%w: windowEnd must be after windowStart", ErrInvalidInput)
	}

	if req.WindowEnd.Sub(req.WindowStart) > domain.MaxAvailabilityWindowDays*24*time.Hour {
		return fmt.Errorf("%w: window must not exceed %d days", ErrWindowTooLarge, domain.MaxAvailabilityWindowDays)
	}

	return nil
}

// exceptionsForDay отбирает исключения конкретного дня, сохраняя порядок
// их создания
func exceptionsForDay(excs []*domain.AvailabilityException, day time.Time) []*domain.AvailabilityException {
	result := make([]*domain.AvailabilityException, 0)
	for _, exc := range excs {
		if sameCalendarDate(exc.Date, day) {
			result = append(result, exc)
		}
	}
	return result
}

// sessionsForDay отбирает сессии, начинающиеся в конкретный день
func sessionsForDay(sessions []*domain.Session, day time.Time, loc *time.Location) []*domain.Session {
	result := make([]*domain.Session, 0)
	for _, s := range sessions {
		if sameDay(s.StartAt, day, loc) {
			result = append(result, s)
		}
	}
	return result
}
