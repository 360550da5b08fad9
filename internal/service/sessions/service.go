package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	sessionRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/sessions"
	"github.com/m1shk4/PTS-BookingService/internal/service/sessions/models"
)

// Service сервис для просмотра и корректировки сессий
type Service struct {
	sessionRepo SessionRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	sessionRepo SessionRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает сессию по ID
// Проверяет права доступа - сессию видят только ее клиент и ее тренер
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64) (*models.SessionResponse, error) {
	s.logger.Info("GetByID: fetching session id=%d for caller=%d", id, callerID)

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("GetByID: session id=%d not found", id)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("GetByID: repository error for session id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if session.ClientID != callerID && session.TrainerID != callerID {
		s.logger.Warn("GetByID: access denied for caller=%d to session id=%d", callerID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainSession(session), nil
}

// GetClientSessions получает историю сессий клиента
// Доступно только самому клиенту; опционально фильтрует по статусу
func (s *Service) GetClientSessions(ctx context.Context, req *models.GetClientSessionsRequest) (*models.SessionListResponse, error) {
	s.logger.Info("GetClientSessions: fetching sessions for client=%d, caller=%d, status=%v",
		req.ClientID, req.CallerID, req.Status)

	if req.CallerID != req.ClientID {
		s.logger.Warn("GetClientSessions: access denied for caller=%d to client=%d history", req.CallerID, req.ClientID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.SessionStatus
	if req.Status != nil {
		status, err := models.ToDomainSessionStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientSessions: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	list, err := s.sessionRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientSessions: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientSessions - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetClientSessions: fetched %d sessions for client=%d", len(list), req.ClientID)
	return models.FromDomainSessionList(list), nil
}

// GetTrainerSessions получает расписание тренера за период
// Доступно только самому тренеру
func (s *Service) GetTrainerSessions(ctx context.Context, req *models.GetTrainerSessionsRequest) (*models.SessionListResponse, error) {
	s.logger.Info("GetTrainerSessions: fetching sessions for trainer=%d, caller=%d, period=%s..%s",
		req.TrainerID, req.CallerID, req.Start.Format(domain.DateFormat), req.End.Format(domain.DateFormat))

	if req.CallerID != req.TrainerID {
		s.logger.Warn("GetTrainerSessions: access denied for caller=%d to trainer=%d schedule", req.CallerID, req.TrainerID)
		return nil, ErrAccessDenied
	}

	if req.Start.IsZero() || req.End.IsZero() || !req.End.After(req.Start) {
		s.logger.Warn("GetTrainerSessions: invalid period for trainer=%d", req.TrainerID)
		return nil, fmt.Errorf("%w: invalid period", ErrInvalidInput)
	}

	list, err := s.sessionRepo.GetByTrainerAndRange(ctx, req.TrainerID, req.Start, req.End, req.IncludeInactive)
	if err != nil {
		s.logger.Error("GetTrainerSessions: repository error for trainer=%d: %v", req.TrainerID, err)
		return nil, fmt.Errorf("%w: GetTrainerSessions - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetTrainerSessions: fetched %d sessions for trainer=%d", len(list), req.TrainerID)
	return models.FromDomainSessionList(list), nil
}

// UpdateStatus переводит сессию в новый статус
// Доступно только тренеру сессии. Статусы write-once-terminal: из
// завершенных и отмененных состояний возврата нет. Запрос со статусом
// scheduled и новым startAt для уже запланированной сессии - перенос:
// статус не меняется, меняется только время. Подтверждение pending-сессии
// или перенос заново проверяют пересечения.
func (s *Service) UpdateStatus(ctx context.Context, sessionID int64, req *models.UpdateStatusRequest) (*models.SessionResponse, error) {
	s.logger.Info("UpdateStatus: session id=%d to status=%s by caller=%d", sessionID, req.Status, req.CallerID)

	newStatus, err := models.ToDomainSessionStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for session id=%d", req.Status, sessionID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Session

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		session, err := s.sessionRepo.GetByID(txCtx, sessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				s.logger.Warn("UpdateStatus: session id=%d not found", sessionID)
				return ErrSessionNotFound
			}
			s.logger.Error("UpdateStatus: repository error for session id=%d: %v", sessionID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		if session.TrainerID != req.CallerID {
			s.logger.Warn("UpdateStatus: access denied for caller=%d to session id=%d", req.CallerID, sessionID)
			return ErrAccessDenied
		}

		// Перенос: scheduled -> scheduled с новым временем, статус остается
		reschedule := session.Status == domain.StatusScheduled &&
			newStatus == domain.StatusScheduled &&
			req.StartAt != nil && !req.StartAt.Equal(session.StartAt)

		if !reschedule && !session.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s rejected for session id=%d",
				session.Status, newStatus, sessionID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, newStatus)
		}

		startAt := session.StartAt
		if req.StartAt != nil && !req.StartAt.Equal(session.StartAt) {
			if newStatus != domain.StatusScheduled {
				s.logger.Warn("UpdateStatus: startAt change allowed only with scheduled, session id=%d", sessionID)
				return fmt.Errorf("%w: startAt can only change when scheduling", ErrInvalidInput)
			}
			startAt = *req.StartAt
		}

		// Сессия занимает слот в расписании: проверяем пересечения заново
		if newStatus == domain.StatusScheduled {
			end := startAt.Add(time.Duration(session.DurationMinutes) * time.Minute)
			overlapping, err := s.sessionRepo.CountOverlapping(txCtx, session.TrainerID, startAt, end, &session.ID)
			if err != nil {
				s.logger.Error("UpdateStatus: failed to count overlapping for session id=%d: %v", sessionID, err)
				return fmt.Errorf("%w: UpdateStatus - failed to count overlapping: %w", ErrInternal, err)
			}
			if overlapping > 0 {
				s.logger.Warn("UpdateStatus: session id=%d conflicts with %d sessions at %s",
					sessionID, overlapping, startAt.Format(time.RFC3339))
				return ErrSlotConflict
			}
		}

		if !startAt.Equal(session.StartAt) {
			if err := s.sessionRepo.UpdateSchedule(txCtx, sessionID, startAt); err != nil {
				// Конкурирующий перенос мог занять слот между проверкой
				// пересечений и UPDATE: уникальный индекс ловит это
				if errors.Is(err, sessionRepo.ErrSlotTaken) {
					s.logger.Warn("UpdateStatus: slot at %s already taken for session id=%d",
						startAt.Format(time.RFC3339), sessionID)
					return ErrSlotConflict
				}
				s.logger.Error("UpdateStatus: failed to reschedule session id=%d: %v", sessionID, err)
				return fmt.Errorf("%w: UpdateStatus - failed to reschedule: %w", ErrInternal, err)
			}
		}

		if err := s.sessionRepo.UpdateStatus(txCtx, sessionID, newStatus); err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			s.logger.Error("UpdateStatus: failed to update status for session id=%d: %v", sessionID, err)
			return fmt.Errorf("%w: UpdateStatus - failed to update status: %w", ErrInternal, err)
		}

		session.Status = newStatus
		session.StartAt = startAt
		updated = session
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: session id=%d updated to status=%s", sessionID, updated.Status)
	return models.FromDomainSession(updated), nil
}
