package models

import (
	"errors"
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid session status")
)

// Request модели

// GetClientSessionsRequest запрос на историю сессий клиента
type GetClientSessionsRequest struct {
	ClientID int64   `json:"clientId"`
	CallerID int64   `json:"callerId"`
	Status   *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// GetTrainerSessionsRequest запрос на расписание тренера
type GetTrainerSessionsRequest struct {
	TrainerID       int64     `json:"trainerId"`
	CallerID        int64     `json:"callerId"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	IncludeInactive bool      `json:"includeInactive,omitempty"` // Включить отмененные сессии
}

// UpdateStatusRequest запрос на смену статуса сессии тренером.
// StartAt задается только при возврате pending-сессии в расписание
// на другое время.
type UpdateStatusRequest struct {
	CallerID int64      `json:"callerId"`
	Status   string     `json:"status"`
	StartAt  *time.Time `json:"startAt,omitempty"`
}

// Response модели

// SessionResponse ответ с данными сессии
type SessionResponse struct {
	ID                 int64     `json:"id"`
	TrainerID          int64     `json:"trainerId"`
	ClientID           int64     `json:"clientId"`
	ServiceTypeID      int64     `json:"serviceTypeId"`
	StartAt            time.Time `json:"startAt"`
	EndAt              time.Time `json:"endAt"`
	DurationMinutes    int       `json:"durationMinutes"`
	Status             string    `json:"status"`
	PackID             *int64    `json:"packId,omitempty"`
	SubscriptionID     *int64    `json:"subscriptionId,omitempty"`
	IsFromCredit       bool      `json:"isFromCredit"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// SessionListResponse ответ со списком сессий
type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int                `json:"total"`
}

// FromDomainSession конвертирует domain модель в response
func FromDomainSession(s *domain.Session) *SessionResponse {
	return &SessionResponse{
		ID:                 s.ID,
		TrainerID:          s.TrainerID,
		ClientID:           s.ClientID,
		ServiceTypeID:      s.ServiceTypeID,
		StartAt:            s.StartAt,
		EndAt:              s.EndAt(),
		DurationMinutes:    s.DurationMinutes,
		Status:             string(s.Status),
		PackID:             s.PackID,
		SubscriptionID:     s.SubscriptionID,
		IsFromCredit:       s.IsFromCredit,
		CancellationReason: s.CancellationReason,
		Notes:              s.Notes,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// FromDomainSessionList конвертирует список domain моделей в response
func FromDomainSessionList(sessions []*domain.Session) *SessionListResponse {
	result := make([]*SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, FromDomainSession(s))
	}
	return &SessionListResponse{
		Sessions: result,
		Total:    len(result),
	}
}

// ToDomainSessionStatus конвертирует строку в domain статус
func ToDomainSessionStatus(status string) (domain.SessionStatus, error) {
	st := domain.SessionStatus(status)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}
