package create_booking

import (
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/domain"
	createBooking "github.com/m1shk4/PTS-BookingService/internal/usecase/create_booking"
)

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	ClientID      int64   `json:"clientId"`
	TrainerID     int64   `json:"trainerId"`
	ServiceTypeID int64   `json:"serviceTypeId"`
	StartAt       string  `json:"startAt"`        // RFC3339 instant
	BookingMethod string  `json:"bookingMethod"`  // pack / subscription / one_off
	SourceID      *int64  `json:"sourceId,omitempty"` // ID пакета или абонемента
	Notes         *string `json:"notes,omitempty"`
}

// SessionCreatedResponse HTTP response model
type SessionCreatedResponse struct {
	SessionID int64  `json:"sessionId"`
	Status    string `json:"status"`
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
	Message   string `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSessionRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:      r.ClientID,
		TrainerID:     r.TrainerID,
		ServiceTypeID: r.ServiceTypeID,
		StartAt:       startAt,
		Method:        domain.BookingMethod(r.BookingMethod),
		SourceID:      r.SourceID,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *SessionCreatedResponse {
	return &SessionCreatedResponse{
		SessionID: resp.SessionID,
		Status:    resp.Status,
		StartAt:   resp.StartAt.Format(time.RFC3339),
		EndAt:     resp.EndAt.Format(time.RFC3339),
		Message:   resp.Message,
	}
}
