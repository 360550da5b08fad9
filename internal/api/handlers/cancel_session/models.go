package cancel_session

import (
	cancelSession "github.com/m1shk4/PTS-BookingService/internal/usecase/cancel_session"
)

// CancelSessionRequest HTTP request model
type CancelSessionRequest struct {
	Penalize bool `json:"penalize"`
}

// CancelSessionResponse HTTP response model
type CancelSessionResponse struct {
	SessionID    int64   `json:"sessionId"`
	Status       string  `json:"status"`
	IsLate       bool    `json:"isLate"`
	Penalized    bool    `json:"penalized"`
	CreditMinted bool    `json:"creditMinted"`
	CreditValue  float64 `json:"creditValue,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelSession.Response) *CancelSessionResponse {
	return &CancelSessionResponse{
		SessionID:    resp.SessionID,
		Status:       resp.Status,
		IsLate:       resp.IsLate,
		Penalized:    resp.Penalized,
		CreditMinted: resp.CreditMinted,
		CreditValue:  resp.CreditValue,
	}
}
