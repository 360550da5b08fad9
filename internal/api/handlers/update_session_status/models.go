package update_session_status

import (
	"time"

	"github.com/m1shk4/PTS-BookingService/internal/service/sessions/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status  string  `json:"status"`
	StartAt *string `json:"startAt,omitempty"` // RFC3339, только при переносе
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(callerID int64) (*models.UpdateStatusRequest, error) {
	req := &models.UpdateStatusRequest{
		CallerID: callerID,
		Status:   r.Status,
	}

	if r.StartAt != nil {
		startAt, err := time.Parse(time.RFC3339, *r.StartAt)
		if err != nil {
			return nil, err
		}
		req.StartAt = &startAt
	}

	return req, nil
}
