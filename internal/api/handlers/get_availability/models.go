package get_availability

import (
	"time"

	resolveAvailability "github.com/m1shk4/PTS-BookingService/internal/usecase/resolve_availability"
)

// FreeIntervalResponse один свободный интервал
type FreeIntervalResponse struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`   // RFC3339
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	TrainerID int64                  `json:"trainerId"`
	Intervals []FreeIntervalResponse `json:"intervals"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveAvailability.Response) *AvailabilityResponse {
	intervals := make([]FreeIntervalResponse, 0, len(resp.Intervals))
	for _, interval := range resp.Intervals {
		intervals = append(intervals, FreeIntervalResponse{
			Start: interval.Start.Format(time.RFC3339),
			End:   interval.End.Format(time.RFC3339),
		})
	}

	return &AvailabilityResponse{
		TrainerID: resp.TrainerID,
		Intervals: intervals,
	}
}
