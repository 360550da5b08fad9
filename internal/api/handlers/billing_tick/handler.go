package billing_tick

import (
	"net/http"

	"github.com/m1shk4/PTS-BookingService/internal/api/handlers"
)

// TickResponse HTTP response model
type TickResponse struct {
	SubscriptionsProcessed int `json:"subscriptionsProcessed"`
	PeriodsCreated         int `json:"periodsCreated"`
}

type Handler struct {
	useCase GenerateBillingPeriodsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateBillingPeriodsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/v1/billing/tick
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/billing/tick - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/billing/tick - Processed %d subscriptions, created %d periods",
		result.SubscriptionsProcessed, result.PeriodsCreated)
	handlers.RespondJSON(w, http.StatusOK, &TickResponse{
		SubscriptionsProcessed: result.SubscriptionsProcessed,
		PeriodsCreated:         result.PeriodsCreated,
	})
}
