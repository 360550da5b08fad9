package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m1shk4/PTS-BookingService/internal/api/handlers"
	resolveAvailability "github.com/m1shk4/PTS-BookingService/internal/usecase/resolve_availability"
)

const (
	msgInvalidTrainerID = "некорректный ID тренера"
	msgInvalidWindow    = "некорректные параметры start/end, ожидается RFC3339"
	msgWindowTooLarge   = "запрошенное окно слишком велико"
)

type Handler struct {
	useCase ResolveAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/trainers/{trainerId}/availability?start=...&end=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	trainerID, err := strconv.ParseInt(vars["trainerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/availability - Invalid trainer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainerID)
		return
	}

	query := r.URL.Query()

	windowStart, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/availability - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	windowEnd, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/availability - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &resolveAvailability.Request{
		TrainerID:   trainerID,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	})
	if err != nil {
		switch {
		case errors.Is(err, resolveAvailability.ErrWindowTooLarge):
			h.logger.Warn("GET /trainers/{id}/availability - Window too large: trainer=%d", trainerID)
			handlers.RespondBadRequest(w, msgWindowTooLarge)

		case errors.Is(err, resolveAvailability.ErrInvalidInput):
			h.logger.Warn("GET /trainers/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /trainers/{id}/availability - Failed: trainer=%d, error=%v", trainerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /trainers/{id}/availability - Resolved %d intervals for trainer=%d",
		len(result.Intervals), trainerID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
