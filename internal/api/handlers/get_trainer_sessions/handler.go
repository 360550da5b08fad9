package get_trainer_sessions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m1shk4/PTS-BookingService/internal/api/handlers"
	"github.com/m1shk4/PTS-BookingService/internal/api/middleware"
	"github.com/m1shk4/PTS-BookingService/internal/service/sessions"
	"github.com/m1shk4/PTS-BookingService/internal/service/sessions/models"
)

const (
	msgInvalidTrainerID = "некорректный ID тренера"
	msgInvalidPeriod    = "некорректные параметры start/end, ожидается RFC3339"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/trainers/{trainerId}/sessions?start=...&end=...&includeInactive=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	trainerID, err := strconv.ParseInt(vars["trainerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/sessions - Invalid trainer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTrainerID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /trainers/{id}/sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/sessions - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.logger.Warn("GET /trainers/{id}/sessions - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	includeInactive, _ := strconv.ParseBool(query.Get("includeInactive"))

	result, err := h.service.GetTrainerSessions(r.Context(), &models.GetTrainerSessionsRequest{
		TrainerID:       trainerID,
		CallerID:        callerID,
		Start:           start,
		End:             end,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrAccessDenied):
			h.logger.Warn("GET /trainers/{id}/sessions - Access denied: caller=%d, trainer=%d", callerID, trainerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, sessions.ErrInvalidInput):
			h.logger.Warn("GET /trainers/{id}/sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /trainers/{id}/sessions - Failed: trainer=%d, error=%v", trainerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /trainers/{id}/sessions - Retrieved %d sessions for trainer=%d", result.Total, trainerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
