package cancel_session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m1shk4/PTS-BookingService/internal/api/handlers"
	"github.com/m1shk4/PTS-BookingService/internal/api/middleware"
	cancelSession "github.com/m1shk4/PTS-BookingService/internal/usecase/cancel_session"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "сессия не найдена"
	msgForbidden          = "доступ запрещен"
	msgNotCancellable     = "сессию уже нельзя отменить"
)

type Handler struct {
	useCase CancelSessionUseCase
	logger  Logger
}

func NewHandler(useCase CancelSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, err := strconv.ParseInt(vars["sessionId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/cancel - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelSession.Request{
		SessionID: sessionID,
		CallerID:  callerID,
		Penalize:  req.Penalize,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelSession.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/cancel - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelSession.ErrForbidden):
			h.logger.Warn("POST /sessions/{id}/cancel - Access denied: session_id=%d, caller=%d", sessionID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelSession.ErrNotCancellable):
			h.logger.Warn("POST /sessions/{id}/cancel - Not cancellable: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgNotCancellable)

		case errors.Is(err, cancelSession.ErrInvalidInput):
			h.logger.Warn("POST /sessions/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /sessions/{id}/cancel - Failed: session_id=%d, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/cancel - Session cancelled: session_id=%d, status=%s, penalized=%t",
		result.SessionID, result.Status, result.Penalized)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
