package create_booking

import (
	"errors"
	"net/http"

	"github.com/m1shk4/PTS-BookingService/internal/api/handlers"
	"github.com/m1shk4/PTS-BookingService/internal/api/middleware"
	createBooking "github.com/m1shk4/PTS-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат startAt, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "можно бронировать только от своего имени"
	msgSlotConflict       = "выбранное время пересекается с другой сессией"
	msgPackNotFound       = "некорректный выбор: пакет не найден"
	msgPackNotUsable      = "пакет нельзя использовать для этой сессии"
	msgPackExhausted      = "в пакете не осталось сессий"
	msgSubNotFound        = "некорректный выбор: абонемент не найден"
	msgSubNotUsable       = "абонемент нельзя использовать для этой сессии"
	msgSessionInPast      = "нельзя забронировать сессию в прошлом"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Бронировать можно только от своего имени
	if callerID != req.ClientID {
		h.logger.Warn("POST /sessions - Caller=%d tried to book for client=%d", callerID, req.ClientID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /sessions - Failed to parse startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /sessions - Slot conflict: client=%d, trainer=%d", req.ClientID, req.TrainerID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createBooking.ErrPackExhausted):
			h.logger.Warn("POST /sessions - Pack exhausted: client=%d", req.ClientID)
			handlers.RespondConflict(w, msgPackExhausted)

		case errors.Is(err, createBooking.ErrPackNotFound):
			h.logger.Warn("POST /sessions - Pack not found: client=%d", req.ClientID)
			handlers.RespondNotFound(w, msgPackNotFound)

		case errors.Is(err, createBooking.ErrPackNotUsable):
			h.logger.Warn("POST /sessions - Pack not usable: client=%d", req.ClientID)
			handlers.RespondConflict(w, msgPackNotUsable)

		case errors.Is(err, createBooking.ErrSubscriptionNotFound):
			h.logger.Warn("POST /sessions - Subscription not found: client=%d", req.ClientID)
			handlers.RespondNotFound(w, msgSubNotFound)

		case errors.Is(err, createBooking.ErrSubscriptionNotUsable):
			h.logger.Warn("POST /sessions - Subscription not usable: client=%d", req.ClientID)
			handlers.RespondConflict(w, msgSubNotUsable)

		case errors.Is(err, createBooking.ErrSessionInPast):
			h.logger.Warn("POST /sessions - Session in past: client=%d", req.ClientID)
			handlers.RespondBadRequest(w, msgSessionInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /sessions - Failed to create session: client=%d, trainer=%d, error=%v",
				req.ClientID, req.TrainerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions - Session created: session_id=%d, client=%d, trainer=%d, status=%s",
		result.SessionID, req.ClientID, req.TrainerID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
