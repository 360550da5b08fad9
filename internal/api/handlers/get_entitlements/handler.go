package get_entitlements

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m1shk4/PTS-BookingService/internal/api/handlers"
	"github.com/m1shk4/PTS-BookingService/internal/api/middleware"
	listEntitlements "github.com/m1shk4/PTS-BookingService/internal/usecase/list_entitlements"
)

const (
	msgInvalidClientID    = "некорректный ID клиента"
	msgInvalidQueryParams = "некорректные параметры trainerId/serviceTypeId"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	useCase ListEntitlementsUseCase
	logger  Logger
}

func NewHandler(useCase ListEntitlementsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients/{clientId}/entitlements?trainerId=...&serviceTypeId=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID, err := strconv.ParseInt(vars["clientId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clients/{id}/entitlements - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /clients/{id}/entitlements - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()

	trainerID, err := strconv.ParseInt(query.Get("trainerId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /clients/{id}/entitlements - Invalid trainerId: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQueryParams)
		return
	}

	serviceTypeID, err := strconv.ParseInt(query.Get("serviceTypeId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /clients/{id}/entitlements - Invalid serviceTypeId: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQueryParams)
		return
	}

	// Способы оплаты видят сам клиент и тренер, у которого идет бронирование
	if callerID != clientID && callerID != trainerID {
		h.logger.Warn("GET /clients/{id}/entitlements - Access denied: caller=%d, client=%d", callerID, clientID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &listEntitlements.Request{
		ClientID:      clientID,
		TrainerID:     trainerID,
		ServiceTypeID: serviceTypeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, listEntitlements.ErrInvalidInput):
			h.logger.Warn("GET /clients/{id}/entitlements - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /clients/{id}/entitlements - Failed: client=%d, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clients/{id}/entitlements - Resolved %d packs, %d subscriptions for client=%d",
		len(result.Packs), len(result.Subscriptions), clientID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
