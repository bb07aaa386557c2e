package confirm_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование для платежной сессии не найдено"
	msgInvalidTransition  = "бронирование нельзя перевести в статус paid"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /payments/confirm - Invalid request body: %v", err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, handlers.CodeBadRequest,
			msgInvalidRequestBody, handlers.ValidationDetails(err))
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /payments/confirm - Unknown session: session_id=%s", req.SessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrInvalidTransition):
			h.logger.Error("POST /payments/confirm - Cannot confirm: session_id=%s, error=%v", req.SessionID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/confirm - Failed to confirm payment: session_id=%s, error=%v",
				req.SessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/confirm - Reservation paid: reservation_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
