package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-RentalService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "дата начала позже даты окончания"
	msgInvalidInput       = "некорректные данные заказа"
	msgProductNotFound    = "продукт не найден"
	msgProductInactive    = "продукт недоступен для заказа"
	msgUnavailable        = "на выбранные даты нет свободных единиц"
	msgConcurrent         = "единица была только что занята другим заказом, повторите попытку"
	msgPaymentFailed      = "платежный сервис недоступен, попробуйте позже"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleCheckout POST /api/v1/checkout
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /checkout", createReservation.ChannelCheckout, nil)
}

// HandleOffice POST /api/v1/office/reservations
func (h *Handler) HandleOffice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /office/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	h.handle(w, r, "POST /office/reservations", createReservation.ChannelOffice, &userID)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, channel createReservation.Channel, createdBy *int64) {
	var req CreateReservationRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, handlers.CodeBadRequest,
			msgInvalidRequestBody, handlers.ValidationDetails(err))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(channel, createdBy)
	if err != nil {
		h.logger.Warn("%s - Failed to parse dates: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var unavailable *createReservation.UnavailableError

		switch {
		case errors.As(err, &unavailable):
			h.logger.Warn("%s - No free unit: product_id=%d, dates=%s..%s", route, req.ProductID, req.StartDate, req.EndDate)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, handlers.CodeUnavailable,
				msgUnavailable, unavailableDetails(unavailable))

		case errors.Is(err, createReservation.ErrConcurrentReservation):
			h.logger.Warn("%s - Concurrent reservation: product_id=%d", route, req.ProductID)
			handlers.RespondConflict(w, msgConcurrent)

		case errors.Is(err, createReservation.ErrProductNotFound):
			h.logger.Warn("%s - Product not found: product_id=%d", route, req.ProductID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, createReservation.ErrProductInactive):
			h.logger.Warn("%s - Product inactive: product_id=%d", route, req.ProductID)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, handlers.CodeUnavailable, msgProductInactive, nil)

		case errors.Is(err, createReservation.ErrInvalidRange):
			h.logger.Warn("%s - Invalid range: %s..%s", route, req.StartDate, req.EndDate)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrPaymentFailed):
			h.logger.Error("%s - Payment provider failure: product_id=%d, error=%v", route, req.ProductID, err)
			handlers.RespondBadGateway(w, msgPaymentFailed)

		default:
			h.logger.Error("%s - Failed to create reservation: product_id=%d, error=%v", route, req.ProductID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Reservation created: reservation_id=%d, unit_id=%d, status=%s",
		route, result.ReservationID, result.StockUnitID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
