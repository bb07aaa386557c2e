package price_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	calculatePrice "github.com/m04kA/SMC-RentalService/internal/usecase/calculate_price"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "дата начала позже даты окончания"
	msgInvalidInput       = "невозможно рассчитать цену для указанных параметров"
	msgProductNotFound    = "продукт не найден"
)

type Handler struct {
	useCase CalculatePriceUseCase
	logger  Logger
}

func NewHandler(useCase CalculatePriceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/price-quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PriceQuoteRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /price-quote - Invalid request body: %v", err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, handlers.CodeBadRequest,
			msgInvalidRequestBody, handlers.ValidationDetails(err))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /price-quote - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, calculatePrice.ErrProductNotFound):
			h.logger.Warn("POST /price-quote - Product not found: product_id=%d", req.ProductID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, calculatePrice.ErrInvalidRange):
			h.logger.Warn("POST /price-quote - Invalid range: %s..%s", req.StartDate, req.EndDate)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, calculatePrice.ErrInvalidInput):
			h.logger.Warn("POST /price-quote - Invalid input: product_id=%d, error=%v", req.ProductID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /price-quote - Failed to calculate price: product_id=%d, error=%v",
				req.ProductID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /price-quote - product_id=%d, days=%d, total=%d",
		req.ProductID, result.Days, result.TotalCents)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
