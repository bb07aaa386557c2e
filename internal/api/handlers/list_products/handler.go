package list_products

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/handlers/get_product"
	"github.com/m04kA/SMC-RentalService/internal/service/products"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
	msgInvalidRange  = "дата начала позже даты окончания"
)

type Handler struct {
	service ProductService
	logger  Logger
}

func NewHandler(service ProductService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/office/products
// Query params: activeOnly, startDate, endDate, bufferDays (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	window, err := get_product.ParseWindow(query)
	if err != nil {
		h.logger.Warn("GET /office/products - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	req := &models.ListProductsRequest{AvailabilityWindow: *window}
	if raw := query.Get("activeOnly"); raw != "" {
		activeOnly, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /office/products - Invalid activeOnly=%q", raw)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.ActiveOnly = activeOnly
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, products.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /office/products - Failed to list products: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
