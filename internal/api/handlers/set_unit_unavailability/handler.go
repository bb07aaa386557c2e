package set_unit_unavailability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/products"
)

const (
	msgInvalidUnitID      = "некорректный ID единицы инвентаря"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRange       = "дата 'from' позже даты 'to'"
	msgUnitNotFound       = "единица инвентаря не найдена"
)

type Handler struct {
	service StockUnitService
	logger  Logger
}

func NewHandler(service StockUnitService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/office/stock-units/{unitId}/unavailability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := handlers.PathInt64(r, "unitId")
	if err != nil {
		h.logger.Warn("PUT /office/stock-units/{id}/unavailability - Invalid unit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	var req SetUnavailabilityRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PUT /office/stock-units/{id}/unavailability - Invalid request body: %v", err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, handlers.CodeBadRequest,
			msgInvalidRequestBody, handlers.ValidationDetails(err))
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /office/stock-units/{id}/unavailability - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetUnitUnavailability(r.Context(), unitID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrStockUnitNotFound):
			h.logger.Warn("PUT /office/stock-units/{id}/unavailability - Not found: unit_id=%d", unitID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, products.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, products.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /office/stock-units/{id}/unavailability - Failed to update unit: unit_id=%d, error=%v",
				unitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /office/stock-units/{id}/unavailability - unit_id=%d updated", unitID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
