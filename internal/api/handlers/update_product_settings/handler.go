package update_product_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/products"
)

const (
	msgInvalidProductID   = "некорректный ID продукта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSettings    = "некорректные настройки продукта"
	msgProductNotFound    = "продукт не найден"
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

// Handle PUT /api/v1/office/products/{productId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	productID, err := handlers.PathInt64(r, "productId")
	if err != nil {
		h.logger.Warn("PUT /office/products/{id}/settings - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PUT /office/products/{id}/settings - Invalid request body: %v", err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, handlers.CodeBadRequest,
			msgInvalidRequestBody, handlers.ValidationDetails(err))
		return
	}

	result, err := h.service.UpdateSettings(r.Context(), productID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, products.ErrProductNotFound):
			h.logger.Warn("PUT /office/products/{id}/settings - Not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, products.ErrInvalidInput):
			h.logger.Warn("PUT /office/products/{id}/settings - Invalid settings: %v", err)
			handlers.RespondErrorWithDetails(w, http.StatusBadRequest, handlers.CodeBadRequest,
				msgInvalidSettings, map[string]string{"reason": err.Error()})

		default:
			h.logger.Error("PUT /office/products/{id}/settings - Failed to update settings: product_id=%d, error=%v",
				productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /office/products/{id}/settings - Settings updated: product_id=%d, tiers=%d",
		productID, len(result.PricingTiers))
	handlers.RespondJSON(w, http.StatusOK, result)
}
