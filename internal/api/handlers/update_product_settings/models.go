package update_product_settings

import (
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

// UpdateSettingsRequest HTTP request model. Поля заменяются целиком.
type UpdateSettingsRequest struct {
	BufferBeforeDays        *int                 `json:"bufferBeforeDays" validate:"omitempty,gte=0,lte=60"`
	BufferAfterDays         *int                 `json:"bufferAfterDays" validate:"omitempty,gte=0,lte=60"`
	AutoIncrementMultiplier *float64             `json:"autoIncrementMultiplier" validate:"omitempty,gte=0,lte=9999.9999"`
	PricingTiers            []PricingTierRequest `json:"pricingTiers" validate:"max=50,dive"`
}

// PricingTierRequest ценовая ступень
type PricingTierRequest struct {
	Days       int     `json:"days" validate:"gte=1,lte=3650"`
	Multiplier float64 `json:"multiplier" validate:"gte=0,lte=9999.9999"`
	Label      string  `json:"label" validate:"max=100"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest() *models.UpdateSettingsRequest {
	tiers := make([]models.PricingTierRequest, 0, len(r.PricingTiers))
	for _, t := range r.PricingTiers {
		tiers = append(tiers, models.PricingTierRequest{
			Days:       t.Days,
			Multiplier: t.Multiplier,
			Label:      t.Label,
		})
	}

	return &models.UpdateSettingsRequest{
		BufferBeforeDays:        r.BufferBeforeDays,
		BufferAfterDays:         r.BufferAfterDays,
		AutoIncrementMultiplier: r.AutoIncrementMultiplier,
		PricingTiers:            tiers,
	}
}
