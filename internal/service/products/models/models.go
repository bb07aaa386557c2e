package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/pkg/money"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request модели

// AvailabilityWindow период, для которого единицам выставляется статус занятости.
// Либо обе даты заданы, либо ни одной.
type AvailabilityWindow struct {
	StartDate  *types.Date `json:"startDate,omitempty"`
	EndDate    *types.Date `json:"endDate,omitempty"`
	BufferDays *int        `json:"bufferDays,omitempty"`
}

// IsSet возвращает true, если задан хотя бы один край периода
func (w *AvailabilityWindow) IsSet() bool {
	return w != nil && (w.StartDate != nil || w.EndDate != nil)
}

// ListProductsRequest запрос списка продуктов
type ListProductsRequest struct {
	ActiveOnly bool `json:"activeOnly"`
	AvailabilityWindow
}

// PricingTierRequest ценовая ступень в настройках продукта
type PricingTierRequest struct {
	Days       int     `json:"days"`
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

// UpdateSettingsRequest полная замена настроек продукта.
// nil у буфера или auto-increment означает "не задано" (действует значение по умолчанию),
// пустой список ступеней переводит продукт на линейную цену.
type UpdateSettingsRequest struct {
	BufferBeforeDays        *int                 `json:"bufferBeforeDays"`
	BufferAfterDays         *int                 `json:"bufferAfterDays"`
	AutoIncrementMultiplier *float64             `json:"autoIncrementMultiplier"`
	PricingTiers            []PricingTierRequest `json:"pricingTiers"`
}

// ToDomainTiers конвертирует ступени в domain модель
func (r *UpdateSettingsRequest) ToDomainTiers(productID int64) []domain.PricingTier {
	tiers := make([]domain.PricingTier, 0, len(r.PricingTiers))
	for _, t := range r.PricingTiers {
		tiers = append(tiers, domain.PricingTier{
			ProductID:  productID,
			Days:       t.Days,
			Multiplier: t.Multiplier,
			Label:      t.Label,
		})
	}
	return tiers
}

// SetUnavailabilityRequest окно недоступности единицы.
// From == nil и To == nil снимают окно.
type SetUnavailabilityRequest struct {
	From   *types.Date `json:"from"`
	To     *types.Date `json:"to"`
	Reason *string     `json:"reason"`
}

// Response модели

// PricingTierResponse ценовая ступень
type PricingTierResponse struct {
	ID         int64   `json:"id"`
	Days       int     `json:"days"`
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

// StockUnitResponse единица инвентаря.
// Available/Reason/ReservationID заполняются только при запросе с периодом.
type StockUnitResponse struct {
	ID                int64   `json:"id"`
	ProductID         int64   `json:"productId"`
	Label             string  `json:"label"`
	UnavailableFrom   *string `json:"unavailableFrom,omitempty"`
	UnavailableTo     *string `json:"unavailableTo,omitempty"`
	UnavailableReason *string `json:"unavailableReason,omitempty"`

	Available     *bool   `json:"available,omitempty"`
	Reason        *string `json:"reason,omitempty"`
	ReservationID *int64  `json:"reservationId,omitempty"`
}

// ProductResponse продукт с настройками, ступенями и единицами
type ProductResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DailyRate      string `json:"dailyRate"` // "100.00"
	Deposit        string `json:"deposit"`
	DailyRateCents int64  `json:"dailyRateCents"`
	DepositCents   int64  `json:"depositCents"`
	Active         bool   `json:"active"`

	BufferBeforeDays          *int     `json:"bufferBeforeDays"`
	BufferAfterDays           *int     `json:"bufferAfterDays"`
	EffectiveBufferBeforeDays int      `json:"effectiveBufferBeforeDays"`
	EffectiveBufferAfterDays  int      `json:"effectiveBufferAfterDays"`
	AutoIncrementMultiplier   *float64 `json:"autoIncrementMultiplier"`

	PricingTiers []PricingTierResponse `json:"pricingTiers"`
	StockUnits   []StockUnitResponse   `json:"stockUnits"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductListResponse ответ со списком продуктов
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// Методы конвертации

// FromDomainProduct конвертирует продукт и его единицы в DTO.
// verdicts может быть nil, если период не запрашивался.
func FromDomainProduct(p *domain.Product, units []*domain.StockUnit, verdicts []availability.UnitVerdict) *ProductResponse {
	if p == nil {
		return nil
	}

	buffers := p.Buffers(nil)
	resp := &ProductResponse{
		ID:                        p.ID,
		Name:                      p.Name,
		DailyRate:                 money.FormatMajor(p.DailyRateCents),
		Deposit:                   money.FormatMajor(p.DepositCents),
		DailyRateCents:            p.DailyRateCents,
		DepositCents:              p.DepositCents,
		Active:                    p.Active,
		BufferBeforeDays:          p.BufferBeforeDays,
		BufferAfterDays:           p.BufferAfterDays,
		EffectiveBufferBeforeDays: buffers.Before,
		EffectiveBufferAfterDays:  buffers.After,
		AutoIncrementMultiplier:   p.AutoIncrementMultiplier,
		PricingTiers:              FromDomainTiers(p.PricingTiers),
		StockUnits:                make([]StockUnitResponse, 0, len(units)),
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}

	byUnit := make(map[int64]availability.UnitVerdict, len(verdicts))
	for _, v := range verdicts {
		byUnit[v.UnitID] = v
	}

	for _, u := range units {
		dto := FromDomainStockUnit(u)
		if v, ok := byUnit[u.ID]; ok {
			available := v.Available
			reason := v.Reason
			dto.Available = &available
			dto.Reason = &reason
			dto.ReservationID = v.ReservationID
		}
		resp.StockUnits = append(resp.StockUnits, *dto)
	}

	return resp
}

// FromDomainTiers конвертирует ступени в DTO
func FromDomainTiers(tiers []domain.PricingTier) []PricingTierResponse {
	out := make([]PricingTierResponse, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, PricingTierResponse{
			ID:         t.ID,
			Days:       t.Days,
			Multiplier: t.Multiplier,
			Label:      t.Label,
		})
	}
	return out
}

// FromDomainStockUnit конвертирует единицу инвентаря в DTO
func FromDomainStockUnit(u *domain.StockUnit) *StockUnitResponse {
	if u == nil {
		return nil
	}

	return &StockUnitResponse{
		ID:                u.ID,
		ProductID:         u.ProductID,
		Label:             u.Label,
		UnavailableFrom:   formatDate(u.UnavailableFrom),
		UnavailableTo:     formatDate(u.UnavailableTo),
		UnavailableReason: u.UnavailableReason,
	}
}

func formatDate(d *types.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
