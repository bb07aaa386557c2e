package check_availability

import (
	checkAvailability "github.com/m04kA/SMC-RentalService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// CheckAvailabilityRequest HTTP request model
type CheckAvailabilityRequest struct {
	ProductID  int64  `json:"productId" validate:"required,gt=0"`
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
	BufferDays *int   `json:"bufferDays,omitempty" validate:"omitempty,gte=0"`
}

// CheckAvailabilityResponse HTTP response model
type CheckAvailabilityResponse struct {
	Available             bool                 `json:"available"`
	AvailableStockItemIDs []int64              `json:"availableStockItemIds"`
	BlockedStartDate      *string              `json:"blockedStartDate,omitempty"`
	BlockedEndDate        *string              `json:"blockedEndDate,omitempty"`
	BufferBeforeDays      int                  `json:"bufferBeforeDays"`
	BufferAfterDays       int                  `json:"bufferAfterDays"`
	Units                 []UnitStatusResponse `json:"units"`
}

// UnitStatusResponse вердикт по единице
type UnitStatusResponse struct {
	StockUnitID   int64  `json:"stockUnitId"`
	Label         string `json:"label"`
	Available     bool   `json:"available"`
	Reason        string `json:"reason"`
	ReservationID *int64 `json:"reservationId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckAvailabilityRequest) ToUseCaseRequest() (*checkAvailability.Request, error) {
	start, err := types.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := types.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &checkAvailability.Request{
		ProductID:  r.ProductID,
		StartDate:  start,
		EndDate:    end,
		BufferDays: r.BufferDays,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *CheckAvailabilityResponse {
	out := &CheckAvailabilityResponse{
		Available:             resp.Available,
		AvailableStockItemIDs: resp.AvailableStockUnitIDs,
		BlockedStartDate:      formatDate(resp.BlockedStartDate),
		BlockedEndDate:        formatDate(resp.BlockedEndDate),
		BufferBeforeDays:      resp.BufferBeforeDays,
		BufferAfterDays:       resp.BufferAfterDays,
		Units:                 make([]UnitStatusResponse, 0, len(resp.Units)),
	}
	if out.AvailableStockItemIDs == nil {
		out.AvailableStockItemIDs = []int64{}
	}

	for _, u := range resp.Units {
		out.Units = append(out.Units, UnitStatusResponse{
			StockUnitID:   u.StockUnitID,
			Label:         u.Label,
			Available:     u.Available,
			Reason:        u.Reason,
			ReservationID: u.ReservationID,
		})
	}

	return out
}

func formatDate(d *types.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
