package price_quote

import (
	calculatePrice "github.com/m04kA/SMC-RentalService/internal/usecase/calculate_price"
	"github.com/m04kA/SMC-RentalService/pkg/money"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// PriceQuoteRequest HTTP request model
type PriceQuoteRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// PriceQuoteResponse HTTP response model: суммы и в минорных единицах, и строкой "123.45"
type PriceQuoteResponse struct {
	ProductID           int64   `json:"productId"`
	Days                int     `json:"days"`
	DailyRate           string  `json:"dailyRate"`
	RentalSubtotal      string  `json:"rentalSubtotal"`
	Deposit             string  `json:"deposit"`
	Total               string  `json:"total"`
	DailyRateCents      int64   `json:"dailyRateCents"`
	RentalSubtotalCents int64   `json:"rentalSubtotalCents"`
	DepositCents        int64   `json:"depositCents"`
	TotalCents          int64   `json:"totalCents"`
	AppliedTierDays     *int    `json:"appliedTierDays,omitempty"`
	AppliedTierLabel    *string `json:"appliedTierLabel,omitempty"`
	BeyondTiers         bool    `json:"beyondTiers"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PriceQuoteRequest) ToUseCaseRequest() (*calculatePrice.Request, error) {
	start, err := types.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := types.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &calculatePrice.Request{
		ProductID: r.ProductID,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *calculatePrice.Response) *PriceQuoteResponse {
	return &PriceQuoteResponse{
		ProductID:           resp.ProductID,
		Days:                resp.Days,
		DailyRate:           money.FormatMajor(resp.DailyRateCents),
		RentalSubtotal:      money.FormatMajor(resp.RentalSubtotalCents),
		Deposit:             money.FormatMajor(resp.DepositCents),
		Total:               money.FormatMajor(resp.TotalCents),
		DailyRateCents:      resp.DailyRateCents,
		RentalSubtotalCents: resp.RentalSubtotalCents,
		DepositCents:        resp.DepositCents,
		TotalCents:          resp.TotalCents,
		AppliedTierDays:     resp.AppliedTierDays,
		AppliedTierLabel:    resp.AppliedTierLabel,
		BeyondTiers:         resp.BeyondTiers,
	}
}
