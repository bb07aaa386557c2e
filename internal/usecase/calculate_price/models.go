package calculate_price

import (
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request модель запроса расчета цены
type Request struct {
	ProductID int64
	StartDate types.Date
	EndDate   types.Date
}

// Response модель ответа с ценой. Суммы в минорных единицах.
type Response struct {
	ProductID           int64
	Days                int
	DailyRateCents      int64
	RentalSubtotalCents int64
	DepositCents        int64
	TotalCents          int64
	AppliedTierDays     *int
	AppliedTierLabel    *string
	BeyondTiers         bool
	TierFallback        bool
}
