package calculate_price

import (
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	if req.ProductID <= 0 {
		return fmt.Errorf("%w: productId must be positive", ErrInvalidInput)
	}

	dates, err := domain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	if dates.Nights() > domain.MaxRentalDays {
		return fmt.Errorf("%w: rental longer than %d days", ErrInvalidInput, domain.MaxRentalDays)
	}

	return nil
}
