package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// validateRequest проверяет входные данные запроса и возвращает диапазон дат
func validateRequest(req *Request) (domain.DateRange, error) {
	if req.ProductID <= 0 {
		return domain.DateRange{}, fmt.Errorf("%w: productId must be positive", ErrInvalidInput)
	}

	dates, err := domain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	return dates, nil
}
