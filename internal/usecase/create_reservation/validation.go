package create_reservation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

const maxCustomerFieldLength = 255

// validateRequest проверяет входные данные запроса и возвращает диапазон дат
func validateRequest(req *Request) (domain.DateRange, error) {
	if req.Channel != ChannelCheckout && req.Channel != ChannelOffice {
		return domain.DateRange{}, fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, req.Channel)
	}

	if req.ProductID <= 0 {
		return domain.DateRange{}, fmt.Errorf("%w: productId must be positive", ErrInvalidInput)
	}

	dates, err := domain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	if dates.Nights() > domain.MaxRentalDays {
		return domain.DateRange{}, fmt.Errorf("%w: rental longer than %d days", ErrInvalidInput, domain.MaxRentalDays)
	}

	if strings.TrimSpace(req.CustomerName) == "" || utf8.RuneCountInString(req.CustomerName) > maxCustomerFieldLength {
		return domain.DateRange{}, fmt.Errorf("%w: customer name is required (max %d chars)", ErrInvalidInput, maxCustomerFieldLength)
	}

	if !strings.Contains(req.CustomerEmail, "@") || utf8.RuneCountInString(req.CustomerEmail) > maxCustomerFieldLength {
		return domain.DateRange{}, fmt.Errorf("%w: customer email is invalid", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return domain.DateRange{}, fmt.Errorf("%w: notes too long (max %d chars)", ErrInvalidInput, domain.MaxNotesLength)
	}

	return dates, nil
}
