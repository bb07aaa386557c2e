package get_product

import (
	"net/url"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

// ParseWindow читает необязательный период startDate/endDate/bufferDays из query
func ParseWindow(query url.Values) (*models.AvailabilityWindow, error) {
	start, err := handlers.QueryDate(query, "startDate")
	if err != nil {
		return nil, err
	}
	end, err := handlers.QueryDate(query, "endDate")
	if err != nil {
		return nil, err
	}
	bufferDays, err := handlers.QueryNonNegativeInt(query, "bufferDays")
	if err != nil {
		return nil, err
	}

	return &models.AvailabilityWindow{
		StartDate:  start,
		EndDate:    end,
		BufferDays: bufferDays,
	}, nil
}
