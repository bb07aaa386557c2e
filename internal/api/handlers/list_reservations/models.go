package list_reservations

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
)

const maxLimit = 500

// ToServiceRequest собирает фильтр из query параметров:
// status, productId, stockUnitId, from, to (YYYY-MM-DD), limit, offset
func ToServiceRequest(query url.Values) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	var err error
	if req.ProductID, err = handlers.QueryInt64(query, "productId"); err != nil {
		return nil, err
	}
	if req.StockUnitID, err = handlers.QueryInt64(query, "stockUnitId"); err != nil {
		return nil, err
	}
	if req.From, err = handlers.QueryDate(query, "from"); err != nil {
		return nil, err
	}
	if req.To, err = handlers.QueryDate(query, "to"); err != nil {
		return nil, err
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || limit == 0 || limit > maxLimit {
			return nil, fmt.Errorf("limit must be between 1 and %d", maxLimit)
		}
		req.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q", raw)
		}
		req.Offset = offset
	}

	return req, nil
}
