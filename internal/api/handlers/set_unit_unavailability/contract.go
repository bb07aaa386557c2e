package set_unit_unavailability

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

type StockUnitService interface {
	SetUnitUnavailability(ctx context.Context, unitID int64, req *models.SetUnavailabilityRequest) (*models.StockUnitResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
