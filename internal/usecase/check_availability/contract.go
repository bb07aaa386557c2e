package check_availability

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// ProductRepository интерфейс репозитория продуктов
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// StockUnitRepository интерфейс репозитория единиц инвентаря
type StockUnitRepository interface {
	GetByProductID(ctx context.Context, productID int64) ([]*domain.StockUnit, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetBlockingByStockUnitIDs(ctx context.Context, stockUnitIDs []int64) ([]*domain.Reservation, error)
}

// Metrics счетчики проверок доступности
type Metrics interface {
	IncAvailabilityCheck(available bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
