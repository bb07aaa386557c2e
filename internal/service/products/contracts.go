package products

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// ProductRepository интерфейс репозитория продуктов
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Product, error)
	UpdateSettings(ctx context.Context, product *domain.Product) error
	ReplaceTiers(ctx context.Context, productID int64, tiers []domain.PricingTier) ([]domain.PricingTier, error)
}

// StockUnitRepository интерфейс репозитория единиц инвентаря
type StockUnitRepository interface {
	GetByProductIDs(ctx context.Context, productIDs []int64) ([]*domain.StockUnit, error)
	SetUnavailability(ctx context.Context, id int64, from, to *types.Date, reason *string) (*domain.StockUnit, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetBlockingByStockUnitIDs(ctx context.Context, stockUnitIDs []int64) ([]*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
