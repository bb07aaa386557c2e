package create_reservation

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/payment"
)

// ProductRepository интерфейс репозитория продуктов
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// StockUnitRepository интерфейс репозитория единиц инвентаря
type StockUnitRepository interface {
	LockByProductID(ctx context.Context, productID int64) ([]*domain.StockUnit, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetBlockingByStockUnitIDs(ctx context.Context, stockUnitIDs []int64) ([]*domain.Reservation, error)
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	SetPaymentSession(ctx context.Context, id int64, sessionID string) error
}

// PaymentClient интерфейс клиента платежного провайдера
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, req *payment.CheckoutSessionRequest) (*payment.CheckoutSession, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики созданных бронирований и откатов цены
type Metrics interface {
	IncReservationCreated(status string)
	IncPricingFallback(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
