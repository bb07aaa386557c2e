package create_reservation

import (
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Channel источник заказа
type Channel string

const (
	// ChannelCheckout публичный checkout: статус pending, затем оплата
	ChannelCheckout Channel = "checkout"
	// ChannelOffice заказ из офиса: статус manual, без оплаты
	ChannelOffice Channel = "office"
)

// Request модель запроса на создание бронирования
type Request struct {
	Channel       Channel
	ProductID     int64
	StartDate     types.Date
	EndDate       types.Date
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Notes         *string
	CreatedBy     *int64 // ID сотрудника офиса (только ChannelOffice)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ReservationID       int64
	Status              string
	ProductID           int64
	StockUnitID         int64
	StartDate           types.Date
	EndDate             types.Date
	Days                int
	RentalSubtotalCents int64
	DepositCents        int64
	TotalCents          int64
	PaymentSessionID    *string
	RedirectURL         *string // ссылка на оплату (только ChannelCheckout)
}
