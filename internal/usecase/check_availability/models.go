package check_availability

import (
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request модель запроса проверки доступности
type Request struct {
	ProductID  int64
	StartDate  types.Date
	EndDate    types.Date
	BufferDays *int // используется, только если у продукта не заданы свои буферы
}

// Response модель ответа проверки доступности
type Response struct {
	Available             bool
	AvailableStockUnitIDs []int64     // по возрастанию ID, первый назначается в заказ
	BlockedStartDate      *types.Date // даты первого конфликтующего бронирования (без буферов)
	BlockedEndDate        *types.Date
	BufferBeforeDays      int
	BufferAfterDays       int
	Units                 []UnitStatus
}

// UnitStatus вердикт по единице инвентаря
type UnitStatus struct {
	StockUnitID   int64
	Label         string
	Available     bool
	Reason        string // available | unavailability | reservation
	ReservationID *int64
}
