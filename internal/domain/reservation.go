package domain

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// ErrInvalidStatus is returned for an unknown reservation status string
var ErrInvalidStatus = errors.New("domain: invalid reservation status")

// ReservationStatus is the payment/lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusPaid      ReservationStatus = "paid"
	StatusManual    ReservationStatus = "manual"
	StatusCompleted ReservationStatus = "completed"
	StatusFailed    ReservationStatus = "failed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusPickedUp  ReservationStatus = "picked_up"
	StatusReturned  ReservationStatus = "returned"
)

// allowedTransitions office/payment lifecycle
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:  {StatusPaid, StatusFailed, StatusCancelled},
	StatusPaid:     {StatusPickedUp, StatusCompleted, StatusCancelled},
	StatusManual:   {StatusPickedUp, StatusCompleted, StatusCancelled},
	StatusPickedUp: {StatusReturned},
	StatusReturned: {StatusCompleted},
}

// ParseReservationStatus converts a string into a known status
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// IsValid returns true for a known status
func (s ReservationStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsBlocking returns true if a reservation in this status occupies its stock units
func (s ReservationStatus) IsBlocking() bool {
	for _, blocking := range BlockingStatuses {
		if s == blocking {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s ReservationStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo checks the lifecycle table
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation is an order for a date range with one or more line items
type Reservation struct {
	ID        int64
	Status    ReservationStatus
	StartDate types.Date
	EndDate   types.Date

	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Notes         *string
	CreatedBy     *int64 // office user for manual orders

	Items []LineItem

	RentalSubtotalCents int64
	DepositCents        int64
	TotalCents          int64

	PaymentSessionID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem assigns one stock unit of a product to a reservation
type LineItem struct {
	ID                  int64
	ReservationID       int64
	ProductID           int64
	StockUnitID         int64
	DailyRateCents      int64
	Days                int
	RentalSubtotalCents int64
	DepositCents        int64
}

// Range returns the reservation's own (unbuffered) date range
func (r *Reservation) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// IsBlocking returns true if the reservation occupies its stock units
func (r *Reservation) IsBlocking() bool {
	return r.Status.IsBlocking()
}

// References reports whether any line item points at the given stock unit
func (r *Reservation) References(stockUnitID int64) bool {
	for _, item := range r.Items {
		if item.StockUnitID == stockUnitID {
			return true
		}
	}
	return false
}

// ReservationFilter фильтр для списка бронирований в офисе
type ReservationFilter struct {
	Status      *ReservationStatus // Фильтр по статусу (опционально)
	ProductID   *int64             // Фильтр по продукту (опционально)
	StockUnitID *int64             // Фильтр по единице инвентаря (опционально)
	From        *types.Date        // Бронирования, заканчивающиеся не раньше этой даты
	To          *types.Date        // Бронирования, начинающиеся не позже этой даты
	Limit       uint64
	Offset      uint64
}
