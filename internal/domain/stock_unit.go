package domain

import (
	"time"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// StockUnit is one physical rentable copy of a Product.
// Its busy state is derived from reservations and its own unavailability window.
type StockUnit struct {
	ID        int64
	ProductID int64
	Label     string

	// Explicit unavailability window; a missing bound is unbounded in that direction
	UnavailableFrom   *types.Date
	UnavailableTo     *types.Date
	UnavailableReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasUnavailability returns true if at least one bound of the window is set
func (u *StockUnit) HasUnavailability() bool {
	return u.UnavailableFrom != nil || u.UnavailableTo != nil
}

// IsUnavailableDuring reports whether the requested range intersects the unit's window
func (u *StockUnit) IsUnavailableDuring(r DateRange) bool {
	if !u.HasUnavailability() {
		return false
	}
	if u.UnavailableFrom != nil && r.End.Before(*u.UnavailableFrom) {
		return false
	}
	if u.UnavailableTo != nil && r.Start.After(*u.UnavailableTo) {
		return false
	}
	return true
}
