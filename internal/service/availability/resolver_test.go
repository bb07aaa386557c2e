package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

func d(s string) types.Date {
	return types.MustParseDate(s)
}

func rng(start, end string) domain.DateRange {
	return domain.DateRange{Start: d(start), End: d(end)}
}

func reservation(id, unitID int64, status domain.ReservationStatus, start, end string) *domain.Reservation {
	return &domain.Reservation{
		ID:        id,
		Status:    status,
		StartDate: d(start),
		EndDate:   d(end),
		Items:     []domain.LineItem{{ReservationID: id, StockUnitID: unitID}},
	}
}

func TestResolve_ProductScenario(t *testing.T) {
	units := []*domain.StockUnit{{ID: 1, Label: "A"}, {ID: 2, Label: "B"}}
	reservations := []*domain.Reservation{
		reservation(100, 1, domain.StatusPaid, "2024-06-10", "2024-06-15"),
	}
	buffers := domain.Buffers{Before: 1, After: 2}

	t.Run("inside after-buffer blocks unit A", func(t *testing.T) {
		result := Resolve(units, reservations, rng("2024-06-16", "2024-06-18"), buffers)

		assert.True(t, result.Available)
		assert.Equal(t, []int64{2}, result.AvailableStockUnitIDs)
		require.Len(t, result.Units, 2)
		assert.Equal(t, ReasonReservation, result.Units[0].Reason)
		assert.Equal(t, int64(100), *result.Units[0].ReservationID)
	})

	t.Run("after buffer unit A is free", func(t *testing.T) {
		result := Resolve(units, reservations, rng("2024-06-18", "2024-06-20"), buffers)

		assert.True(t, result.Available)
		assert.Equal(t, []int64{1, 2}, result.AvailableStockUnitIDs)
		assert.Nil(t, result.BlockedStart)
	})

	t.Run("unit A alone reports blocked window", func(t *testing.T) {
		result := Resolve(units[:1], reservations, rng("2024-06-16", "2024-06-18"), buffers)

		assert.False(t, result.Available)
		assert.Empty(t, result.AvailableStockUnitIDs)
		require.NotNil(t, result.BlockedStart)
		require.NotNil(t, result.BlockedEnd)
		assert.Equal(t, "2024-06-10", result.BlockedStart.String())
		assert.Equal(t, "2024-06-15", result.BlockedEnd.String())
	})

	t.Run("unit B is free for any range", func(t *testing.T) {
		for _, r := range []domain.DateRange{
			rng("2024-06-10", "2024-06-15"),
			rng("2024-06-01", "2024-07-01"),
			rng("2024-06-12", "2024-06-12"),
		} {
			result := Resolve(units[1:], reservations, r, buffers)
			assert.True(t, result.Available, r.String())
		}
	})
}

func TestResolve_SingleSharedDayIsConflict(t *testing.T) {
	units := []*domain.StockUnit{{ID: 1}}
	reservations := []*domain.Reservation{
		reservation(1, 1, domain.StatusManual, "2024-06-10", "2024-06-15"),
	}
	buffers := domain.Buffers{Before: 1, After: 2}

	// buffered window 06-09..06-17
	assert.False(t, Resolve(units, reservations, rng("2024-06-17", "2024-06-17"), buffers).Available)
	assert.False(t, Resolve(units, reservations, rng("2024-06-05", "2024-06-09"), buffers).Available)
	assert.True(t, Resolve(units, reservations, rng("2024-06-05", "2024-06-08"), buffers).Available)
	assert.True(t, Resolve(units, reservations, rng("2024-06-18", "2024-06-18"), buffers).Available)
}

func TestResolve_GapBetweenReservations(t *testing.T) {
	buffers := domain.Buffers{Before: 1, After: 2}
	units := []*domain.StockUnit{{ID: 1}}

	// gap of before+after+1 days between end of first and start of second
	first := reservation(1, 1, domain.StatusPaid, "2024-06-01", "2024-06-05")
	second := reservation(2, 1, domain.StatusPaid, "2024-06-09", "2024-06-12")

	// each reservation is free against the other
	assert.True(t, Resolve(units, []*domain.Reservation{first}, second.Range(), domain.Buffers{}).Available)
	assert.True(t, Resolve(units, []*domain.Reservation{first}, rng("2024-06-08", "2024-06-08"), buffers).Available)

	// the single day between buffered windows is free only with zero buffers
	both := []*domain.Reservation{first, second}
	assert.False(t, Resolve(units, both, rng("2024-06-07", "2024-06-07"), buffers).Available)
	assert.True(t, Resolve(units, both, rng("2024-06-07", "2024-06-07"), domain.Buffers{}).Available)

	// touching either buffered window conflicts
	assert.False(t, Resolve(units, both, rng("2024-06-06", "2024-06-06"), buffers).Available)
	assert.False(t, Resolve(units, both, rng("2024-06-08", "2024-06-08"), buffers).Available)
}

func TestResolve_IgnoresNonBlockingStatuses(t *testing.T) {
	units := []*domain.StockUnit{{ID: 1}}
	request := rng("2024-06-10", "2024-06-12")

	for _, status := range []domain.ReservationStatus{domain.StatusFailed, domain.StatusCancelled, domain.StatusReturned, domain.StatusPickedUp} {
		result := Resolve(units, []*domain.Reservation{reservation(1, 1, status, "2024-06-10", "2024-06-12")}, request, domain.Buffers{Before: 1, After: 1})
		assert.True(t, result.Available, string(status))
	}

	for _, status := range domain.BlockingStatuses {
		result := Resolve(units, []*domain.Reservation{reservation(1, 1, status, "2024-06-10", "2024-06-12")}, request, domain.Buffers{Before: 1, After: 1})
		assert.False(t, result.Available, string(status))
	}
}

func TestResolve_UnavailabilityWindow(t *testing.T) {
	request := rng("2024-06-10", "2024-06-12")

	t.Run("bounded window", func(t *testing.T) {
		units := []*domain.StockUnit{{
			ID:              1,
			UnavailableFrom: ptr.Ptr(d("2024-06-12")),
			UnavailableTo:   ptr.Ptr(d("2024-06-20")),
		}}

		result := Resolve(units, nil, request, domain.Buffers{})

		assert.False(t, result.Available)
		assert.Equal(t, ReasonUnavailability, result.Units[0].Reason)
		assert.Equal(t, "2024-06-12", result.BlockedStart.String())
		assert.Equal(t, "2024-06-20", result.BlockedEnd.String())
	})

	t.Run("open-ended window", func(t *testing.T) {
		units := []*domain.StockUnit{{ID: 1, UnavailableFrom: ptr.Ptr(d("2024-06-01"))}}

		result := Resolve(units, nil, request, domain.Buffers{})

		assert.False(t, result.Available)
		assert.Nil(t, result.BlockedEnd)
	})

	t.Run("window outside request", func(t *testing.T) {
		units := []*domain.StockUnit{{ID: 1, UnavailableTo: ptr.Ptr(d("2024-06-09"))}}

		assert.True(t, Resolve(units, nil, request, domain.Buffers{}).Available)
	})

	t.Run("unavailability wins over reservations", func(t *testing.T) {
		units := []*domain.StockUnit{{ID: 1, UnavailableFrom: ptr.Ptr(d("2024-06-11")), UnavailableTo: ptr.Ptr(d("2024-06-11"))}}
		reservations := []*domain.Reservation{reservation(7, 1, domain.StatusPaid, "2024-06-10", "2024-06-10")}

		result := Resolve(units, reservations, request, domain.Buffers{})

		assert.Equal(t, ReasonUnavailability, result.Units[0].Reason)
		assert.Nil(t, result.Units[0].ReservationID)
	})
}

func TestResolve_OrdersUnitsAndReportsEarliestConflict(t *testing.T) {
	units := []*domain.StockUnit{{ID: 9}, {ID: 3}, {ID: 5}}
	reservations := []*domain.Reservation{
		reservation(20, 9, domain.StatusPaid, "2024-06-12", "2024-06-14"),
		reservation(21, 3, domain.StatusPending, "2024-06-08", "2024-06-10"),
	}

	result := Resolve(units, reservations, rng("2024-06-10", "2024-06-12"), domain.Buffers{})

	assert.Equal(t, []int64{5}, result.AvailableStockUnitIDs)
	id, ok := result.FirstAvailable()
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, []int64{3, 5, 9}, []int64{result.Units[0].UnitID, result.Units[1].UnitID, result.Units[2].UnitID})

	result = Resolve(units[:2], reservations, rng("2024-06-10", "2024-06-12"), domain.Buffers{})

	assert.False(t, result.Available)
	assert.Equal(t, "2024-06-08", result.BlockedStart.String())
	assert.Equal(t, "2024-06-10", result.BlockedEnd.String())
}

func TestResolve_NoUnits(t *testing.T) {
	result := Resolve(nil, nil, rng("2024-06-10", "2024-06-12"), domain.Buffers{Before: 1, After: 1})

	assert.False(t, result.Available)
	assert.Empty(t, result.AvailableStockUnitIDs)
	assert.Nil(t, result.BlockedStart)
	assert.Nil(t, result.BlockedEnd)
	_, ok := result.FirstAvailable()
	assert.False(t, ok)
}
