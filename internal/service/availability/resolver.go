// Package availability решает, какие единицы инвентаря свободны на диапазон дат.
// Resolve не делает I/O: данные загружают use case'ы, здесь только правила.
package availability

import (
	"sort"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Причины вердикта по единице
const (
	ReasonAvailable      = "available"
	ReasonUnavailability = "unavailability"
	ReasonReservation    = "reservation"
)

// UnitVerdict вердикт по одной единице инвентаря
type UnitVerdict struct {
	UnitID        int64
	Available     bool
	Reason        string
	ReservationID *int64 // бронирование, которое блокирует единицу
}

// Result результат проверки доступности
type Result struct {
	Available             bool
	AvailableStockUnitIDs []int64 // по возрастанию ID
	BlockedStart          *types.Date
	BlockedEnd            *types.Date
	Units                 []UnitVerdict // по возрастанию ID
}

// FirstAvailable возвращает единицу, которую нужно назначить в бронирование
func (r Result) FirstAvailable() (int64, bool) {
	if len(r.AvailableStockUnitIDs) == 0 {
		return 0, false
	}
	return r.AvailableStockUnitIDs[0], true
}

// Resolve проверяет каждую единицу продукта на запрошенный диапазон.
//
// Окно недоступности единицы проверяется первым и не зависит от бронирований.
// Затем каждое блокирующее бронирование расширяется буферами
// [start - before, end + after] и сравнивается с запросом включительно.
// Если свободных единиц нет, BlockedStart/BlockedEnd указывают на собственные
// даты первого конфликтующего бронирования (по дате начала, затем по ID).
// Когда все единицы закрыты только окнами недоступности, возвращаются границы первого окна.
func Resolve(
	units []*domain.StockUnit,
	reservations []*domain.Reservation,
	request domain.DateRange,
	buffers domain.Buffers,
) Result {
	ordered := make([]*domain.StockUnit, 0, len(units))
	for _, u := range units {
		if u != nil {
			ordered = append(ordered, u)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	blocking := orderedBlocking(reservations)

	result := Result{
		AvailableStockUnitIDs: []int64{},
		Units:                 make([]UnitVerdict, 0, len(ordered)),
	}

	var firstConflict *domain.Reservation
	var firstWindow *domain.StockUnit

	for _, unit := range ordered {
		if unit.IsUnavailableDuring(request) {
			result.Units = append(result.Units, UnitVerdict{UnitID: unit.ID, Reason: ReasonUnavailability})
			if firstWindow == nil {
				firstWindow = unit
			}
			continue
		}

		conflict := findConflict(unit.ID, blocking, request, buffers)
		if conflict != nil {
			id := conflict.ID
			result.Units = append(result.Units, UnitVerdict{UnitID: unit.ID, Reason: ReasonReservation, ReservationID: &id})
			if firstConflict == nil || precedes(conflict, firstConflict) {
				firstConflict = conflict
			}
			continue
		}

		result.Units = append(result.Units, UnitVerdict{UnitID: unit.ID, Available: true, Reason: ReasonAvailable})
		result.AvailableStockUnitIDs = append(result.AvailableStockUnitIDs, unit.ID)
	}

	result.Available = len(result.AvailableStockUnitIDs) > 0
	if result.Available {
		return result
	}

	switch {
	case firstConflict != nil:
		start, end := firstConflict.StartDate, firstConflict.EndDate
		result.BlockedStart = &start
		result.BlockedEnd = &end
	case firstWindow != nil:
		result.BlockedStart = copyDate(firstWindow.UnavailableFrom)
		result.BlockedEnd = copyDate(firstWindow.UnavailableTo)
	}

	return result
}

func findConflict(unitID int64, reservations []*domain.Reservation, request domain.DateRange, buffers domain.Buffers) *domain.Reservation {
	for _, r := range reservations {
		if !r.References(unitID) {
			continue
		}
		if r.Range().Expand(buffers.Before, buffers.After).Overlaps(request) {
			return r
		}
	}
	return nil
}

// orderedBlocking отбрасывает неблокирующие статусы и сортирует по дате начала и ID
func orderedBlocking(reservations []*domain.Reservation) []*domain.Reservation {
	out := make([]*domain.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r != nil && r.IsBlocking() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return precedes(out[i], out[j]) })
	return out
}

func precedes(a, b *domain.Reservation) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.Before(b.StartDate)
	}
	return a.ID < b.ID
}

func copyDate(d *types.Date) *types.Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
