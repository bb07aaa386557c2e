package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// ErrInvalidRange is returned when a range starts after it ends or a bound is missing
var ErrInvalidRange = errors.New("domain: invalid date range")

// DateRange is an inclusive range of calendar dates.
// Start == End denotes a single day.
type DateRange struct {
	Start types.Date
	End   types.Date
}

// NewDateRange builds a validated range
func NewDateRange(start, end types.Date) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks that both bounds are set and Start <= End
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: both dates are required", ErrInvalidRange)
	}
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Overlaps reports whether two inclusive ranges share at least one day.
// Ranges touching at a single shared day overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Expand widens the range by before days at the start and after days at the end
func (r DateRange) Expand(before, after int) DateRange {
	return DateRange{
		Start: r.Start.AddDays(-before),
		End:   r.End.AddDays(after),
	}
}

// Nights returns End - Start in calendar days (0 for a single-day range)
func (r DateRange) Nights() int {
	return r.Start.DaysUntil(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
