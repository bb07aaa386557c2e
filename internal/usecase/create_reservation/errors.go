package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

var (
	// ErrProductNotFound возвращается, когда продукт не найден
	ErrProductNotFound = errors.New("create_reservation: product not found")

	// ErrProductInactive возвращается, когда продукт снят с продажи
	ErrProductInactive = errors.New("create_reservation: product is not available for checkout")

	// ErrInvalidRange возвращается, когда дата начала позже даты окончания
	ErrInvalidRange = errors.New("create_reservation: invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrUnavailable возвращается, когда нет свободной единицы инвентаря на даты
	ErrUnavailable = errors.New("create_reservation: no stock unit available")

	// ErrConcurrentReservation возвращается, когда конкурентная транзакция заняла единицу раньше
	ErrConcurrentReservation = errors.New("create_reservation: concurrent reservation conflict")

	// ErrPaymentFailed возвращается, когда платежный провайдер не создал сессию
	ErrPaymentFailed = errors.New("create_reservation: payment provider failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// UnavailableError отказ с подсказкой о занятом окне (даты первого конфликтующего бронирования).
// errors.Is(err, ErrUnavailable) == true.
type UnavailableError struct {
	BlockedStart *types.Date
	BlockedEnd   *types.Date
}

func (e *UnavailableError) Error() string {
	if e.BlockedStart == nil && e.BlockedEnd == nil {
		return ErrUnavailable.Error()
	}
	return fmt.Sprintf("%s: blocked %s..%s", ErrUnavailable, formatBound(e.BlockedStart), formatBound(e.BlockedEnd))
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func formatBound(d *types.Date) string {
	if d == nil {
		return "*"
	}
	return d.String()
}
