package products

import "errors"

var (
	// ErrProductNotFound возвращается, когда продукт не найден
	ErrProductNotFound = errors.New("product not found")

	// ErrStockUnitNotFound возвращается, когда единица инвентаря не найдена
	ErrStockUnitNotFound = errors.New("stock unit not found")

	// ErrInvalidRange возвращается, когда начало периода позже конца
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidInput возвращается при некорректных настройках
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
