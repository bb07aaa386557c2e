package stockunit

import "errors"

var (
	// ErrStockUnitNotFound возвращается, когда единица инвентаря не найдена
	ErrStockUnitNotFound = errors.New("stockunit.repository: stock unit not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("stockunit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("stockunit.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("stockunit.repository: failed to scan row")
)
