package pricing

import "errors"

var (
	// ErrInvalidInput возвращается при отрицательной ставке/залоге или конце периода раньше начала
	ErrInvalidInput = errors.New("pricing: invalid input")
)

// Причины отката на линейную цену (для логов и метрик)
const (
	FallbackMalformedTier          = "malformed_tier"
	FallbackMalformedAutoIncrement = "malformed_auto_increment"
)
