// Package money конвертирует суммы между минорными единицами (копейки, гроши, центы)
// и десятичным представлением в основных единицах валюты.
//
// Вся доменная арифметика ведется в int64 минорных единиц. Decimal используется
// только на границах системы: хранение в NUMERIC, ответы API, платежный провайдер.
package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent количество знаков минорных единиц (2 для PLN/EUR/USD)
const MinorUnitExponent = 2

var (
	// ErrOverflow возвращается, если результат не помещается в int64 минорных единиц
	ErrOverflow = errors.New("money: amount overflows int64")
)

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// FromMinor конвертирует минорные единицы в decimal в основных единицах (12345 -> 123.45)
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}

// ToMinor конвертирует decimal в основных единицах в минорные с округлением half-up
func ToMinor(major decimal.Decimal) int64 {
	return major.Shift(MinorUnitExponent).Round(0).IntPart()
}

// FormatMajor форматирует минорные единицы как строку в основных единицах ("123.45")
func FormatMajor(minor int64) string {
	return FromMinor(minor).StringFixed(MinorUnitExponent)
}

// MulRound умножает сумму в минорных единицах на коэффициент и округляет half-up
// до целых минорных единиц. Результат вне диапазона int64 дает ErrOverflow.
func MulRound(minor int64, factor decimal.Decimal) (int64, error) {
	result := decimal.NewFromInt(minor).Mul(factor).Round(0)
	if result.GreaterThan(maxMinor) || result.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %d * %s", ErrOverflow, minor, factor)
	}
	return result.IntPart(), nil
}
