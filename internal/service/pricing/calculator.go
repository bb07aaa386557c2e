// Package pricing считает стоимость аренды по дням с учетом ценовых ступеней.
// Пакет не делает I/O: одни и те же входные данные всегда дают один и тот же результат.
package pricing

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/money"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Input входные данные расчета. Все суммы в минорных единицах.
type Input struct {
	StartDate               types.Date
	EndDate                 types.Date
	DailyRateCents          int64
	DepositCents            int64
	Tiers                   []domain.PricingTier
	AutoIncrementMultiplier *float64 // nil = 1.0
}

// Quote результат расчета
type Quote struct {
	Days                int
	RentalSubtotalCents int64
	DepositCents        int64
	TotalCents          int64

	AppliedTier  *domain.PricingTier // ступень, по которой посчитана цена (nil для линейной)
	BeyondTiers  bool                // срок больше самой длинной ступени, применен auto-increment
	TierFallback bool                // ступени некорректны, посчитано линейно
	FallbackNote string              // причина отката (FallbackMalformedTier, ...)
}

// InputFromProduct собирает Input из настроек продукта
func InputFromProduct(p *domain.Product, start, end types.Date) Input {
	return Input{
		StartDate:               start,
		EndDate:                 end,
		DailyRateCents:          p.DailyRateCents,
		DepositCents:            p.DepositCents,
		Tiers:                   p.PricingTiers,
		AutoIncrementMultiplier: p.AutoIncrementMultiplier,
	}
}

// Calculate считает стоимость аренды:
//
//  1. days = (end - start) в календарных днях, минимум 1
//  2. если ступени заданы: берется самая короткая ступень с Days >= days,
//     subtotal = round(rate * multiplier); если срок длиннее всех ступеней -
//     subtotal = round(rate * (highest.multiplier + (days - highest.days) * autoIncrement))
//  3. без ступеней: subtotal = rate * days
//  4. total = subtotal + deposit
//
// Ступени сортируются по возрастанию Days (при равных порогах побеждает первая по порядку).
// Если ступени или autoIncrement некорректны, цена считается линейно и выставляется TierFallback.
func Calculate(in Input) (*Quote, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	days := in.StartDate.DaysUntil(in.EndDate)
	if days < 1 {
		days = 1
	}

	quote := &Quote{
		Days:         days,
		DepositCents: in.DepositCents,
	}

	if len(in.Tiers) == 0 {
		subtotal, err := linear(in.DailyRateCents, days)
		if err != nil {
			return nil, err
		}
		quote.RentalSubtotalCents = subtotal
		return finalize(quote)
	}

	autoIncrement, reason := checkTiers(in.Tiers, in.AutoIncrementMultiplier)
	if reason != "" {
		subtotal, err := linear(in.DailyRateCents, days)
		if err != nil {
			return nil, err
		}
		quote.RentalSubtotalCents = subtotal
		quote.TierFallback = true
		quote.FallbackNote = reason
		return finalize(quote)
	}

	tiers := sortedTiers(in.Tiers)

	for i := range tiers {
		if tiers[i].Days >= days {
			tier := tiers[i]
			quote.AppliedTier = &tier
			subtotal, err := money.MulRound(in.DailyRateCents, decimal.NewFromFloat(tier.Multiplier))
			if err != nil {
				return nil, fmt.Errorf("%w: price overflows: %v", ErrInvalidInput, err)
			}
			quote.RentalSubtotalCents = subtotal
			return finalize(quote)
		}
	}

	highest := tiers[len(tiers)-1]
	extraDays := decimal.NewFromInt(int64(days - highest.Days))
	factor := decimal.NewFromFloat(highest.Multiplier).
		Add(extraDays.Mul(decimal.NewFromFloat(autoIncrement)))

	quote.AppliedTier = &highest
	quote.BeyondTiers = true
	subtotal, err := money.MulRound(in.DailyRateCents, factor)
	if err != nil {
		return nil, fmt.Errorf("%w: price overflows: %v", ErrInvalidInput, err)
	}
	quote.RentalSubtotalCents = subtotal
	return finalize(quote)
}

// RecomputeOrStored пересчитывает цену сохраненного бронирования для документов.
// При любой ошибке возвращает сохраненные суммы и ошибку, чтобы вызывающий
// залогировал её, но не блокировал формирование документа.
func RecomputeOrStored(in Input, stored Quote) (Quote, error) {
	quote, err := Calculate(in)
	if err != nil {
		return stored, err
	}
	return *quote, nil
}

func validateInput(in Input) error {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidInput, in.EndDate, in.StartDate)
	}
	if in.DailyRateCents < 0 {
		return fmt.Errorf("%w: daily rate must be non-negative", ErrInvalidInput)
	}
	if in.DepositCents < 0 {
		return fmt.Errorf("%w: deposit must be non-negative", ErrInvalidInput)
	}
	return nil
}

// checkTiers возвращает эффективный autoIncrement или причину отката на линейную цену
func checkTiers(tiers []domain.PricingTier, autoIncrement *float64) (float64, string) {
	for _, tier := range tiers {
		if !tier.IsWellFormed() {
			return 0, FallbackMalformedTier
		}
	}

	value := domain.DefaultAutoIncrementMultiplier
	if autoIncrement != nil {
		value = *autoIncrement
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, FallbackMalformedAutoIncrement
	}

	return value, ""
}

func sortedTiers(tiers []domain.PricingTier) []domain.PricingTier {
	sorted := make([]domain.PricingTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Days < sorted[j].Days
	})
	return sorted
}

func linear(rateCents int64, days int) (int64, error) {
	if rateCents > 0 && int64(days) > math.MaxInt64/rateCents {
		return 0, fmt.Errorf("%w: price overflows", ErrInvalidInput)
	}
	return rateCents * int64(days), nil
}

func finalize(q *Quote) (*Quote, error) {
	if q.RentalSubtotalCents > math.MaxInt64-q.DepositCents {
		return nil, fmt.Errorf("%w: total overflows", ErrInvalidInput)
	}
	q.TotalCents = q.RentalSubtotalCents + q.DepositCents
	return q, nil
}
