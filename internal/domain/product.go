package domain

import (
	"math"
	"time"
)

// Product is a rentable catalogue item. Its physical copies are StockUnits.
type Product struct {
	ID             int64
	Name           string
	DailyRateCents int64
	DepositCents   int64

	// NULL in storage means "not configured"; see Buffers
	BufferBeforeDays        *int
	BufferAfterDays         *int
	AutoIncrementMultiplier *float64

	Active       bool
	PricingTiers []PricingTier

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PricingTier prices a rental of up to Days days at DailyRate * Multiplier
type PricingTier struct {
	ID         int64
	ProductID  int64
	Days       int
	Multiplier float64
	Label      string
}

// IsWellFormed reports whether the tier can take part in a price lookup
func (t PricingTier) IsWellFormed() bool {
	return t.Days >= 1 &&
		!math.IsNaN(t.Multiplier) && !math.IsInf(t.Multiplier, 0) &&
		t.Multiplier >= 0
}

// Buffers are the turnaround days blocked around every reservation
type Buffers struct {
	Before int
	After  int
}

// Buffers resolves the effective buffers for the product.
// The product's own value wins; callerDefault is used only when the product
// has none; a missing or negative value falls back to DefaultBufferDays.
func (p *Product) Buffers(callerDefault *int) Buffers {
	return Buffers{
		Before: resolveBuffer(p.BufferBeforeDays, callerDefault),
		After:  resolveBuffer(p.BufferAfterDays, callerDefault),
	}
}

// AutoIncrement returns the per-extra-day multiplier (1.0 if not configured)
func (p *Product) AutoIncrement() float64 {
	if p.AutoIncrementMultiplier == nil {
		return DefaultAutoIncrementMultiplier
	}
	return *p.AutoIncrementMultiplier
}

func resolveBuffer(own *int, callerDefault *int) int {
	if own != nil {
		return normalizeBuffer(*own)
	}
	if callerDefault != nil {
		return normalizeBuffer(*callerDefault)
	}
	return DefaultBufferDays
}

func normalizeBuffer(days int) int {
	if days < 0 {
		return DefaultBufferDays
	}
	return days
}
