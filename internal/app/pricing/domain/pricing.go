package domain

import (
	"math/big"
	"time"
)

// PriceComputer derives effective sale prices from base prices and discount
// specs. It is a pure domain service with no I/O.
type PriceComputer struct {
	scale int // decimal places of the currency minor unit
}

// NewPriceComputer creates a PriceComputer rounding to the given number of
// decimal places. Whole-unit currencies use scale 0.
func NewPriceComputer(scale int) *PriceComputer {
	return &PriceComputer{scale: scale}
}

// Active reports whether the discount applies at the given time.
func (pc *PriceComputer) Active(d DiscountSpec, now time.Time) bool {
	return d.ActiveAt(now)
}

// EffectivePrice computes the sale price for a base price under a discount
// spec at the given time. Inactive discounts return the base price unchanged.
// Percentage discounts round half-up to the currency minor unit; fixed
// discounts clamp at zero.
func (pc *PriceComputer) EffectivePrice(base *Money, d DiscountSpec, now time.Time) *Money {
	if !d.ActiveAt(now) {
		return base.Copy()
	}

	switch d.Kind() {
	case DiscountKindPercentage:
		multiplier := big.NewRat(d.Percent(), 100)
		discounted := base.Subtract(base.MultiplyByRat(multiplier))
		if discounted.IsNegative() {
			return ZeroMoney()
		}
		return discounted.RoundHalfUp(pc.scale)

	case DiscountKindFixed:
		discounted := base.Subtract(d.Amount())
		if discounted.IsNegative() {
			return ZeroMoney()
		}
		return discounted
	}

	return base.Copy()
}

// VariantPrice resolves the effective price for a variant using the
// three-tier fallback:
//
//  1. the variant's own discount, when it has a positive value and its
//     window is satisfied;
//  2. otherwise the product-level discount when active, applied against the
//     variant's own base price;
//  3. otherwise the variant's base price unmodified.
func (pc *PriceComputer) VariantPrice(p *Product, v *Variant, now time.Time) *Money {
	base := v.EffectiveBasePrice(p)

	if v.State().Live().ActiveAt(now) {
		return pc.EffectivePrice(base, v.State().Live(), now)
	}
	if p.State().Live().ActiveAt(now) {
		return pc.EffectivePrice(base, p.State().Live(), now)
	}
	return base.Copy()
}

// VariantDiscountActive reports whether a variant lookup would resolve to a
// discounted price, through either tier of the fallback.
func (pc *PriceComputer) VariantDiscountActive(p *Product, v *Variant, now time.Time) bool {
	return v.State().Live().ActiveAt(now) || p.State().Live().ActiveAt(now)
}
