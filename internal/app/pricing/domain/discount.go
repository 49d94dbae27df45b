package domain

import (
	"time"
)

// DiscountKind selects how a discount value is interpreted.
type DiscountKind string

const (
	// DiscountKindPercentage discounts a percentage of the base price.
	DiscountKindPercentage DiscountKind = "percentage"

	// DiscountKindFixed discounts a fixed amount off the base price.
	DiscountKindFixed DiscountKind = "fixed"
)

// DiscountPresence records the merchant's intent for an item's own standalone
// discount. The three states keep the variant fallback rule unambiguous: an
// inherited or explicitly-zeroed variant discount still falls back to the
// product-level discount at read time, but restores to its own state after a
// campaign ends.
type DiscountPresence string

const (
	// DiscountPresenceInherit means the item never had a discount of its own.
	DiscountPresenceInherit DiscountPresence = "inherit"

	// DiscountPresenceExplicitZero means a merchant explicitly cleared the discount.
	DiscountPresenceExplicitZero DiscountPresence = "explicit_zero"

	// DiscountPresenceExplicitValue means the item carries its own discount value.
	DiscountPresenceExplicitValue DiscountPresence = "explicit_value"
)

// DiscountSpec is a time-windowed discount description. The same shape is used
// for an item's standalone discount, a campaign overlay, and the snapshot
// taken before an overlay begins.
//
// Exactly one of percent/amount is meaningful depending on Kind; constructors
// force the other to zero. A nil start or end bound is open-ended on that
// side; both bounds nil with a positive value means always active (legacy
// seed data).
type DiscountSpec struct {
	kind    DiscountKind
	percent int64
	amount  *Money
	start   *time.Time
	end     *time.Time
}

// ZeroDiscount returns the no-discount spec.
func ZeroDiscount() DiscountSpec {
	return DiscountSpec{
		kind:    DiscountKindPercentage,
		percent: 0,
		amount:  ZeroMoney(),
	}
}

// NewPercentageDiscount creates a percentage discount spec with validation.
func NewPercentageDiscount(percent int64, start, end *time.Time) (DiscountSpec, error) {
	if percent < 0 || percent > 100 {
		return DiscountSpec{}, ErrInvalidDiscountPercent
	}
	if err := validateWindow(start, end); err != nil {
		return DiscountSpec{}, err
	}
	return DiscountSpec{
		kind:    DiscountKindPercentage,
		percent: percent,
		amount:  ZeroMoney(),
		start:   copyTimePtr(start),
		end:     copyTimePtr(end),
	}, nil
}

// NewFixedDiscount creates a fixed-amount discount spec with validation.
func NewFixedDiscount(amount *Money, start, end *time.Time) (DiscountSpec, error) {
	if amount == nil || amount.IsNegative() {
		return DiscountSpec{}, ErrInvalidDiscountAmount
	}
	if err := validateWindow(start, end); err != nil {
		return DiscountSpec{}, err
	}
	return DiscountSpec{
		kind:   DiscountKindFixed,
		amount: amount.Copy(),
		start:  copyTimePtr(start),
		end:    copyTimePtr(end),
	}, nil
}

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return ErrInvalidDiscountPeriod
	}
	return nil
}

// Kind returns how the discount value is interpreted.
func (d DiscountSpec) Kind() DiscountKind {
	if d.kind == "" {
		return DiscountKindPercentage
	}
	return d.kind
}

// Percent returns the discount percentage (0-100).
func (d DiscountSpec) Percent() int64 {
	return d.percent
}

// Amount returns the fixed discount amount.
func (d DiscountSpec) Amount() *Money {
	if d.amount == nil {
		return ZeroMoney()
	}
	return d.amount.Copy()
}

// StartTime returns the window start, or nil when open-ended.
func (d DiscountSpec) StartTime() *time.Time {
	return copyTimePtr(d.start)
}

// EndTime returns the window end, or nil when open-ended.
func (d DiscountSpec) EndTime() *time.Time {
	return copyTimePtr(d.end)
}

// HasValue reports whether the spec carries a positive discount value.
func (d DiscountSpec) HasValue() bool {
	if d.Kind() == DiscountKindPercentage {
		return d.percent > 0
	}
	return d.amount != nil && d.amount.IsPositive()
}

// ActiveAt reports whether the discount is in effect at the given time.
// The window is inclusive on both ends. Missing bounds are open-ended; a
// positive value with no bounds at all is treated as always active.
func (d DiscountSpec) ActiveAt(now time.Time) bool {
	if !d.HasValue() {
		return false
	}
	if d.start != nil && now.Before(*d.start) {
		return false
	}
	if d.end != nil && now.After(*d.end) {
		return false
	}
	return true
}

// Equal reports whether two specs describe the same discount.
func (d DiscountSpec) Equal(other DiscountSpec) bool {
	if d.Kind() != other.Kind() || d.percent != other.percent {
		return false
	}
	if !d.Amount().Equals(other.Amount()) {
		return false
	}
	return timePtrEqual(d.start, other.start) && timePtrEqual(d.end, other.end)
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	tt := *t
	return &tt
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
