package domain

import (
	"time"
)

// Variant is an owned child of a Product (a size/color combination). It
// carries its own discount state and snapshot independently of the parent,
// because campaign overlays snapshot and restore each variant from its own
// fields, never from the product's.
type Variant struct {
	id            string
	productID     string
	name          string
	basePrice     *Money // nil means the product's base price applies
	price         *Money
	priceAsLoaded *Money
	state         DiscountState
	version       int64
	createdAt     time.Time
	updatedAt     time.Time
	changes       *ChangeTracker
}

// NewVariant creates a new Variant. basePrice may be nil, in which case the
// parent product's base price governs pricing.
func NewVariant(id, productID, name string, basePrice *Money, now time.Time) (*Variant, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if basePrice != nil && basePrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	var price *Money
	if basePrice != nil {
		price = basePrice.Copy()
	}

	return &Variant{
		id:        id,
		productID: productID,
		name:      name,
		basePrice: basePrice,
		price:     price,
		state:     NewDiscountState(DiscountPresenceInherit, ZeroDiscount()),
		createdAt: now,
		updatedAt: now,
		changes:   NewChangeTracker(),
	}, nil
}

// ReconstructVariant rebuilds a Variant from persisted state.
func ReconstructVariant(
	id, productID, name string,
	basePrice, price *Money,
	state DiscountState,
	version int64,
	createdAt, updatedAt time.Time,
) *Variant {
	loaded := price
	if loaded != nil {
		loaded = loaded.Copy()
	}
	return &Variant{
		id:            id,
		productID:     productID,
		name:          name,
		basePrice:     basePrice,
		price:         price,
		priceAsLoaded: loaded,
		state:         state,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		changes:       NewChangeTracker(),
	}
}

func (v *Variant) ID() string {
	return v.id
}

func (v *Variant) ProductID() string {
	return v.productID
}

func (v *Variant) Name() string {
	return v.name
}

// BasePrice returns the variant's own base price, or nil when it inherits the
// product's.
func (v *Variant) BasePrice() *Money {
	return v.basePrice
}

// Price returns the materialized effective price. May be nil when the variant
// inherits the product base price and has never been priced.
func (v *Variant) Price() *Money {
	return v.price
}

// PriceAsLoaded returns the materialized price as it was read from storage,
// or nil for a variant not yet persisted.
func (v *Variant) PriceAsLoaded() *Money {
	return v.priceAsLoaded
}

func (v *Variant) State() DiscountState {
	return v.state
}

func (v *Variant) Version() int64 {
	return v.version
}

func (v *Variant) CreatedAt() time.Time {
	return v.createdAt
}

func (v *Variant) UpdatedAt() time.Time {
	return v.updatedAt
}

func (v *Variant) Changes() *ChangeTracker {
	return v.changes
}

// EffectiveBasePrice resolves the base price used for this variant's pricing:
// its own when set, otherwise the parent product's.
func (v *Variant) EffectiveBasePrice(p *Product) *Money {
	if v.basePrice != nil {
		return v.basePrice.Copy()
	}
	return p.BasePrice().Copy()
}

// applyOverlay enters or refreshes a campaign overlay on this variant and
// recomputes its price against its own base price.
func (v *Variant) applyOverlay(campaignID string, spec DiscountSpec, pc *PriceComputer, productBase *Money, now time.Time) {
	v.state.ApplyOverlay(campaignID, spec)
	v.recompute(pc, productBase, now)
	v.changes.MarkDirty(FieldDiscount)
	v.updatedAt = now
}

// removeOverlay restores this variant's standalone discount from its own
// snapshot and recomputes its price.
func (v *Variant) removeOverlay(pc *PriceComputer, productBase *Money, now time.Time) {
	v.state.RemoveOverlay()
	v.recompute(pc, productBase, now)
	v.changes.MarkDirty(FieldDiscount)
	v.updatedAt = now
}

// setStandalone records a merchant edit of this variant's standalone discount.
func (v *Variant) setStandalone(spec DiscountSpec, presence DiscountPresence, pc *PriceComputer, productBase *Money, now time.Time) {
	v.state.SetStandalone(spec, presence)
	v.recompute(pc, productBase, now)
	v.changes.MarkDirty(FieldDiscount)
	v.updatedAt = now
}

// recomputePrice recomputes the materialized price from the live discount
// fields. Returns true if the stored price changed.
func (v *Variant) recomputePrice(pc *PriceComputer, productBase *Money, now time.Time) bool {
	base := productBase
	if v.basePrice != nil {
		base = v.basePrice
	}
	expected := pc.EffectivePrice(base, v.state.Live(), now)
	if v.price != nil && v.price.Equals(expected) {
		return false
	}
	v.price = expected
	v.changes.MarkDirty(FieldPrice)
	v.updatedAt = now
	return true
}

func (v *Variant) recompute(pc *PriceComputer, productBase *Money, now time.Time) {
	base := productBase
	if v.basePrice != nil {
		base = v.basePrice
	}
	v.price = pc.EffectivePrice(base, v.state.Live(), now)
	v.changes.MarkDirty(FieldPrice)
}
