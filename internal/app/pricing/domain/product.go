package domain

import (
	"strings"
	"time"
)

// Field constants for change tracking. FieldDiscount covers the whole
// discount-state column group (live, overlay, snapshot); repositories write
// those columns together.
const (
	FieldName      = "name"
	FieldCategory  = "category_id"
	FieldBasePrice = "base_price"
	FieldDiscount  = "discount"
	FieldPrice     = "price"
)

// Product is the aggregate root for pricing: it owns the base price, the
// discount state, and the embedded variants. Discount mutations flow through
// aggregate methods so that snapshots, overlays, and the materialized price
// stay consistent.
type Product struct {
	id            string
	name          string
	categoryID    string
	basePrice     *Money
	price         *Money
	priceAsLoaded *Money // materialized price as read from storage, nil when new
	state         DiscountState
	variants      []*Variant
	version       int64
	createdAt     time.Time
	updatedAt     time.Time
	changes       *ChangeTracker
	events        []DomainEvent
}

// NewProduct creates a new Product with no discount.
func NewProduct(id, name, categoryID string, basePrice *Money, now time.Time) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if basePrice == nil || basePrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	return &Product{
		id:         id,
		name:       strings.TrimSpace(name),
		categoryID: categoryID,
		basePrice:  basePrice,
		price:      basePrice.Copy(),
		state:      NewDiscountState(DiscountPresenceExplicitZero, ZeroDiscount()),
		createdAt:  now,
		updatedAt:  now,
		changes:    NewChangeTracker(),
		events:     make([]DomainEvent, 0),
	}, nil
}

// ReconstructProduct rebuilds a Product from persisted state. Variants are
// attached separately via AttachVariants.
func ReconstructProduct(
	id, name, categoryID string,
	basePrice, price *Money,
	state DiscountState,
	version int64,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:            id,
		name:          name,
		categoryID:    categoryID,
		basePrice:     basePrice,
		price:         price,
		priceAsLoaded: price.Copy(),
		state:         state,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		changes:       NewChangeTracker(),
		events:        make([]DomainEvent, 0),
	}
}

// AttachVariants sets the owned variants loaded alongside the product.
func (p *Product) AttachVariants(variants []*Variant) {
	p.variants = variants
}

func (p *Product) ID() string {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) CategoryID() string {
	return p.categoryID
}

// BasePrice is authoritative and never overwritten by discount logic.
func (p *Product) BasePrice() *Money {
	return p.basePrice
}

// Price returns the materialized effective sale price.
func (p *Product) Price() *Money {
	return p.price
}

// PriceAsLoaded returns the materialized price as it was read from storage,
// or nil for a product not yet persisted. Audit trails use it as the "old"
// side of a price change.
func (p *Product) PriceAsLoaded() *Money {
	return p.priceAsLoaded
}

func (p *Product) State() DiscountState {
	return p.state
}

func (p *Product) Variants() []*Variant {
	return p.variants
}

// Variant returns the owned variant with the given id.
func (p *Product) Variant(variantID string) (*Variant, error) {
	for _, v := range p.variants {
		if v.ID() == variantID {
			return v, nil
		}
	}
	return nil, ErrVariantNotFound
}

func (p *Product) Version() int64 {
	return p.version
}

func (p *Product) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Product) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Product) Changes() *ChangeTracker {
	return p.changes
}

func (p *Product) DomainEvents() []DomainEvent {
	return p.events
}

// ClearEvents clears the accumulated domain events after publication.
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}

// ApplyCampaignOverlay snapshots the standalone discount (first entry only),
// installs the campaign overlay on the product and every owned variant, and
// recomputes materialized prices. Each variant is overlaid against its own
// base price, falling back to the product's when it has none.
//
// Idempotent: re-applying an active campaign refreshes the overlay values
// without overwriting the snapshot.
func (p *Product) ApplyCampaignOverlay(campaignID string, spec DiscountSpec, pc *PriceComputer, now time.Time) {
	p.state.ApplyOverlay(campaignID, spec)
	p.price = pc.EffectivePrice(p.basePrice, p.state.Live(), now)
	p.changes.MarkDirty(FieldDiscount)
	p.changes.MarkDirty(FieldPrice)
	p.updatedAt = now

	for _, v := range p.variants {
		v.applyOverlay(campaignID, spec, pc, p.basePrice, now)
	}

	p.events = append(p.events, &OverlayAppliedEvent{
		ProductID:  p.id,
		CampaignID: campaignID,
		AppliedAt:  now,
	})
}

// RemoveCampaignOverlay restores the standalone discount on the product and
// every owned variant, each from its own snapshot, and recomputes prices.
// Safe to call when no overlay was ever applied.
func (p *Product) RemoveCampaignOverlay(campaignID string, pc *PriceComputer, now time.Time) {
	p.state.RemoveOverlay()
	p.price = pc.EffectivePrice(p.basePrice, p.state.Live(), now)
	p.changes.MarkDirty(FieldDiscount)
	p.changes.MarkDirty(FieldPrice)
	p.updatedAt = now

	for _, v := range p.variants {
		v.removeOverlay(pc, p.basePrice, now)
	}

	p.events = append(p.events, &OverlayRemovedEvent{
		ProductID:  p.id,
		CampaignID: campaignID,
		RemovedAt:  now,
	})
}

// SetStandaloneDiscount records a merchant edit of the product's standalone
// discount. While a campaign overlay is active the edit lands in the snapshot
// and re-emerges when the campaign ends.
func (p *Product) SetStandaloneDiscount(spec DiscountSpec, presence DiscountPresence, pc *PriceComputer, now time.Time) {
	p.state.SetStandalone(spec, presence)
	p.price = pc.EffectivePrice(p.basePrice, p.state.Live(), now)
	p.changes.MarkDirty(FieldDiscount)
	p.changes.MarkDirty(FieldPrice)
	p.updatedAt = now

	p.events = append(p.events, &ItemDiscountSetEvent{
		ProductID: p.id,
		UpdatedAt: now,
	})
}

// SetVariantDiscount records a merchant edit of one variant's standalone
// discount.
func (p *Product) SetVariantDiscount(variantID string, spec DiscountSpec, presence DiscountPresence, pc *PriceComputer, now time.Time) error {
	v, err := p.Variant(variantID)
	if err != nil {
		return err
	}
	v.setStandalone(spec, presence, pc, p.basePrice, now)

	p.events = append(p.events, &ItemDiscountSetEvent{
		ProductID: p.id,
		VariantID: variantID,
		UpdatedAt: now,
	})
	return nil
}

// RecomputePrices recomputes the materialized price of the product and every
// variant from their live discount fields. Returns true if any stored price
// changed; used by the reconciliation sweep to correct drift.
func (p *Product) RecomputePrices(pc *PriceComputer, now time.Time) bool {
	changed := false

	expected := pc.EffectivePrice(p.basePrice, p.state.Live(), now)
	if !p.price.Equals(expected) {
		p.price = expected
		p.changes.MarkDirty(FieldPrice)
		p.updatedAt = now
		changed = true

		p.events = append(p.events, &PriceCorrectedEvent{
			ProductID:   p.id,
			CorrectedAt: now,
		})
	}

	for _, v := range p.variants {
		if v.recomputePrice(pc, p.basePrice, now) {
			changed = true
			p.events = append(p.events, &PriceCorrectedEvent{
				ProductID:   p.id,
				VariantID:   v.ID(),
				CorrectedAt: now,
			})
		}
	}

	return changed
}
