package domain

import (
	"strings"
	"time"
)

// CampaignType selects how targets are interpreted.
type CampaignType string

const (
	// CampaignTypeProduct targets products directly by id.
	CampaignTypeProduct CampaignType = "product"

	// CampaignTypeCategory targets all products under the given categories,
	// resolved at apply time.
	CampaignTypeCategory CampaignType = "category"
)

// CampaignState is the lifecycle position of a campaign at a point in time.
type CampaignState string

const (
	CampaignStatePending CampaignState = "pending"
	CampaignStateActive  CampaignState = "active"
	CampaignStateExpired CampaignState = "expired"
)

// Field constants for campaign change tracking.
const (
	CampaignFieldName     = "name"
	CampaignFieldTargets  = "targets"
	CampaignFieldDiscount = "discount"
	CampaignFieldSchedule = "schedule"
	CampaignFieldIsActive = "is_active"
)

// Campaign is a time-windowed promotional discount over a set of targets.
// Its lifecycle is pending → active → expired; expiry is terminal and driven
// by the reconciliation job, never by the campaign itself.
type Campaign struct {
	id        string
	name      string
	ctype     CampaignType
	targetIDs []string
	kind      DiscountKind
	percent   int64
	amount    *Money
	startDate time.Time
	endDate   time.Time
	isActive  bool
	version   int64
	createdAt time.Time
	updatedAt time.Time
	changes   *ChangeTracker
	events    []DomainEvent
}

// NewCampaign creates a validated Campaign. It starts active in the sense of
// "not yet expired"; whether its overlay is applied depends on the window.
func NewCampaign(
	id, name string,
	ctype CampaignType,
	targetIDs []string,
	kind DiscountKind,
	percent int64,
	amount *Money,
	startDate, endDate time.Time,
	now time.Time,
) (*Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCampaignName
	}
	if ctype != CampaignTypeProduct && ctype != CampaignTypeCategory {
		return nil, ErrInvalidCampaignType
	}
	targets := dedupTargets(targetIDs)
	if len(targets) == 0 {
		return nil, ErrNoCampaignTargets
	}
	if err := validateCampaignDiscount(kind, percent, amount); err != nil {
		return nil, err
	}
	if !endDate.After(startDate) {
		return nil, ErrInvalidCampaignDates
	}
	if amount == nil {
		amount = ZeroMoney()
	}

	c := &Campaign{
		id:        id,
		name:      name,
		ctype:     ctype,
		targetIDs: targets,
		kind:      kind,
		percent:   percent,
		amount:    amount,
		startDate: startDate,
		endDate:   endDate,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}

	c.events = append(c.events, &CampaignCreatedEvent{
		CampaignID: id,
		Name:       name,
		Type:       string(ctype),
		TargetIDs:  targets,
		StartDate:  startDate,
		EndDate:    endDate,
		CreatedAt:  now,
	})

	return c, nil
}

// ReconstructCampaign rebuilds a Campaign from persisted state.
func ReconstructCampaign(
	id, name string,
	ctype CampaignType,
	targetIDs []string,
	kind DiscountKind,
	percent int64,
	amount *Money,
	startDate, endDate time.Time,
	isActive bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Campaign {
	if amount == nil {
		amount = ZeroMoney()
	}
	return &Campaign{
		id:        id,
		name:      name,
		ctype:     ctype,
		targetIDs: targetIDs,
		kind:      kind,
		percent:   percent,
		amount:    amount,
		startDate: startDate,
		endDate:   endDate,
		isActive:  isActive,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}
}

func (c *Campaign) ID() string                  { return c.id }
func (c *Campaign) Name() string                { return c.name }
func (c *Campaign) Type() CampaignType          { return c.ctype }
func (c *Campaign) TargetIDs() []string         { return c.targetIDs }
func (c *Campaign) Kind() DiscountKind          { return c.kind }
func (c *Campaign) Percent() int64              { return c.percent }
func (c *Campaign) Amount() *Money              { return c.amount.Copy() }
func (c *Campaign) StartDate() time.Time        { return c.startDate }
func (c *Campaign) EndDate() time.Time          { return c.endDate }
func (c *Campaign) IsActive() bool              { return c.isActive }
func (c *Campaign) Version() int64              { return c.version }
func (c *Campaign) CreatedAt() time.Time        { return c.createdAt }
func (c *Campaign) UpdatedAt() time.Time        { return c.updatedAt }
func (c *Campaign) Changes() *ChangeTracker     { return c.changes }
func (c *Campaign) DomainEvents() []DomainEvent { return c.events }

// ClearEvents clears the accumulated domain events after publication.
func (c *Campaign) ClearEvents() {
	c.events = make([]DomainEvent, 0)
}

// OverlaySpec returns the discount spec this campaign contributes to its
// targets: the campaign's value with the campaign window as the time bounds.
func (c *Campaign) OverlaySpec() DiscountSpec {
	start := c.startDate
	end := c.endDate
	if c.kind == DiscountKindFixed {
		spec, _ := NewFixedDiscount(c.amount, &start, &end)
		return spec
	}
	spec, _ := NewPercentageDiscount(c.percent, &start, &end)
	return spec
}

// State reports the lifecycle position at the given time. A deactivated
// campaign is expired regardless of the clock: there is no expired → active
// transition even if clock skew makes now re-enter the window.
func (c *Campaign) State(now time.Time) CampaignState {
	if !c.isActive {
		return CampaignStateExpired
	}
	if now.Before(c.startDate) {
		return CampaignStatePending
	}
	if now.After(c.endDate) {
		return CampaignStateExpired
	}
	return CampaignStateActive
}

// ShouldApply reports whether the reconciler should (re)apply the overlay.
func (c *Campaign) ShouldApply(now time.Time) bool {
	return c.isActive && !now.Before(c.startDate) && !now.After(c.endDate)
}

// ShouldExpire reports whether the reconciler should remove the overlay and
// deactivate the campaign.
func (c *Campaign) ShouldExpire(now time.Time) bool {
	return c.isActive && now.After(c.endDate)
}

// Unexpired reports whether this campaign still reserves its targets: its end
// date has not passed, regardless of the isActive flag (an unexpired campaign
// holds its reservation even before its start date).
func (c *Campaign) Unexpired(now time.Time) bool {
	return c.endDate.After(now)
}

// TargetsProduct reports whether the campaign's direct target set contains
// the given product id. Only meaningful for product-type campaigns.
func (c *Campaign) TargetsProduct(productID string) bool {
	for _, id := range c.targetIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Expire deactivates the campaign after its window has passed. Terminal.
func (c *Campaign) Expire(now time.Time) {
	if !c.isActive {
		return
	}
	c.isActive = false
	c.changes.MarkDirty(CampaignFieldIsActive)
	c.updatedAt = now

	c.events = append(c.events, &CampaignExpiredEvent{
		CampaignID: c.id,
		ExpiredAt:  now,
	})
}

// Update replaces the campaign definition. Callers must re-run the conflict
// check when targets or type change. Setting a future end date on an expired
// campaign explicitly reactivates it.
func (c *Campaign) Update(
	name string,
	ctype CampaignType,
	targetIDs []string,
	kind DiscountKind,
	percent int64,
	amount *Money,
	startDate, endDate time.Time,
	now time.Time,
) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCampaignName
	}
	if ctype != CampaignTypeProduct && ctype != CampaignTypeCategory {
		return ErrInvalidCampaignType
	}
	targets := dedupTargets(targetIDs)
	if len(targets) == 0 {
		return ErrNoCampaignTargets
	}
	if err := validateCampaignDiscount(kind, percent, amount); err != nil {
		return err
	}
	if !endDate.After(startDate) {
		return ErrInvalidCampaignDates
	}
	if amount == nil {
		amount = ZeroMoney()
	}

	changes := make(map[string]interface{})
	if name != c.name {
		c.name = name
		c.changes.MarkDirty(CampaignFieldName)
		changes["name"] = name
	}
	if ctype != c.ctype || !equalTargets(targets, c.targetIDs) {
		c.ctype = ctype
		c.targetIDs = targets
		c.changes.MarkDirty(CampaignFieldTargets)
		changes["targets"] = targets
	}
	if kind != c.kind || percent != c.percent || !amount.Equals(c.amount) {
		c.kind = kind
		c.percent = percent
		c.amount = amount
		c.changes.MarkDirty(CampaignFieldDiscount)
		changes["discount"] = string(kind)
	}
	if !startDate.Equal(c.startDate) || !endDate.Equal(c.endDate) {
		c.startDate = startDate
		c.endDate = endDate
		c.changes.MarkDirty(CampaignFieldSchedule)
		changes["schedule"] = endDate
	}
	if !c.isActive && endDate.After(now) {
		c.isActive = true
		c.changes.MarkDirty(CampaignFieldIsActive)
		changes["is_active"] = true
	}

	if len(changes) > 0 {
		c.updatedAt = now
		c.events = append(c.events, &CampaignUpdatedEvent{
			CampaignID: c.id,
			UpdatedAt:  now,
			Changes:    changes,
		})
	}

	return nil
}

func validateCampaignDiscount(kind DiscountKind, percent int64, amount *Money) error {
	switch kind {
	case DiscountKindPercentage:
		if percent <= 0 || percent > 100 {
			return ErrInvalidDiscountPercent
		}
	case DiscountKindFixed:
		if amount == nil || !amount.IsPositive() {
			return ErrInvalidDiscountAmount
		}
	default:
		return ErrInvalidDiscountKind
	}
	return nil
}

func dedupTargets(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func equalTargets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
