package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// CampaignCreatedEvent is emitted when a campaign is created.
type CampaignCreatedEvent struct {
	CampaignID string
	Name       string
	Type       string
	TargetIDs  []string
	StartDate  time.Time
	EndDate    time.Time
	CreatedAt  time.Time
}

func (e *CampaignCreatedEvent) EventType() string   { return "campaign.created" }
func (e *CampaignCreatedEvent) AggregateID() string { return e.CampaignID }

// CampaignUpdatedEvent is emitted when a campaign's definition changes.
type CampaignUpdatedEvent struct {
	CampaignID string
	UpdatedAt  time.Time
	Changes    map[string]interface{}
}

func (e *CampaignUpdatedEvent) EventType() string   { return "campaign.updated" }
func (e *CampaignUpdatedEvent) AggregateID() string { return e.CampaignID }

// CampaignExpiredEvent is emitted when the reconciler deactivates a campaign
// whose end date has passed.
type CampaignExpiredEvent struct {
	CampaignID string
	ExpiredAt  time.Time
}

func (e *CampaignExpiredEvent) EventType() string   { return "campaign.expired" }
func (e *CampaignExpiredEvent) AggregateID() string { return e.CampaignID }

// CampaignDeletedEvent is emitted when a campaign is deleted through the API.
type CampaignDeletedEvent struct {
	CampaignID string
	DeletedAt  time.Time
}

func (e *CampaignDeletedEvent) EventType() string   { return "campaign.deleted" }
func (e *CampaignDeletedEvent) AggregateID() string { return e.CampaignID }

// OverlayAppliedEvent is emitted per item when a campaign overlay is applied.
type OverlayAppliedEvent struct {
	ProductID  string
	CampaignID string
	AppliedAt  time.Time
}

func (e *OverlayAppliedEvent) EventType() string   { return "pricing.overlay_applied" }
func (e *OverlayAppliedEvent) AggregateID() string { return e.ProductID }

// OverlayRemovedEvent is emitted per item when a campaign overlay is removed
// and the standalone discount restored.
type OverlayRemovedEvent struct {
	ProductID  string
	CampaignID string
	RemovedAt  time.Time
}

func (e *OverlayRemovedEvent) EventType() string   { return "pricing.overlay_removed" }
func (e *OverlayRemovedEvent) AggregateID() string { return e.ProductID }

// ItemDiscountSetEvent is emitted when a merchant edits a standalone discount.
type ItemDiscountSetEvent struct {
	ProductID string
	VariantID string // empty for product-level edits
	UpdatedAt time.Time
}

func (e *ItemDiscountSetEvent) EventType() string   { return "pricing.discount_set" }
func (e *ItemDiscountSetEvent) AggregateID() string { return e.ProductID }

// PriceCorrectedEvent is emitted when the reconciliation sweep fixes a
// drifted materialized price.
type PriceCorrectedEvent struct {
	ProductID   string
	VariantID   string // empty for product-level corrections
	CorrectedAt time.Time
}

func (e *PriceCorrectedEvent) EventType() string   { return "pricing.price_corrected" }
func (e *PriceCorrectedEvent) AggregateID() string { return e.ProductID }
