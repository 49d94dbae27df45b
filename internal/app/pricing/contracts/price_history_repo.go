package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

// Price change reasons recorded in the audit trail.
const (
	ReasonCampaignApplied = "campaign_applied"
	ReasonCampaignRemoved = "campaign_removed"
	ReasonDiscountSet     = "discount_set"
	ReasonSweepCorrection = "sweep_correction"
	ReasonCreated         = "created"
)

// PriceChange is one materialized price movement of a product or variant.
type PriceChange struct {
	HistoryID  string
	ProductID  string
	VariantID  string        // empty for product-level changes
	OldPrice   *domain.Money // nil for the initial price
	NewPrice   *domain.Money
	CampaignID string
	Reason     string
	ChangedAt  time.Time
}

// PriceHistoryRepository defines the interface for price audit persistence.
type PriceHistoryRepository interface {
	// InsertMut creates a mutation recording one price change.
	// oldPrice may be nil for the initial price. Returns an error when a
	// money value exceeds int64 bounds.
	InsertMut(change *PriceChange) (*spanner.Mutation, error)

	// ListByProduct retrieves the price changes of a product and its
	// variants, most recent first.
	ListByProduct(ctx context.Context, productID string, limit int64) ([]PriceChange, error)
}
