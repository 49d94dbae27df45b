package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

// CampaignRepository defines the interface for campaign persistence.
// Repositories return mutations, they don't apply them.
type CampaignRepository interface {
	// InsertMut creates a mutation for inserting a new campaign.
	// Returns error if money values exceed int64 bounds.
	InsertMut(campaign *domain.Campaign) (*spanner.Mutation, error)

	// UpdateMut creates a mutation for updating a campaign (only dirty
	// fields). Returns nil when nothing changed.
	UpdateMut(campaign *domain.Campaign) (*spanner.Mutation, error)

	// DeleteMut creates a mutation for deleting a campaign.
	DeleteMut(campaignID string) *spanner.Mutation

	// GetByID retrieves a campaign by ID.
	GetByID(ctx context.Context, campaignID string) (*domain.Campaign, error)

	// ListUnexpired retrieves every campaign whose end date is still in the
	// future, regardless of the is_active flag. Feeds the conflict check.
	ListUnexpired(ctx context.Context, now time.Time) ([]*domain.Campaign, error)

	// ListAll retrieves every campaign. Feeds the reconciliation pass, which
	// decides per campaign whether to apply, expire, or skip.
	ListAll(ctx context.Context) ([]*domain.Campaign, error)

	// List retrieves a page of campaigns ordered by creation time descending.
	List(ctx context.Context, limit, offset int64) ([]*domain.Campaign, error)

	// Count returns the total number of campaigns.
	Count(ctx context.Context) (int64, error)
}
