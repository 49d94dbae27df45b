package services

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

// ConflictChecker rejects campaigns whose product footprint overlaps an
// unexpired product-type campaign. Expiry is judged purely on the end date:
// a deactivated campaign whose window has not passed still holds its
// reservation, and a pending one reserves its targets ahead of its start.
//
// Category-type campaigns are checked against product-type reservations via
// their expanded footprint, but two category campaigns over the same category
// are not detected. Resolving that would need category reservations of their
// own.
type ConflictChecker struct {
	campaigns contracts.CampaignRepository
	resolver  *TargetResolver
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(campaigns contracts.CampaignRepository, resolver *TargetResolver) *ConflictChecker {
	return &ConflictChecker{
		campaigns: campaigns,
		resolver:  resolver,
	}
}

// Check returns ErrCampaignConflict when the candidate campaign's footprint
// overlaps an unexpired product-type campaign. excludeID skips the campaign
// being updated so it does not conflict with itself.
func (c *ConflictChecker) Check(ctx context.Context, candidate *domain.Campaign, excludeID string, now time.Time) error {
	footprint, err := c.resolver.ResolveIDs(ctx, candidate)
	if err != nil {
		return err
	}
	if len(footprint) == 0 {
		return nil
	}

	existing, err := c.campaigns.ListUnexpired(ctx, now)
	if err != nil {
		return fmt.Errorf("list unexpired campaigns: %w", err)
	}

	for _, other := range existing {
		if other.ID() == excludeID {
			continue
		}
		if other.Type() != domain.CampaignTypeProduct {
			continue
		}
		for _, productID := range footprint {
			if other.TargetsProduct(productID) {
				return fmt.Errorf("%w: product %s held by campaign %s", domain.ErrCampaignConflict, productID, other.ID())
			}
		}
	}
	return nil
}
