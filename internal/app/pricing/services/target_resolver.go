package services

import (
	"context"
	"fmt"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

// TargetResolver expands a campaign's target list into the product aggregates
// it currently covers. Category targets resolve to whatever products sit in
// those categories at call time.
type TargetResolver struct {
	products contracts.ProductRepository
	expander contracts.CategoryExpander
}

// NewTargetResolver creates a new TargetResolver.
func NewTargetResolver(products contracts.ProductRepository, expander contracts.CategoryExpander) *TargetResolver {
	return &TargetResolver{
		products: products,
		expander: expander,
	}
}

// Resolve loads the products a campaign targets right now, variants attached.
// Product targets that no longer exist are skipped.
func (r *TargetResolver) Resolve(ctx context.Context, campaign *domain.Campaign) ([]*domain.Product, error) {
	switch campaign.Type() {
	case domain.CampaignTypeCategory:
		products, err := r.products.ListByCategories(ctx, campaign.TargetIDs())
		if err != nil {
			return nil, fmt.Errorf("resolve category targets: %w", err)
		}
		return products, nil
	default:
		products, err := r.products.ListByIDs(ctx, campaign.TargetIDs())
		if err != nil {
			return nil, fmt.Errorf("resolve product targets: %w", err)
		}
		return products, nil
	}
}

// ResolveIDs expands a campaign's targets to product IDs without loading the
// aggregates. Conflict checking works on this footprint.
func (r *TargetResolver) ResolveIDs(ctx context.Context, campaign *domain.Campaign) ([]string, error) {
	if campaign.Type() == domain.CampaignTypeCategory {
		ids, err := r.expander.ExpandCategories(ctx, campaign.TargetIDs())
		if err != nil {
			return nil, fmt.Errorf("expand categories: %w", err)
		}
		return ids, nil
	}
	return campaign.TargetIDs(), nil
}
