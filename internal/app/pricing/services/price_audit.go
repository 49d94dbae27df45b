package services

import (
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

// PriceChangeMuts builds audit trail mutations for every materialized price
// that moved on the product or its variants since they were loaded. Items
// whose price did not change produce no row.
func PriceChangeMuts(
	history contracts.PriceHistoryRepository,
	product *domain.Product,
	campaignID, reason string,
	now time.Time,
) ([]*spanner.Mutation, error) {
	muts := make([]*spanner.Mutation, 0)

	old := product.PriceAsLoaded()
	if old == nil || !old.Equals(product.Price()) {
		mut, err := history.InsertMut(&contracts.PriceChange{
			HistoryID:  uuid.New().String(),
			ProductID:  product.ID(),
			OldPrice:   old,
			NewPrice:   product.Price(),
			CampaignID: campaignID,
			Reason:     reason,
			ChangedAt:  now,
		})
		if err != nil {
			return nil, err
		}
		muts = append(muts, mut)
	}

	for _, v := range product.Variants() {
		if v.Price() == nil {
			// Inheriting variant that has never been priced.
			continue
		}
		oldPrice := v.PriceAsLoaded()
		if oldPrice != nil && oldPrice.Equals(v.Price()) {
			continue
		}
		mut, err := history.InsertMut(&contracts.PriceChange{
			HistoryID:  uuid.New().String(),
			ProductID:  product.ID(),
			VariantID:  v.ID(),
			OldPrice:   oldPrice,
			NewPrice:   v.Price(),
			CampaignID: campaignID,
			Reason:     reason,
			ChangedAt:  now,
		})
		if err != nil {
			return nil, err
		}
		muts = append(muts, mut)
	}

	return muts, nil
}
