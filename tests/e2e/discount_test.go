package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/remove_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/set_item_discount"
)

func TestDiscount_SetAndClearStandalone(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithPrice(200.00).Build())
	require.NoError(t, err)

	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		Kind:      domain.DiscountKindPercentage,
		Percent:   25,
	})
	require.NoError(t, err)

	price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(150.00)), "got %s", price.Price)
	assert.True(t, price.DiscountActive)

	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		Clear:     true,
	})
	require.NoError(t, err)

	cleared, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, cleared.Price.Equals(money(200.00)))
	assert.False(t, cleared.DiscountActive)
}

func TestDiscount_FixedDiscountNeverGoesNegative(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithPrice(5.00).Build())
	require.NoError(t, err)

	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		Kind:      domain.DiscountKindFixed,
		Amount:    money(10.00),
	})
	require.NoError(t, err)

	price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.IsZero(), "price clamps at zero, got %s", price.Price)
}

func TestDiscount_CampaignSnapshotRestoresStandalone(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithPrice(1000.00).Build())
	require.NoError(t, err)

	// Standalone 10% off: 1000 -> 900.
	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		Kind:      domain.DiscountKindPercentage,
		Percent:   10,
	})
	require.NoError(t, err)

	// Campaign overlay of 200 off replaces it: 1000 -> 800.
	now := services.Clock.Now()
	campaign, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithTargets(created.ProductID).
		WithFixedAmount(200.00).
		Build())
	require.NoError(t, err)
	require.True(t, campaign.Applied)

	overlaid, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, overlaid.Price.Equals(money(800.00)), "got %s", overlaid.Price)
	assert.Equal(t, campaign.CampaignID, overlaid.CampaignID)

	// Removal restores the snapshotted standalone discount: 1000 -> 900.
	_, err = services.RemoveCampaign.Execute(ctx(), &remove_campaign.Request{CampaignID: campaign.CampaignID})
	require.NoError(t, err)

	restored, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, restored.Price.Equals(money(900.00)), "got %s", restored.Price)
	assert.True(t, restored.DiscountActive)
	assert.Empty(t, restored.CampaignID)
}

func TestDiscount_EditDuringOverlayLandsAfterRemoval(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithPrice(1000.00).Build())
	require.NoError(t, err)

	now := services.Clock.Now()
	campaign, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithTargets(created.ProductID).
		WithFixedAmount(200.00).
		Build())
	require.NoError(t, err)
	require.True(t, campaign.Applied)

	// A merchant edit during the campaign goes to the snapshot, not the live
	// price.
	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		Kind:      domain.DiscountKindFixed,
		Amount:    money(300.00),
	})
	require.NoError(t, err)

	during, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, during.Price.Equals(money(800.00)), "overlay still wins, got %s", during.Price)

	_, err = services.RemoveCampaign.Execute(ctx(), &remove_campaign.Request{CampaignID: campaign.CampaignID})
	require.NoError(t, err)

	after, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, after.Price.Equals(money(700.00)), "edit surfaces after removal, got %s", after.Price)
}

func TestDiscount_VariantFallback(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().
		WithPrice(100.00).
		WithVariant("Inherits", 0).
		WithVariant("Own Price", 120.00).
		Build())
	require.NoError(t, err)
	require.Len(t, created.VariantIDs, 2)
	inheriting, ownPrice := created.VariantIDs[0], created.VariantIDs[1]

	// Product-level 10% falls through to both variants.
	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		Kind:      domain.DiscountKindPercentage,
		Percent:   10,
	})
	require.NoError(t, err)

	inherited, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID, VariantID: inheriting})
	require.NoError(t, err)
	assert.True(t, inherited.BasePrice.Equals(money(100.00)), "inherits the product base price")
	assert.True(t, inherited.Price.Equals(money(90.00)), "got %s", inherited.Price)

	own, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID, VariantID: ownPrice})
	require.NoError(t, err)
	assert.True(t, own.BasePrice.Equals(money(120.00)))
	assert.True(t, own.Price.Equals(money(108.00)), "product discount against own base, got %s", own.Price)

	// A variant discount takes precedence over the product's.
	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		VariantID: ownPrice,
		Kind:      domain.DiscountKindPercentage,
		Percent:   50,
	})
	require.NoError(t, err)

	overridden, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID, VariantID: ownPrice})
	require.NoError(t, err)
	assert.True(t, overridden.Price.Equals(money(60.00)), "got %s", overridden.Price)

	// An explicitly cleared variant discount still falls back to the product.
	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		VariantID: ownPrice,
		Clear:     true,
	})
	require.NoError(t, err)

	fallback, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID, VariantID: ownPrice})
	require.NoError(t, err)
	assert.True(t, fallback.Price.Equals(money(108.00)), "got %s", fallback.Price)
}
