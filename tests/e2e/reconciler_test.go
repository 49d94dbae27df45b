package e2e

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/remove_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/set_item_discount"
	"github.com/light-bringer/campaign-pricing-service/tests/testutil"
)

func TestReconciler_DrivesCampaignAcrossItsWindow(t *testing.T) {
	services, mockClock, cleanup := setupTestWithMockClock(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithPrice(100.00).Build())
	require.NoError(t, err)

	now := mockClock.Now()
	resp, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithTargets(created.ProductID).
		WithPercent(20).
		WithWindow(now.Add(time.Hour), now.Add(3*time.Hour)).
		Build())
	require.NoError(t, err)
	require.False(t, resp.Applied, "window not open yet")

	// Pending: a tick must not touch the price.
	require.NoError(t, services.Reconciler.Tick(ctx()))
	price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(100.00)), "got %s", price.Price)

	// Window opens: the tick asserts the overlay.
	mockClock.Advance(2 * time.Hour)
	require.NoError(t, services.Reconciler.Tick(ctx()))

	price, err = services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(80.00)), "got %s", price.Price)
	assert.Equal(t, resp.CampaignID, price.CampaignID)

	campaign, err := services.GetCampaign.Execute(ctx(), &get_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStateActive, campaign.State)

	// Window closes: the tick lifts the overlay and deactivates the campaign.
	mockClock.Advance(2 * time.Hour)
	require.NoError(t, services.Reconciler.Tick(ctx()))

	price, err = services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(100.00)), "got %s", price.Price)
	assert.Empty(t, price.CampaignID)

	campaign, err = services.GetCampaign.Execute(ctx(), &get_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStateExpired, campaign.State)
	testutil.AssertOutboxEvent(t, services.Client, "campaign.expired")

	// Expiry is terminal: further ticks leave everything alone.
	mockClock.Advance(time.Hour)
	require.NoError(t, services.Reconciler.Tick(ctx()))
	campaign, err = services.GetCampaign.Execute(ctx(), &get_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStateExpired, campaign.State)
}

func TestReconciler_ReassertsMissingOverlayMidWindow(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithPrice(100.00).Build())
	require.NoError(t, err)

	now := services.Clock.Now()
	resp, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithTargets(created.ProductID).
		WithPercent(10).
		Build())
	require.NoError(t, err)
	require.True(t, resp.Applied)

	// Knock the overlay off while the campaign is still inside its window.
	_, err = services.RemoveCampaign.Execute(ctx(), &remove_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	require.True(t, price.Price.Equals(money(100.00)))

	require.NoError(t, services.Reconciler.Tick(ctx()))

	price, err = services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(90.00)), "mid-window tick re-asserts the overlay, got %s", price.Price)
	assert.Equal(t, resp.CampaignID, price.CampaignID)
}

func TestReconciler_SweepCorrectsExpiredStandaloneDiscount(t *testing.T) {
	services, mockClock, cleanup := setupTestWithMockClock(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithPrice(50.00).Build())
	require.NoError(t, err)

	now := mockClock.Now()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	err = services.SetItemDiscount.Execute(ctx(), &set_item_discount.Request{
		ProductID: created.ProductID,
		Kind:      domain.DiscountKindPercentage,
		Percent:   20,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	row := testutil.GetProductRow(t, services.Client, created.ProductID)
	stored, err := domain.NewMoney(row.PriceNumerator, row.PriceDenominator)
	require.NoError(t, err)
	require.True(t, stored.Equals(money(40.00)), "materialized price while the window is open")

	// The window closes and the stored price is now stale.
	mockClock.Advance(3 * time.Hour)
	require.NoError(t, services.Reconciler.Tick(ctx()))

	row = testutil.GetProductRow(t, services.Client, created.ProductID)
	stored, err = domain.NewMoney(row.PriceNumerator, row.PriceDenominator)
	require.NoError(t, err)
	assert.True(t, stored.Equals(money(50.00)), "sweep corrected the drifted price, got %s", stored)
}
