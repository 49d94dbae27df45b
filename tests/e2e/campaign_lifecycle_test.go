package e2e

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/apply_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/delete_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/remove_campaign"
	"github.com/light-bringer/campaign-pricing-service/tests/testutil"
)

func TestCampaignLifecycle_ApplyAndRemove(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithName("Headphones").WithPrice(100.00).Build())
	require.NoError(t, err)

	now := services.Clock.Now()
	resp, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("Flash Sale").
		WithTargets(created.ProductID).
		WithPercent(20).
		Build())
	require.NoError(t, err)
	assert.True(t, resp.Applied, "open window applies immediately")
	assert.Equal(t, 1, resp.Run.Total)
	assert.Equal(t, 1, resp.Run.Succeeded)
	assert.Zero(t, resp.Run.Failed)

	price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(80.00)), "got %s", price.Price)
	assert.True(t, price.DiscountActive)
	assert.Equal(t, resp.CampaignID, price.CampaignID)

	campaign, err := services.GetCampaign.Execute(ctx(), &get_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStateActive, campaign.State)
	require.True(t, campaign.HasRun)
	assert.Equal(t, 1, campaign.Run.Succeeded)
	assert.True(t, campaign.Run.Done)

	removed, err := services.RemoveCampaign.Execute(ctx(), &remove_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	assert.Equal(t, 1, removed.Run.Succeeded)

	restored, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, restored.Price.Equals(money(100.00)), "got %s", restored.Price)
	assert.False(t, restored.DiscountActive)
	assert.Empty(t, restored.CampaignID)

	testutil.AssertOutboxEvent(t, services.Client, "campaign.created")
	testutil.AssertOutboxEvent(t, services.Client, "pricing.overlay_applied")
	testutil.AssertOutboxEvent(t, services.Client, "pricing.overlay_removed")
}

func TestCampaignLifecycle_PendingCampaignIsNotApplied(t *testing.T) {
	services, mockClock, cleanup := setupTestWithMockClock(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().Build())
	require.NoError(t, err)

	now := mockClock.Now()
	resp, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithTargets(created.ProductID).
		WithWindow(now.Add(time.Hour), now.Add(2*time.Hour)).
		Build())
	require.NoError(t, err)
	assert.False(t, resp.Applied)

	price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(100.00)))

	campaign, err := services.GetCampaign.Execute(ctx(), &get_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatePending, campaign.State)

	// An operator can push the overlay ahead of the start date.
	applied, err := services.ApplyCampaign.Execute(ctx(), &apply_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Run.Succeeded)

	// The overlay window has not opened, so the price is still undiscounted.
	early, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, early.Price.Equals(money(100.00)))
	assert.Equal(t, resp.CampaignID, early.CampaignID, "the overlay is staged on the product")

	// Once the clock enters the window the discount takes effect.
	mockClock.Advance(90 * time.Minute)
	inWindow, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, inWindow.Price.Equals(money(90.00)), "got %s", inWindow.Price)
	assert.True(t, inWindow.DiscountActive)
}

func TestCampaignLifecycle_CreateExpiredCampaignFails(t *testing.T) {
	services, mockClock, cleanup := setupTestWithMockClock(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().Build())
	require.NoError(t, err)

	now := mockClock.Now()
	_, err = services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithTargets(created.ProductID).
		WithWindow(now.Add(-2*time.Hour), now.Add(-time.Hour)).
		Build())
	assert.ErrorIs(t, err, domain.ErrCampaignExpired)
}

func TestCampaignLifecycle_UnknownTargetFails(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	now := services.Clock.Now()
	_, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithTargets("missing-product").
		Build())
	assert.ErrorIs(t, err, domain.ErrUnknownTarget)
}

func TestCampaignLifecycle_DeleteRemovesOverlayFirst(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithPrice(50.00).Build())
	require.NoError(t, err)

	now := services.Clock.Now()
	resp, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithTargets(created.ProductID).
		WithPercent(50).
		Build())
	require.NoError(t, err)
	require.True(t, resp.Applied)

	deleted, err := services.DeleteCampaign.Execute(ctx(), &delete_campaign.Request{CampaignID: resp.CampaignID})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted.Removed.Succeeded)

	price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(50.00)))

	_, err = services.GetCampaign.Execute(ctx(), &get_campaign.Request{CampaignID: resp.CampaignID})
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)

	testutil.AssertRowCount(t, services.Client, "campaigns", 0)
	testutil.AssertOutboxEvent(t, services.Client, "campaign.deleted")
}
