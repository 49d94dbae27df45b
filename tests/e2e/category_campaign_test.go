package e2e

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/list_campaigns"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/update_campaign"
)

func TestCategoryCampaign_CoversWholeCategory(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	var bookIDs []string
	for _, name := range []string{"Novel", "Atlas", "Cookbook"} {
		created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().
			WithName(name).
			WithCategory("cat-books").
			WithPrice(40.00).
			Build())
		require.NoError(t, err)
		bookIDs = append(bookIDs, created.ProductID)
	}
	outsider, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().
		WithName("Lamp").
		WithCategory("cat-furniture").
		WithPrice(40.00).
		Build())
	require.NoError(t, err)

	now := services.Clock.Now()
	resp, err := services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("Book Week").
		WithCategories("cat-books").
		WithPercent(25).
		Build())
	require.NoError(t, err)
	require.True(t, resp.Applied)
	assert.Equal(t, 3, resp.Run.Total)
	assert.Equal(t, 3, resp.Run.Succeeded)

	for _, id := range bookIDs {
		price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: id})
		require.NoError(t, err)
		assert.True(t, price.Price.Equals(money(30.00)), "product %s got %s", id, price.Price)
		assert.Equal(t, resp.CampaignID, price.CampaignID)
	}

	untouched, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: outsider.ProductID})
	require.NoError(t, err)
	assert.True(t, untouched.Price.Equals(money(40.00)))
	assert.Empty(t, untouched.CampaignID)
}

func TestCategoryCampaign_EmptyCategoryRejected(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	_, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().
		WithCategory("cat-books").
		Build())
	require.NoError(t, err)

	now := services.Clock.Now()
	_, err = services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("Ghost Town Sale").
		WithCategories("cat-empty").
		Build())
	assert.ErrorIs(t, err, domain.ErrUnknownTarget, "a category with no products is not a valid target")

	page, err := services.ListCampaigns.Execute(ctx(), &list_campaigns.Request{})
	require.NoError(t, err)
	assert.Zero(t, page.Total, "nothing persisted for the rejected campaign")
}

func TestCampaignConflict_OverlappingProductTargets(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().Build())
	require.NoError(t, err)

	now := services.Clock.Now()
	_, err = services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("First").
		WithTargets(created.ProductID).
		Build())
	require.NoError(t, err)

	_, err = services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("Second").
		WithTargets(created.ProductID).
		Build())
	assert.ErrorIs(t, err, domain.ErrCampaignConflict)
}

func TestCampaignConflict_PendingCampaignReservesTargets(t *testing.T) {
	services, mockClock, cleanup := setupTestWithMockClock(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().Build())
	require.NoError(t, err)

	now := mockClock.Now()
	_, err = services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("Next Month").
		WithTargets(created.ProductID).
		WithWindow(now.Add(30*24*time.Hour), now.Add(37*24*time.Hour)).
		Build())
	require.NoError(t, err)

	_, err = services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("Today").
		WithTargets(created.ProductID).
		Build())
	assert.ErrorIs(t, err, domain.ErrCampaignConflict, "an upcoming campaign already reserves the product")
}

func TestCampaignConflict_CategoryFootprintChecked(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	created, err := services.CreateProduct.Execute(ctx(), NewProductBuilder().WithCategory("cat-books").Build())
	require.NoError(t, err)

	now := services.Clock.Now()
	_, err = services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("Product Deal").
		WithTargets(created.ProductID).
		Build())
	require.NoError(t, err)

	_, err = services.CreateCampaign.Execute(ctx(), NewCampaignBuilder(now).
		WithName("Category Deal").
		WithCategories("cat-books").
		Build())
	assert.ErrorIs(t, err, domain.ErrCampaignConflict, "the expanded category footprint hits the reserved product")
}

func TestCampaignUpdate_ReappliesNewDefinition(t *testing.T) {
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

	updated, err := services.UpdateCampaign.Execute(ctx(), &update_campaign.Request{
		CampaignID: resp.CampaignID,
		Name:       "Deeper Cut",
		Type:       domain.CampaignTypeProduct,
		TargetIDs:  []string{created.ProductID},
		Kind:       domain.DiscountKindPercentage,
		Percent:    30,
		StartDate:  now.Add(-time.Hour),
		EndDate:    now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.True(t, updated.Applied)
	assert.Equal(t, 1, updated.Run.Succeeded)

	price, err := services.GetPrice.Execute(ctx(), &get_price.Request{ProductID: created.ProductID})
	require.NoError(t, err)
	assert.True(t, price.Price.Equals(money(70.00)), "got %s", price.Price)
}
