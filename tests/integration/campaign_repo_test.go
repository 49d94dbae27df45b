//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/repo"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/tests/testutil"
)

func TestCampaignRepo_InsertMut(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	repository := repo.NewCampaignRepo(client, clock.NewMockClock(now))

	campaign, err := domain.NewCampaign(
		"camp-1", "Summer Sale",
		domain.CampaignTypeProduct,
		[]string{"prod-1", "prod-2"},
		domain.DiscountKindPercentage, 15, nil,
		now.Add(-time.Hour), now.Add(24*time.Hour),
		now,
	)
	require.NoError(t, err)

	mut, err := repository.InsertMut(campaign)
	require.NoError(t, err)
	_, err = client.Apply(ctx, []*spanner.Mutation{mut})
	require.NoError(t, err)

	retrieved, err := repository.GetByID(ctx, "camp-1")
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", retrieved.Name())
	assert.Equal(t, domain.CampaignTypeProduct, retrieved.Type())
	assert.Equal(t, []string{"prod-1", "prod-2"}, retrieved.TargetIDs())
	assert.Equal(t, domain.DiscountKindPercentage, retrieved.Kind())
	assert.Equal(t, int64(15), retrieved.Percent())
	assert.True(t, retrieved.IsActive())
	assert.Equal(t, domain.CampaignStateActive, retrieved.State(now))
}

func TestCampaignRepo_InsertMut_FixedAmount(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	repository := repo.NewCampaignRepo(client, clock.NewMockClock(now))

	amount, _ := domain.NewMoney(500, 100) // 5.00 off
	campaign, err := domain.NewCampaign(
		"camp-fixed", "Five Off",
		domain.CampaignTypeCategory,
		[]string{"cat-books"},
		domain.DiscountKindFixed, 0, amount,
		now, now.Add(48*time.Hour),
		now,
	)
	require.NoError(t, err)

	mut, err := repository.InsertMut(campaign)
	require.NoError(t, err)
	_, err = client.Apply(ctx, []*spanner.Mutation{mut})
	require.NoError(t, err)

	retrieved, err := repository.GetByID(ctx, "camp-fixed")
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignTypeCategory, retrieved.Type())
	assert.Equal(t, domain.DiscountKindFixed, retrieved.Kind())
	assert.True(t, retrieved.Amount().Equals(amount))
}

func TestCampaignRepo_UpdateMut_OnlyDirtyFields(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	repository := repo.NewCampaignRepo(client, clock.NewMockClock(now))

	campaignID := testutil.CreateTestCampaign(t, client, "Original", []string{"prod-1"}, 10, now, now.Add(24*time.Hour))

	retrieved, err := repository.GetByID(ctx, campaignID)
	require.NoError(t, err)

	// Nothing changed yet.
	mut, err := repository.UpdateMut(retrieved)
	require.NoError(t, err)
	assert.Nil(t, mut, "expected nil mutation when nothing changed")

	err = retrieved.Update(
		"Renamed",
		retrieved.Type(), retrieved.TargetIDs(),
		retrieved.Kind(), retrieved.Percent(), nil,
		retrieved.StartDate(), retrieved.EndDate(),
		now,
	)
	require.NoError(t, err)

	mut, err = repository.UpdateMut(retrieved)
	require.NoError(t, err)
	require.NotNil(t, mut)
	_, err = client.Apply(ctx, []*spanner.Mutation{mut})
	require.NoError(t, err)

	final, err := repository.GetByID(ctx, campaignID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", final.Name())
	assert.Equal(t, int64(1), final.Version(), "update bumps the row version")
}

func TestCampaignRepo_GetByID_NotFound(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	repository := repo.NewCampaignRepo(client, clock.NewRealClock())

	_, err := repository.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestCampaignRepo_ListUnexpired(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	now := time.Now()
	repository := repo.NewCampaignRepo(client, clock.NewMockClock(now))

	running := testutil.CreateTestCampaign(t, client, "Running", []string{"prod-1"}, 10, now.Add(-time.Hour), now.Add(time.Hour))
	upcoming := testutil.CreateTestCampaign(t, client, "Upcoming", []string{"prod-2"}, 20, now.Add(time.Hour), now.Add(2*time.Hour))
	testutil.CreateTestCampaign(t, client, "Over", []string{"prod-3"}, 30, now.Add(-2*time.Hour), now.Add(-time.Hour))

	campaigns, err := repository.ListUnexpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, campaigns, 2, "an upcoming campaign still reserves its targets")

	ids := []string{campaigns[0].ID(), campaigns[1].ID()}
	assert.ElementsMatch(t, []string{running, upcoming}, ids)
}

func TestCampaignRepo_ListAndCount(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	repository := repo.NewCampaignRepo(client, clock.NewMockClock(now))

	for i := 0; i < 3; i++ {
		testutil.CreateTestCampaign(t, client, "Campaign", []string{"prod-1"}, 10, now, now.Add(time.Hour))
	}

	total, err := repository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	page, err := repository.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := repository.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestCampaignRepo_DeleteMut(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	repository := repo.NewCampaignRepo(client, clock.NewMockClock(now))

	campaignID := testutil.CreateTestCampaign(t, client, "Short Lived", []string{"prod-1"}, 10, now, now.Add(time.Hour))

	_, err := client.Apply(ctx, []*spanner.Mutation{repository.DeleteMut(campaignID)})
	require.NoError(t, err)

	testutil.AssertRowCount(t, client, "campaigns", 0)
}
