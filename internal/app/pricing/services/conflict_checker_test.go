package services

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

type fakeCampaignRepo struct {
	unexpired []*domain.Campaign
}

func (f *fakeCampaignRepo) InsertMut(*domain.Campaign) (*spanner.Mutation, error) { return nil, nil }
func (f *fakeCampaignRepo) UpdateMut(*domain.Campaign) (*spanner.Mutation, error) { return nil, nil }
func (f *fakeCampaignRepo) DeleteMut(string) *spanner.Mutation                    { return nil }
func (f *fakeCampaignRepo) GetByID(context.Context, string) (*domain.Campaign, error) {
	return nil, domain.ErrCampaignNotFound
}
func (f *fakeCampaignRepo) ListUnexpired(context.Context, time.Time) ([]*domain.Campaign, error) {
	return f.unexpired, nil
}
func (f *fakeCampaignRepo) ListAll(context.Context) ([]*domain.Campaign, error) { return nil, nil }
func (f *fakeCampaignRepo) List(context.Context, int64, int64) ([]*domain.Campaign, error) {
	return nil, nil
}
func (f *fakeCampaignRepo) Count(context.Context) (int64, error) { return 0, nil }

type fakeExpander struct {
	byCategory map[string][]string
}

func (f *fakeExpander) ExpandCategories(_ context.Context, categoryIDs []string) ([]string, error) {
	var ids []string
	for _, c := range categoryIDs {
		ids = append(ids, f.byCategory[c]...)
	}
	return ids, nil
}

func buildCampaign(t *testing.T, id string, ctype domain.CampaignType, targets []string, start, end time.Time) *domain.Campaign {
	t.Helper()
	c, err := domain.NewCampaign(
		id, "Campaign "+id, ctype, targets,
		domain.DiscountKindPercentage, 10, nil,
		start, end, start,
	)
	require.NoError(t, err)
	return c
}

func TestConflictChecker_Check(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	window := func(fromOffset, toOffset time.Duration) (time.Time, time.Time) {
		return now.Add(fromOffset), now.Add(toOffset)
	}

	expander := &fakeExpander{byCategory: map[string][]string{
		"cat-books": {"prod-1", "prod-2"},
	}}

	newChecker := func(existing ...*domain.Campaign) *ConflictChecker {
		repo := &fakeCampaignRepo{unexpired: existing}
		return NewConflictChecker(repo, NewTargetResolver(nil, expander))
	}

	t.Run("no existing campaigns", func(t *testing.T) {
		start, end := window(-time.Hour, 24*time.Hour)
		candidate := buildCampaign(t, "camp-new", domain.CampaignTypeProduct, []string{"prod-1"}, start, end)

		err := newChecker().Check(context.Background(), candidate, "", now)
		assert.NoError(t, err)
	})

	t.Run("overlapping product targets conflict", func(t *testing.T) {
		start, end := window(-time.Hour, 24*time.Hour)
		held := buildCampaign(t, "camp-held", domain.CampaignTypeProduct, []string{"prod-1"}, start, end)
		candidate := buildCampaign(t, "camp-new", domain.CampaignTypeProduct, []string{"prod-1", "prod-9"}, start, end)

		err := newChecker(held).Check(context.Background(), candidate, "", now)
		assert.ErrorIs(t, err, domain.ErrCampaignConflict)
	})

	t.Run("disjoint targets pass", func(t *testing.T) {
		start, end := window(-time.Hour, 24*time.Hour)
		held := buildCampaign(t, "camp-held", domain.CampaignTypeProduct, []string{"prod-1"}, start, end)
		candidate := buildCampaign(t, "camp-new", domain.CampaignTypeProduct, []string{"prod-2"}, start, end)

		err := newChecker(held).Check(context.Background(), candidate, "", now)
		assert.NoError(t, err)
	})

	t.Run("category footprint hits a product reservation", func(t *testing.T) {
		start, end := window(-time.Hour, 24*time.Hour)
		held := buildCampaign(t, "camp-held", domain.CampaignTypeProduct, []string{"prod-2"}, start, end)
		candidate := buildCampaign(t, "camp-new", domain.CampaignTypeCategory, []string{"cat-books"}, start, end)

		err := newChecker(held).Check(context.Background(), candidate, "", now)
		assert.ErrorIs(t, err, domain.ErrCampaignConflict)
	})

	t.Run("category reservations are not checked", func(t *testing.T) {
		start, end := window(-time.Hour, 24*time.Hour)
		held := buildCampaign(t, "camp-held", domain.CampaignTypeCategory, []string{"cat-books"}, start, end)
		candidate := buildCampaign(t, "camp-new", domain.CampaignTypeProduct, []string{"prod-1"}, start, end)

		err := newChecker(held).Check(context.Background(), candidate, "", now)
		assert.NoError(t, err, "only product-type campaigns hold reservations")
	})

	t.Run("excludeID skips the campaign being updated", func(t *testing.T) {
		start, end := window(-time.Hour, 24*time.Hour)
		self := buildCampaign(t, "camp-self", domain.CampaignTypeProduct, []string{"prod-1"}, start, end)
		candidate := buildCampaign(t, "camp-self", domain.CampaignTypeProduct, []string{"prod-1"}, start, end)

		err := newChecker(self).Check(context.Background(), candidate, "camp-self", now)
		assert.NoError(t, err)
	})

	t.Run("deactivated but unexpired campaign still reserves", func(t *testing.T) {
		start, end := window(-time.Hour, 24*time.Hour)
		held := buildCampaign(t, "camp-held", domain.CampaignTypeProduct, []string{"prod-1"}, start, end)
		held.Expire(now)
		candidate := buildCampaign(t, "camp-new", domain.CampaignTypeProduct, []string{"prod-1"}, start, end)

		// The repository's unexpired listing is by end date, so the
		// deactivated campaign is still in the fake's result set.
		err := newChecker(held).Check(context.Background(), candidate, "", now)
		assert.ErrorIs(t, err, domain.ErrCampaignConflict)
	})
}
