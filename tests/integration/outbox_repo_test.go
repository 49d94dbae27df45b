//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/repo"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/campaign-pricing-service/tests/testutil"
)

func TestOutboxRepo_InsertMut(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewOutboxRepo(client)

	event := &domain.CampaignCreatedEvent{
		CampaignID: "camp-1",
		Name:       "Summer Sale",
		Type:       "product",
		TargetIDs:  []string{"prod-1"},
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(24 * time.Hour),
		CreatedAt:  time.Now(),
	}

	outboxEvent := repository.EnrichEvent(event, `{"campaignId":"camp-1"}`)
	require.NotEmpty(t, outboxEvent.EventID)
	assert.Equal(t, "campaign.created", outboxEvent.EventType)
	assert.Equal(t, "camp-1", outboxEvent.AggregateID)
	assert.Equal(t, m_outbox.StatusPending, outboxEvent.Status)

	_, err := client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(outboxEvent)})
	require.NoError(t, err)

	testutil.AssertOutboxEvent(t, client, "campaign.created")
	testutil.AssertOutboxEventCount(t, client, 1)
}

func TestOutboxRepo_List_NewestFirst(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewOutboxRepo(client)

	testutil.CreateTestOutboxEvent(t, client, "pricing.overlay_applied", "prod-1")
	testutil.CreateTestOutboxEvent(t, client, "pricing.overlay_removed", "prod-1")
	testutil.CreateTestOutboxEvent(t, client, "campaign.created", "camp-1")

	events, err := repository.List(ctx, contracts.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.NotEmpty(t, e.EventID)
		assert.Equal(t, m_outbox.StatusPending, e.Status)
		assert.Nil(t, e.ProcessedAt)
	}
}

func TestOutboxRepo_List_Filters(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewOutboxRepo(client)

	testutil.CreateTestOutboxEvent(t, client, "pricing.overlay_applied", "prod-1")
	testutil.CreateTestOutboxEvent(t, client, "pricing.overlay_applied", "prod-2")
	testutil.CreateTestOutboxEvent(t, client, "campaign.expired", "camp-1")

	byType, err := repository.List(ctx, contracts.EventFilter{EventType: "pricing.overlay_applied"})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byAggregate, err := repository.List(ctx, contracts.EventFilter{AggregateID: "camp-1"})
	require.NoError(t, err)
	require.Len(t, byAggregate, 1)
	assert.Equal(t, "campaign.expired", byAggregate[0].EventType)

	limited, err := repository.List(ctx, contracts.EventFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := repository.List(ctx, contracts.EventFilter{Status: m_outbox.StatusCompleted})
	require.NoError(t, err)
	assert.Empty(t, none)
}
