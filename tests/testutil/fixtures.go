package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/campaign-pricing-service/internal/models/m_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_product"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_variant"
)

// baseProductData returns a product row with no discount of any kind.
// Base price defaults to 100.00 stored as 10000/100.
func baseProductData(productID, name, categoryID string) *m_product.Data {
	now := time.Now()
	return &m_product.Data{
		ProductID:            productID,
		Name:                 name,
		CategoryID:           categoryID,
		BasePriceNumerator:   10000,
		BasePriceDenominator: 100,
		PriceNumerator:       10000,
		PriceDenominator:     100,

		DiscountPresence:          "inherit",
		DiscountKind:              "percentage",
		DiscountAmountDenominator: 1,

		CampaignDiscountKind:              "percentage",
		CampaignDiscountAmountDenominator: 1,

		OriginalPresence:                  "inherit",
		OriginalDiscountKind:              "percentage",
		OriginalDiscountAmountDenominator: 1,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestProduct creates a test product directly in the database.
func CreateTestProduct(t *testing.T, client *spanner.Client, name string) string {
	return CreateTestProductInCategory(t, client, name, "cat-electronics")
}

// CreateTestProductInCategory creates a test product in a specific category.
func CreateTestProductInCategory(t *testing.T, client *spanner.Client, name, categoryID string) string {
	t.Helper()

	ctx := context.Background()
	productID := uuid.New().String()

	model := m_product.NewModel()
	data := baseProductData(productID, name, categoryID)

	_, err := client.Apply(ctx, []*spanner.Mutation{model.InsertMut(data)})
	require.NoError(t, err, "failed to create test product")

	return productID
}

// CreateTestProductWithDiscount creates a product carrying an active
// standalone percentage discount. The materialized price reflects it.
func CreateTestProductWithDiscount(t *testing.T, client *spanner.Client, name string, percent int64) string {
	t.Helper()

	ctx := context.Background()
	productID := uuid.New().String()
	now := time.Now()

	model := m_product.NewModel()
	data := baseProductData(productID, name, "cat-electronics")
	data.DiscountPresence = "explicit_value"
	data.DiscountPercent = percent
	data.DiscountStart = spanner.NullTime{Time: now.Add(-1 * time.Hour), Valid: true}
	data.DiscountEnd = spanner.NullTime{Time: now.Add(24 * time.Hour), Valid: true}
	data.PriceNumerator = data.BasePriceNumerator * (100 - percent)
	data.PriceDenominator = data.BasePriceDenominator * 100

	_, err := client.Apply(ctx, []*spanner.Mutation{model.InsertMut(data)})
	require.NoError(t, err, "failed to create test product with discount")

	return productID
}

// CreateTestVariant creates a variant under a product. A nil base price
// inherits the product's base price at read time; the materialized price
// columns still need a concrete value, so the product default is used.
func CreateTestVariant(t *testing.T, client *spanner.Client, productID, name string) string {
	t.Helper()

	ctx := context.Background()
	variantID := uuid.New().String()
	now := time.Now()

	model := m_variant.NewModel()
	data := &m_variant.Data{
		ProductID:        productID,
		VariantID:        variantID,
		Name:             name,
		PriceNumerator:   10000,
		PriceDenominator: 100,

		DiscountPresence:          "inherit",
		DiscountKind:              "percentage",
		DiscountAmountDenominator: 1,

		CampaignDiscountKind:              "percentage",
		CampaignDiscountAmountDenominator: 1,

		OriginalPresence:                  "inherit",
		OriginalDiscountKind:              "percentage",
		OriginalDiscountAmountDenominator: 1,

		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := client.Apply(ctx, []*spanner.Mutation{model.InsertMut(data)})
	require.NoError(t, err, "failed to create test variant")

	return variantID
}

// CreateTestCampaign creates a product-type percentage campaign whose window
// spans the given dates.
func CreateTestCampaign(t *testing.T, client *spanner.Client, name string, targetIDs []string, percent int64, start, end time.Time) string {
	t.Helper()

	ctx := context.Background()
	campaignID := uuid.New().String()
	now := time.Now()

	model := m_campaign.NewModel()
	data := &m_campaign.Data{
		CampaignID:                campaignID,
		Name:                      name,
		CampaignType:              "product",
		TargetIDs:                 targetIDs,
		DiscountKind:              "percentage",
		DiscountPercent:           percent,
		DiscountAmountDenominator: 1,
		StartDate:                 start,
		EndDate:                   end,
		IsActive:                  true,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	_, err := client.Apply(ctx, []*spanner.Mutation{model.InsertMut(data)})
	require.NoError(t, err, "failed to create test campaign")

	return campaignID
}

// CreateTestOutboxEvent creates a test outbox event.
func CreateTestOutboxEvent(t *testing.T, client *spanner.Client, eventType string, aggregateID string) string {
	t.Helper()

	ctx := context.Background()
	eventID := uuid.New().String()

	model := m_outbox.NewModel()
	data := &m_outbox.Data{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     spanner.NullJSON{Value: `{"test": "data"}`, Valid: true},
		Status:      m_outbox.StatusPending,
		RetryCount:  0,
	}

	_, err := client.Apply(ctx, []*spanner.Mutation{model.InsertMut(data)})
	require.NoError(t, err, "failed to create test outbox event")

	return eventID
}

// AssertOutboxEvent verifies an outbox event exists with the given event type.
func AssertOutboxEvent(t *testing.T, client *spanner.Client, eventType string) {
	t.Helper()

	ctx := context.Background()
	stmt := spanner.Statement{
		SQL:    "SELECT event_id FROM outbox_events WHERE event_type = @eventType",
		Params: map[string]interface{}{"eventType": eventType},
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "outbox event not found for type: %s", eventType)
	require.NotNil(t, row, "outbox event not found for type: %s", eventType)
}

// AssertOutboxEventCount verifies the count of outbox events.
func AssertOutboxEventCount(t *testing.T, client *spanner.Client, expectedCount int) {
	t.Helper()

	AssertRowCount(t, client, "outbox_events", expectedCount)
}

// GetProductRow retrieves a raw product row for verification.
func GetProductRow(t *testing.T, client *spanner.Client, productID string) *m_product.Data {
	t.Helper()

	ctx := context.Background()
	row, err := client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.AllColumns())
	require.NoError(t, err, "failed to get product by id")

	var data m_product.Data
	err = row.ToStruct(&data)
	require.NoError(t, err, "failed to parse product data")

	return &data
}

// GetCampaignRow retrieves a raw campaign row for verification.
func GetCampaignRow(t *testing.T, client *spanner.Client, campaignID string) *m_campaign.Data {
	t.Helper()

	ctx := context.Background()
	row, err := client.Single().ReadRow(ctx, m_campaign.TableName, spanner.Key{campaignID}, m_campaign.AllColumns())
	require.NoError(t, err, "failed to get campaign by id")

	var data m_campaign.Data
	err = row.ToStruct(&data)
	require.NoError(t, err, "failed to parse campaign data")

	return &data
}
