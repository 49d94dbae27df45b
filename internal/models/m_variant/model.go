package m_variant

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the variants table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a variant.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		AllColumns(),
		[]interface{}{
			data.ProductID,
			data.VariantID,
			data.Name,
			data.BasePriceNumerator,
			data.BasePriceDenominator,
			data.PriceNumerator,
			data.PriceDenominator,
			data.DiscountPresence,
			data.DiscountKind,
			data.DiscountPercent,
			data.DiscountAmountNumerator,
			data.DiscountAmountDenominator,
			data.DiscountStart,
			data.DiscountEnd,
			data.CampaignDiscountActive,
			data.CampaignID,
			data.CampaignDiscountKind,
			data.CampaignDiscountPercent,
			data.CampaignDiscountAmountNumerator,
			data.CampaignDiscountAmountDenominator,
			data.CampaignDiscountStart,
			data.CampaignDiscountEnd,
			data.OriginalSet,
			data.OriginalPresence,
			data.OriginalDiscountKind,
			data.OriginalDiscountPercent,
			data.OriginalDiscountAmountNumerator,
			data.OriginalDiscountAmountDenominator,
			data.OriginalDiscountStart,
			data.OriginalDiscountEnd,
			data.Version,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific variant fields.
// The updates map should contain field names as keys and new values.
func (m *Model) UpdateMut(productID, variantID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	// Always update the UpdatedAt timestamp
	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+2)
	values := make([]interface{}, 0, len(updates)+2)

	columns = append(columns, ProductID, VariantID)
	values = append(values, productID, variantID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a variant.
func (m *Model) DeleteMut(productID, variantID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID, variantID})
}
