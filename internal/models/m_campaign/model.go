package m_campaign

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the campaigns table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a campaign.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		AllColumns(),
		[]interface{}{
			data.CampaignID,
			data.Name,
			data.CampaignType,
			data.TargetIDs,
			data.DiscountKind,
			data.DiscountPercent,
			data.DiscountAmountNumerator,
			data.DiscountAmountDenominator,
			data.StartDate,
			data.EndDate,
			data.IsActive,
			data.Version,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific campaign fields.
// The updates map should contain field names as keys and new values.
func (m *Model) UpdateMut(campaignID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	// Always update the UpdatedAt timestamp
	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, CampaignID)
	values = append(values, campaignID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a campaign (hard delete).
func (m *Model) DeleteMut(campaignID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{campaignID})
}
