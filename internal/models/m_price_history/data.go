package m_price_history

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a price change record in the database. A row is written
// whenever an item's materialized price moves: campaign overlays landing or
// lifting, merchant discount edits, and sweep corrections.
type Data struct {
	HistoryID           string             `spanner:"history_id"`
	ProductID           string             `spanner:"product_id"`
	VariantID           spanner.NullString `spanner:"variant_id"` // NULL for product-level changes
	OldPriceNumerator   spanner.NullInt64  `spanner:"old_price_numerator"`
	OldPriceDenominator spanner.NullInt64  `spanner:"old_price_denominator"`
	NewPriceNumerator   int64              `spanner:"new_price_numerator"`
	NewPriceDenominator int64              `spanner:"new_price_denominator"`
	CampaignID          spanner.NullString `spanner:"campaign_id"`
	ChangedReason       spanner.NullString `spanner:"changed_reason"`
	ChangedAt           time.Time          `spanner:"changed_at"`
}

// Model provides type-safe database operations for price history.
type Model struct{}

// NewModel creates a new price history model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a price history record.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	mut, _ := spanner.InsertStruct(TableName, data)
	return mut
}
