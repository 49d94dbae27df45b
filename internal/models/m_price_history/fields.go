package m_price_history

// Table name constant
const TableName = "price_history"

// Field name constants for type-safe database access
const (
	HistoryID           = "history_id"
	ProductID           = "product_id"
	VariantID           = "variant_id"
	OldPriceNumerator   = "old_price_numerator"
	OldPriceDenominator = "old_price_denominator"
	NewPriceNumerator   = "new_price_numerator"
	NewPriceDenominator = "new_price_denominator"
	CampaignID          = "campaign_id"
	ChangedReason       = "changed_reason"
	ChangedAt           = "changed_at"
)

// AllColumns lists every column of the price_history table, in table order.
func AllColumns() []string {
	return []string{
		HistoryID,
		ProductID,
		VariantID,
		OldPriceNumerator,
		OldPriceDenominator,
		NewPriceNumerator,
		NewPriceDenominator,
		CampaignID,
		ChangedReason,
		ChangedAt,
	}
}
