package m_variant

// Field name constants for the variants table, interleaved in products.
// These provide type-safe field references and prevent typos.
const (
	TableName = "variants"

	ProductID = "product_id"
	VariantID = "variant_id"
	Name      = "name"

	// Nullable: NULL means the variant inherits the product base price.
	BasePriceNumerator   = "base_price_numerator"
	BasePriceDenominator = "base_price_denominator"

	PriceNumerator   = "price_numerator"
	PriceDenominator = "price_denominator"

	DiscountPresence          = "discount_presence"
	DiscountKind              = "discount_kind"
	DiscountPercent           = "discount_percent"
	DiscountAmountNumerator   = "discount_amount_numerator"
	DiscountAmountDenominator = "discount_amount_denominator"
	DiscountStart             = "discount_start"
	DiscountEnd               = "discount_end"

	CampaignDiscountActive            = "campaign_discount_active"
	CampaignID                        = "campaign_id"
	CampaignDiscountKind              = "campaign_discount_kind"
	CampaignDiscountPercent           = "campaign_discount_percent"
	CampaignDiscountAmountNumerator   = "campaign_discount_amount_numerator"
	CampaignDiscountAmountDenominator = "campaign_discount_amount_denominator"
	CampaignDiscountStart             = "campaign_discount_start"
	CampaignDiscountEnd               = "campaign_discount_end"

	OriginalSet                       = "original_set"
	OriginalPresence                  = "original_presence"
	OriginalDiscountKind              = "original_discount_kind"
	OriginalDiscountPercent           = "original_discount_percent"
	OriginalDiscountAmountNumerator   = "original_discount_amount_numerator"
	OriginalDiscountAmountDenominator = "original_discount_amount_denominator"
	OriginalDiscountStart             = "original_discount_start"
	OriginalDiscountEnd               = "original_discount_end"

	Version   = "version"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

// DiscountStateColumns lists the columns written together whenever any part
// of a variant's discount state changes.
func DiscountStateColumns() []string {
	return []string{
		DiscountPresence,
		DiscountKind,
		DiscountPercent,
		DiscountAmountNumerator,
		DiscountAmountDenominator,
		DiscountStart,
		DiscountEnd,
		CampaignDiscountActive,
		CampaignID,
		CampaignDiscountKind,
		CampaignDiscountPercent,
		CampaignDiscountAmountNumerator,
		CampaignDiscountAmountDenominator,
		CampaignDiscountStart,
		CampaignDiscountEnd,
		OriginalSet,
		OriginalPresence,
		OriginalDiscountKind,
		OriginalDiscountPercent,
		OriginalDiscountAmountNumerator,
		OriginalDiscountAmountDenominator,
		OriginalDiscountStart,
		OriginalDiscountEnd,
	}
}

// AllColumns lists every column of the variants table, in table order.
func AllColumns() []string {
	cols := []string{
		ProductID,
		VariantID,
		Name,
		BasePriceNumerator,
		BasePriceDenominator,
		PriceNumerator,
		PriceDenominator,
	}
	cols = append(cols, DiscountStateColumns()...)
	return append(cols, Version, CreatedAt, UpdatedAt)
}
