package m_variant

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the variants table.
type Data struct {
	ProductID string `spanner:"product_id"`
	VariantID string `spanner:"variant_id"`
	Name      string `spanner:"name"`

	BasePriceNumerator   spanner.NullInt64 `spanner:"base_price_numerator"`
	BasePriceDenominator spanner.NullInt64 `spanner:"base_price_denominator"`
	PriceNumerator       int64             `spanner:"price_numerator"`
	PriceDenominator     int64             `spanner:"price_denominator"`

	DiscountPresence          string           `spanner:"discount_presence"`
	DiscountKind              string           `spanner:"discount_kind"`
	DiscountPercent           int64            `spanner:"discount_percent"`
	DiscountAmountNumerator   int64            `spanner:"discount_amount_numerator"`
	DiscountAmountDenominator int64            `spanner:"discount_amount_denominator"`
	DiscountStart             spanner.NullTime `spanner:"discount_start"`
	DiscountEnd               spanner.NullTime `spanner:"discount_end"`

	CampaignDiscountActive            bool               `spanner:"campaign_discount_active"`
	CampaignID                        spanner.NullString `spanner:"campaign_id"`
	CampaignDiscountKind              string             `spanner:"campaign_discount_kind"`
	CampaignDiscountPercent           int64              `spanner:"campaign_discount_percent"`
	CampaignDiscountAmountNumerator   int64              `spanner:"campaign_discount_amount_numerator"`
	CampaignDiscountAmountDenominator int64              `spanner:"campaign_discount_amount_denominator"`
	CampaignDiscountStart             spanner.NullTime   `spanner:"campaign_discount_start"`
	CampaignDiscountEnd               spanner.NullTime   `spanner:"campaign_discount_end"`

	OriginalSet                       bool             `spanner:"original_set"`
	OriginalPresence                  string           `spanner:"original_presence"`
	OriginalDiscountKind              string           `spanner:"original_discount_kind"`
	OriginalDiscountPercent           int64            `spanner:"original_discount_percent"`
	OriginalDiscountAmountNumerator   int64            `spanner:"original_discount_amount_numerator"`
	OriginalDiscountAmountDenominator int64            `spanner:"original_discount_amount_denominator"`
	OriginalDiscountStart             spanner.NullTime `spanner:"original_discount_start"`
	OriginalDiscountEnd               spanner.NullTime `spanner:"original_discount_end"`

	Version   int64     `spanner:"version"`
	CreatedAt time.Time `spanner:"created_at"`
	UpdatedAt time.Time `spanner:"updated_at"`
}
