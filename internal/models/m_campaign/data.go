package m_campaign

import (
	"time"
)

// Data represents the database model for the campaigns table.
type Data struct {
	CampaignID                string    `spanner:"campaign_id"`
	Name                      string    `spanner:"name"`
	CampaignType              string    `spanner:"campaign_type"`
	TargetIDs                 []string  `spanner:"target_ids"`
	DiscountKind              string    `spanner:"discount_kind"`
	DiscountPercent           int64     `spanner:"discount_percent"`
	DiscountAmountNumerator   int64     `spanner:"discount_amount_numerator"`
	DiscountAmountDenominator int64     `spanner:"discount_amount_denominator"`
	StartDate                 time.Time `spanner:"start_date"`
	EndDate                   time.Time `spanner:"end_date"`
	IsActive                  bool      `spanner:"is_active"`
	Version                   int64     `spanner:"version"`
	CreatedAt                 time.Time `spanner:"created_at"`
	UpdatedAt                 time.Time `spanner:"updated_at"`
}
