package m_campaign

// Field name constants for the campaigns table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "campaigns"

	CampaignID                = "campaign_id"
	Name                      = "name"
	CampaignType              = "campaign_type"
	TargetIDs                 = "target_ids"
	DiscountKind              = "discount_kind"
	DiscountPercent           = "discount_percent"
	DiscountAmountNumerator   = "discount_amount_numerator"
	DiscountAmountDenominator = "discount_amount_denominator"
	StartDate                 = "start_date"
	EndDate                   = "end_date"
	IsActive                  = "is_active"
	Version                   = "version"
	CreatedAt                 = "created_at"
	UpdatedAt                 = "updated_at"
)

// AllColumns lists every column of the campaigns table, in table order.
func AllColumns() []string {
	return []string{
		CampaignID,
		Name,
		CampaignType,
		TargetIDs,
		DiscountKind,
		DiscountPercent,
		DiscountAmountNumerator,
		DiscountAmountDenominator,
		StartDate,
		EndDate,
		IsActive,
		Version,
		CreatedAt,
		UpdatedAt,
	}
}
