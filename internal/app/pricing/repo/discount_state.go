package repo

import (
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_product"
)

// discountColumns is the flattened column form of a DiscountSpec.
type discountColumns struct {
	Kind        string
	Percent     int64
	AmountNum   int64
	AmountDenom int64
	Start       spanner.NullTime
	End         spanner.NullTime
}

// specToColumns flattens a DiscountSpec for storage.
func specToColumns(spec domain.DiscountSpec) (discountColumns, error) {
	amount := spec.Amount().Normalize()
	if !amount.IsSafeForStorage() {
		return discountColumns{}, fmt.Errorf("discount amount exceeds storage capacity: %w", domain.ErrMoneyOverflow)
	}
	num, _ := amount.Numerator()
	denom, _ := amount.Denominator()

	cols := discountColumns{
		Kind:        string(spec.Kind()),
		Percent:     spec.Percent(),
		AmountNum:   num,
		AmountDenom: denom,
	}
	if start := spec.StartTime(); start != nil {
		cols.Start = spanner.NullTime{Time: *start, Valid: true}
	}
	if end := spec.EndTime(); end != nil {
		cols.End = spanner.NullTime{Time: *end, Valid: true}
	}
	return cols, nil
}

// specFromColumns rebuilds a DiscountSpec from storage columns.
func specFromColumns(cols discountColumns) (domain.DiscountSpec, error) {
	var start, end *time.Time
	if cols.Start.Valid {
		t := cols.Start.Time
		start = &t
	}
	if cols.End.Valid {
		t := cols.End.Time
		end = &t
	}

	switch domain.DiscountKind(cols.Kind) {
	case domain.DiscountKindFixed:
		denom := cols.AmountDenom
		if denom == 0 {
			denom = 1
		}
		amount, err := domain.NewMoney(cols.AmountNum, denom)
		if err != nil {
			return domain.DiscountSpec{}, fmt.Errorf("invalid discount amount: %w", err)
		}
		spec, err := domain.NewFixedDiscount(amount, start, end)
		if err != nil {
			return domain.DiscountSpec{}, fmt.Errorf("invalid fixed discount: %w", err)
		}
		return spec, nil
	default:
		spec, err := domain.NewPercentageDiscount(cols.Percent, start, end)
		if err != nil {
			return domain.DiscountSpec{}, fmt.Errorf("invalid percentage discount: %w", err)
		}
		return spec, nil
	}
}

// stateColumns is the flattened column form of a full DiscountState: the live
// fields, the campaign overlay, and the snapshot.
type stateColumns struct {
	Presence string
	Live     discountColumns

	CampaignActive bool
	CampaignID     spanner.NullString
	Campaign       discountColumns

	OriginalSet      bool
	OriginalPresence string
	Original         discountColumns
}

// stateToColumns flattens a DiscountState for storage.
func stateToColumns(state domain.DiscountState) (stateColumns, error) {
	live, err := specToColumns(state.Live())
	if err != nil {
		return stateColumns{}, err
	}
	campaign, err := specToColumns(state.CampaignSpec())
	if err != nil {
		return stateColumns{}, err
	}
	original, originalSet := state.Original()
	orig, err := specToColumns(original)
	if err != nil {
		return stateColumns{}, err
	}

	campaignID := spanner.NullString{}
	if state.CampaignID() != "" {
		campaignID = spanner.NullString{StringVal: state.CampaignID(), Valid: true}
	}

	return stateColumns{
		Presence:         string(state.Presence()),
		Live:             live,
		CampaignActive:   state.CampaignActive(),
		CampaignID:       campaignID,
		Campaign:         campaign,
		OriginalSet:      originalSet,
		OriginalPresence: string(state.OriginalPresence()),
		Original:         orig,
	}, nil
}

// stateFromColumns rebuilds a DiscountState from storage columns.
func stateFromColumns(cols stateColumns) (domain.DiscountState, error) {
	live, err := specFromColumns(cols.Live)
	if err != nil {
		return domain.DiscountState{}, fmt.Errorf("live discount: %w", err)
	}
	campaign, err := specFromColumns(cols.Campaign)
	if err != nil {
		return domain.DiscountState{}, fmt.Errorf("campaign discount: %w", err)
	}
	original, err := specFromColumns(cols.Original)
	if err != nil {
		return domain.DiscountState{}, fmt.Errorf("original discount: %w", err)
	}

	// Rows seeded before presence tracking carry an empty string.
	presence := cols.Presence
	if presence == "" {
		presence = string(domain.DiscountPresenceInherit)
	}

	return domain.ReconstructDiscountState(
		domain.DiscountPresence(presence),
		live,
		cols.CampaignActive,
		cols.CampaignID.StringVal,
		campaign,
		original,
		domain.DiscountPresence(cols.OriginalPresence),
		cols.OriginalSet,
	), nil
}

// discountStateUpdates flattens a full DiscountState into a column update map.
// The variants table shares its discount column names with products, so the
// same map serves both tables.
func discountStateUpdates(state domain.DiscountState) (map[string]interface{}, error) {
	cols, err := stateToColumns(state)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		m_product.DiscountPresence:          cols.Presence,
		m_product.DiscountKind:              cols.Live.Kind,
		m_product.DiscountPercent:           cols.Live.Percent,
		m_product.DiscountAmountNumerator:   cols.Live.AmountNum,
		m_product.DiscountAmountDenominator: cols.Live.AmountDenom,
		m_product.DiscountStart:             cols.Live.Start,
		m_product.DiscountEnd:               cols.Live.End,

		m_product.CampaignDiscountActive:            cols.CampaignActive,
		m_product.CampaignID:                        cols.CampaignID,
		m_product.CampaignDiscountKind:              cols.Campaign.Kind,
		m_product.CampaignDiscountPercent:           cols.Campaign.Percent,
		m_product.CampaignDiscountAmountNumerator:   cols.Campaign.AmountNum,
		m_product.CampaignDiscountAmountDenominator: cols.Campaign.AmountDenom,
		m_product.CampaignDiscountStart:             cols.Campaign.Start,
		m_product.CampaignDiscountEnd:               cols.Campaign.End,

		m_product.OriginalSet:                       cols.OriginalSet,
		m_product.OriginalPresence:                  cols.OriginalPresence,
		m_product.OriginalDiscountKind:              cols.Original.Kind,
		m_product.OriginalDiscountPercent:           cols.Original.Percent,
		m_product.OriginalDiscountAmountNumerator:   cols.Original.AmountNum,
		m_product.OriginalDiscountAmountDenominator: cols.Original.AmountDenom,
		m_product.OriginalDiscountStart:             cols.Original.Start,
		m_product.OriginalDiscountEnd:               cols.Original.End,
	}, nil
}
