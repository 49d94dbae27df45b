package http

import (
	"math/big"
	"time"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/list_campaigns"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
)

// discountBody is the wire form of a discount value.
type discountBody struct {
	Kind    string `json:"kind" binding:"required,oneof=percentage fixed"`
	Percent int64  `json:"percent"`
	Amount  string `json:"amount"`
}

// campaignBody is the wire form of a campaign definition.
type campaignBody struct {
	Name      string       `json:"name" binding:"required"`
	Type      string       `json:"type" binding:"required,oneof=product category"`
	TargetIDs []string     `json:"targetIds" binding:"required,min=1"`
	Discount  discountBody `json:"discount" binding:"required"`
	StartDate time.Time    `json:"startDate" binding:"required"`
	EndDate   time.Time    `json:"endDate" binding:"required"`
}

// campaignView is the wire form of a campaign read.
type campaignView struct {
	CampaignID string    `json:"campaignId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	TargetIDs  []string  `json:"targetIds"`
	Kind       string    `json:"discountKind"`
	Percent    int64     `json:"discountPercent,omitempty"`
	Amount     string    `json:"discountAmount,omitempty"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	State      string    `json:"state"`
}

// runView is the wire form of an overlay run summary.
type runView struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

func toRunView(r services.RunResult) runView {
	return runView{Total: r.Total, Succeeded: r.Succeeded, Failed: r.Failed}
}

func toCampaignView(v list_campaigns.CampaignView) campaignView {
	out := campaignView{
		CampaignID: v.CampaignID,
		Name:       v.Name,
		Type:       string(v.Type),
		TargetIDs:  v.TargetIDs,
		Kind:       string(v.Kind),
		StartDate:  v.StartDate,
		EndDate:    v.EndDate,
		State:      string(v.State),
	}
	if v.Kind == domain.DiscountKindFixed {
		out.Amount = v.Amount.String()
	} else {
		out.Percent = v.Percent
	}
	return out
}

// parseMoney parses a decimal money string like "2499.00".
func parseMoney(s string) (*domain.Money, error) {
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, domain.ErrInvalidPrice
	}
	return domain.NewMoneyFromRat(rat), nil
}

// parseAmount resolves the optional fixed amount of a discount body.
func parseAmount(d discountBody) (*domain.Money, error) {
	if domain.DiscountKind(d.Kind) != domain.DiscountKindFixed {
		return nil, nil
	}
	return parseMoney(d.Amount)
}
