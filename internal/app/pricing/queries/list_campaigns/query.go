package list_campaigns

import (
	"context"
	"time"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
)

const defaultPageSize = 50

// Request contains pagination parameters.
type Request struct {
	PageSize int64
	Offset   int64
}

// CampaignView is the read-side projection of a campaign.
type CampaignView struct {
	CampaignID string
	Name       string
	Type       domain.CampaignType
	TargetIDs  []string
	Kind       domain.DiscountKind
	Percent    int64
	Amount     *domain.Money
	StartDate  time.Time
	EndDate    time.Time
	State      domain.CampaignState
}

// Response is one page of campaigns plus the total count.
type Response struct {
	Campaigns []CampaignView
	Total     int64
}

// Query handles the list campaigns query use case.
type Query struct {
	campaigns contracts.CampaignRepository
	clock     clock.Clock
}

// NewQuery creates a new list campaigns query.
func NewQuery(campaigns contracts.CampaignRepository, clk clock.Clock) *Query {
	return &Query{
		campaigns: campaigns,
		clock:     clk,
	}
}

// Execute retrieves a page of campaigns ordered by creation time descending,
// with each campaign's lifecycle state evaluated at query time.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	campaigns, err := q.campaigns.List(ctx, pageSize, req.Offset)
	if err != nil {
		return nil, err
	}
	total, err := q.campaigns.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	views := make([]CampaignView, 0, len(campaigns))
	for _, c := range campaigns {
		views = append(views, toView(c, now))
	}

	return &Response{Campaigns: views, Total: total}, nil
}

func toView(c *domain.Campaign, now time.Time) CampaignView {
	return CampaignView{
		CampaignID: c.ID(),
		Name:       c.Name(),
		Type:       c.Type(),
		TargetIDs:  c.TargetIDs(),
		Kind:       c.Kind(),
		Percent:    c.Percent(),
		Amount:     c.Amount(),
		StartDate:  c.StartDate(),
		EndDate:    c.EndDate(),
		State:      c.State(now),
	}
}
