package get_campaign

import (
	"context"
	"time"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/runstate"
)

// Request identifies the campaign to fetch.
type Request struct {
	CampaignID string
}

// Response is the campaign definition, its lifecycle state at query time, and
// the progress of the latest overlay run when one is still tracked.
type Response struct {
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
	Version    int64

	Run    runstate.Run
	HasRun bool
}

// Query handles the get campaign query use case.
type Query struct {
	campaigns contracts.CampaignRepository
	runs      *runstate.Store
	clock     clock.Clock
}

// NewQuery creates a new get campaign query.
func NewQuery(campaigns contracts.CampaignRepository, runs *runstate.Store, clk clock.Clock) *Query {
	return &Query{
		campaigns: campaigns,
		runs:      runs,
		clock:     clk,
	}
}

// Execute retrieves a single campaign with its run progress.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	campaign, err := q.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	run, hasRun := q.runs.Get(campaign.ID())

	return &Response{
		CampaignID: campaign.ID(),
		Name:       campaign.Name(),
		Type:       campaign.Type(),
		TargetIDs:  campaign.TargetIDs(),
		Kind:       campaign.Kind(),
		Percent:    campaign.Percent(),
		Amount:     campaign.Amount(),
		StartDate:  campaign.StartDate(),
		EndDate:    campaign.EndDate(),
		State:      campaign.State(q.clock.Now()),
		Version:    campaign.Version(),
		Run:        run,
		HasRun:     hasRun,
	}, nil
}
