package apply_campaign

import (
	"context"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
)

// Request identifies the campaign to apply.
type Request struct {
	CampaignID string
}

// Response reports the overlay run.
type Response struct {
	Run services.RunResult
}

// Interactor handles the manual apply campaign use case. Operators use it to
// push a campaign's overlay ahead of its start date or to retry items that
// failed during an earlier run. Expired campaigns stay expired.
type Interactor struct {
	campaigns contracts.CampaignRepository
	overlay   *services.OverlayService
	clock     clock.Clock
}

// NewInteractor creates a new apply campaign interactor.
func NewInteractor(campaigns contracts.CampaignRepository, overlay *services.OverlayService, clk clock.Clock) *Interactor {
	return &Interactor{
		campaigns: campaigns,
		overlay:   overlay,
		clock:     clk,
	}
}

// Execute applies the campaign overlay to every current target, bypassing the
// start-date gate but never the end date.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	campaign, err := i.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	now := i.clock.Now()
	if campaign.State(now) == domain.CampaignStateExpired {
		return nil, domain.ErrCampaignExpired
	}

	run, err := i.overlay.Apply(ctx, campaign)
	if err != nil {
		return nil, err
	}
	return &Response{Run: run}, nil
}
