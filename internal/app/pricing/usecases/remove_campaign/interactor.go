package remove_campaign

import (
	"context"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
)

// Request identifies the campaign whose overlay to remove.
type Request struct {
	CampaignID string
}

// Response reports the overlay run.
type Response struct {
	Run services.RunResult
}

// Interactor handles the manual remove campaign use case. It lifts the
// overlay without touching the campaign definition; the reconciler will
// re-apply it on the next tick if the window is still open.
type Interactor struct {
	campaigns contracts.CampaignRepository
	overlay   *services.OverlayService
}

// NewInteractor creates a new remove campaign interactor.
func NewInteractor(campaigns contracts.CampaignRepository, overlay *services.OverlayService) *Interactor {
	return &Interactor{
		campaigns: campaigns,
		overlay:   overlay,
	}
}

// Execute removes the campaign overlay from every product carrying it and
// restores each item's standalone discount. Idempotent.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	campaign, err := i.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	run, err := i.overlay.Remove(ctx, campaign)
	if err != nil {
		return nil, err
	}
	return &Response{Run: run}, nil
}
