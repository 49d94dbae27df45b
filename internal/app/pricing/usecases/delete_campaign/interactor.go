package delete_campaign

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/committer"
)

// Request identifies the campaign to delete.
type Request struct {
	CampaignID string
}

// Response reports the overlay removal run that preceded the delete.
type Response struct {
	Removed services.RunResult
}

// Interactor handles the delete campaign use case.
type Interactor struct {
	campaigns  contracts.CampaignRepository
	outboxRepo contracts.OutboxRepository
	committer  *committer.Committer
	overlay    *services.OverlayService
	clock      clock.Clock
}

// NewInteractor creates a new delete campaign interactor.
func NewInteractor(
	campaigns contracts.CampaignRepository,
	outboxRepo contracts.OutboxRepository,
	cmt *committer.Committer,
	overlay *services.OverlayService,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		campaigns:  campaigns,
		outboxRepo: outboxRepo,
		committer:  cmt,
		overlay:    overlay,
		clock:      clk,
	}
}

// Execute lifts the campaign's overlay from every product carrying it, then
// deletes the campaign row. Snapshots restore standalone discounts exactly as
// a natural expiry would.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	campaign, err := i.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	removed, err := i.overlay.Remove(ctx, campaign)
	if err != nil {
		return nil, err
	}
	if removed.Failed > 0 {
		// Leaving the row in place keeps the overlay reachable for a retry.
		return nil, fmt.Errorf("campaign %s: %d overlay removals failed, delete aborted", campaign.ID(), removed.Failed)
	}

	event := &domain.CampaignDeletedEvent{
		CampaignID: campaign.ID(),
		DeletedAt:  i.clock.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event: %w", err)
	}

	plan := committer.NewPlan()
	plan.Add(i.campaigns.DeleteMut(campaign.ID()))
	plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, string(payload))))

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &Response{Removed: removed}, nil
}
