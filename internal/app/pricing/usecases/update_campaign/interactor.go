package update_campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/rs/zerolog"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/committer"
)

// Request contains the full replacement definition for a campaign.
type Request struct {
	CampaignID string
	Name       string
	Type       domain.CampaignType
	TargetIDs  []string
	Kind       domain.DiscountKind
	Percent    int64
	Amount     *domain.Money
	StartDate  time.Time
	EndDate    time.Time
}

// Response reports the overlay runs triggered by the update.
type Response struct {
	Removed services.RunResult
	Applied bool
	Run     services.RunResult
}

// Interactor handles the update campaign use case.
type Interactor struct {
	campaigns  contracts.CampaignRepository
	products   contracts.ProductRepository
	outboxRepo contracts.OutboxRepository
	committer  *committer.Committer
	resolver   *services.TargetResolver
	conflicts  *services.ConflictChecker
	overlay    *services.OverlayService
	clock      clock.Clock
	logger     zerolog.Logger
}

// NewInteractor creates a new update campaign interactor.
func NewInteractor(
	campaigns contracts.CampaignRepository,
	products contracts.ProductRepository,
	outboxRepo contracts.OutboxRepository,
	cmt *committer.Committer,
	resolver *services.TargetResolver,
	conflicts *services.ConflictChecker,
	overlay *services.OverlayService,
	clk clock.Clock,
	logger zerolog.Logger,
) *Interactor {
	return &Interactor{
		campaigns:  campaigns,
		products:   products,
		outboxRepo: outboxRepo,
		committer:  cmt,
		resolver:   resolver,
		conflicts:  conflicts,
		overlay:    overlay,
		clock:      clk,
		logger:     logger.With().Str("usecase", "update_campaign").Logger(),
	}
}

// Execute replaces a campaign's definition. The old overlay is lifted before
// the new definition persists, then re-applied when the new window is open.
// Items keep their snapshots through the cycle, so standalone discounts
// survive a redefinition unchanged.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := i.clock.Now()

	// 1. Load and mutate the aggregate in memory
	campaign, err := i.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}
	expectedVersion := campaign.Version()

	if err := campaign.Update(
		req.Name,
		req.Type,
		req.TargetIDs,
		req.Kind,
		req.Percent,
		req.Amount,
		req.StartDate,
		req.EndDate,
		now,
	); err != nil {
		return nil, err
	}

	// 2. Product targets must exist; a changed category target set must
	// resolve to a non-empty footprint.
	if campaign.Type() == domain.CampaignTypeProduct {
		for _, productID := range campaign.TargetIDs() {
			exists, err := i.products.Exists(ctx, productID)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTarget, productID)
			}
		}
	} else if campaign.Changes().Dirty(domain.CampaignFieldTargets) {
		footprint, err := i.resolver.ResolveIDs(ctx, campaign)
		if err != nil {
			return nil, err
		}
		if len(footprint) == 0 {
			return nil, fmt.Errorf("%w: no products in categories %v", domain.ErrUnknownTarget, campaign.TargetIDs())
		}
	}

	// 3. Conflict check against everyone but ourselves
	if err := i.conflicts.Check(ctx, campaign, campaign.ID(), now); err != nil {
		return nil, err
	}

	// 4. Lift the old overlay before the definition changes hands
	removed, err := i.overlay.Remove(ctx, campaign)
	if err != nil {
		return nil, err
	}

	// 5. Persist the new definition under the loaded version
	plan := committer.NewPlan()
	updateMut, err := i.campaigns.UpdateMut(campaign)
	if err != nil {
		return nil, err
	}
	plan.Add(updateMut)

	for _, event := range campaign.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, string(payload))))
	}

	if err := i.committer.ApplyWithVersionCheck(ctx, committer.VersionKey{
		Table: m_campaign.TableName,
		Key:   spanner.Key{campaign.ID()},
	}, expectedVersion, plan); err != nil {
		return nil, err
	}
	campaign.ClearEvents()

	resp := &Response{Removed: removed}

	// 6. Re-apply under the new definition when the window is open
	if campaign.ShouldApply(now) {
		run, err := i.overlay.Apply(ctx, campaign)
		if err != nil {
			i.logger.Error().Err(err).
				Str("campaign_id", campaign.ID()).
				Msg("overlay re-apply after update failed")
			return resp, nil
		}
		resp.Applied = true
		resp.Run = run
	}

	return resp, nil
}
