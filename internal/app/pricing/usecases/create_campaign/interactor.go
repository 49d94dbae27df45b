package create_campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/committer"
)

// Request contains the data to create a campaign.
type Request struct {
	Name      string
	Type      domain.CampaignType
	TargetIDs []string
	Kind      domain.DiscountKind
	Percent   int64
	Amount    *domain.Money
	StartDate time.Time
	EndDate   time.Time
}

// Response reports the created campaign and, when the window is already open,
// the immediate overlay run.
type Response struct {
	CampaignID string
	Applied    bool
	Run        services.RunResult
}

// Interactor handles the create campaign use case.
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

// NewInteractor creates a new create campaign interactor.
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
		logger:     logger.With().Str("usecase", "create_campaign").Logger(),
	}
}

// Execute validates, conflict-checks, and persists a new campaign. When the
// campaign window is already open the overlay is applied immediately; the
// reconciliation job picks up pending campaigns later.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := i.clock.Now()

	// 1. Build the validated aggregate
	campaign, err := domain.NewCampaign(
		uuid.New().String(),
		req.Name,
		req.Type,
		req.TargetIDs,
		req.Kind,
		req.Percent,
		req.Amount,
		req.StartDate,
		req.EndDate,
		now,
	)
	if err != nil {
		return nil, err
	}
	if now.After(campaign.EndDate()) {
		return nil, domain.ErrCampaignExpired
	}

	// 2. Targets must resolve to something: every product target must exist,
	// and a category footprint must be non-empty at creation time.
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
	} else {
		footprint, err := i.resolver.ResolveIDs(ctx, campaign)
		if err != nil {
			return nil, err
		}
		if len(footprint) == 0 {
			return nil, fmt.Errorf("%w: no products in categories %v", domain.ErrUnknownTarget, campaign.TargetIDs())
		}
	}

	// 3. Conflict check against unexpired product campaigns
	if err := i.conflicts.Check(ctx, campaign, "", now); err != nil {
		return nil, err
	}

	// 4. Persist campaign and events atomically
	plan := committer.NewPlan()
	insertMut, err := i.campaigns.InsertMut(campaign)
	if err != nil {
		return nil, err
	}
	plan.Add(insertMut)

	for _, event := range campaign.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, string(payload))))
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	campaign.ClearEvents()

	resp := &Response{CampaignID: campaign.ID()}

	// 5. Window already open: apply now instead of waiting a reconciler tick
	if campaign.ShouldApply(now) {
		run, err := i.overlay.Apply(ctx, campaign)
		if err != nil {
			// The campaign is persisted; the reconciler retries the overlay.
			i.logger.Error().Err(err).
				Str("campaign_id", campaign.ID()).
				Msg("immediate overlay apply failed")
			return resp, nil
		}
		resp.Applied = true
		resp.Run = run
	}

	return resp, nil
}
