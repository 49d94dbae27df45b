package services

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/spanner"
	"github.com/rs/zerolog"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_product"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/runstate"
)

// RunResult summarizes one overlay run over a campaign's products.
type RunResult struct {
	Total     int
	Succeeded int
	Failed    int
}

// OverlayService walks a campaign's products and applies or removes the
// campaign overlay. Each product commits independently under a version check:
// a failed item is logged and skipped, the run continues, and the
// reconciliation job retries the item later. There is deliberately no
// cross-product transaction, so a large campaign never holds a wide lock.
type OverlayService struct {
	products  contracts.ProductRepository
	outbox    contracts.OutboxRepository
	history   contracts.PriceHistoryRepository
	committer *committer.Committer
	resolver  *TargetResolver
	pricer    *domain.PriceComputer
	runs      *runstate.Store
	clock     clock.Clock
	logger    zerolog.Logger
}

// NewOverlayService creates a new OverlayService.
func NewOverlayService(
	products contracts.ProductRepository,
	outbox contracts.OutboxRepository,
	history contracts.PriceHistoryRepository,
	cmt *committer.Committer,
	resolver *TargetResolver,
	pricer *domain.PriceComputer,
	runs *runstate.Store,
	clk clock.Clock,
	logger zerolog.Logger,
) *OverlayService {
	return &OverlayService{
		products:  products,
		outbox:    outbox,
		history:   history,
		committer: cmt,
		resolver:  resolver,
		pricer:    pricer,
		runs:      runs,
		clock:     clk,
		logger:    logger.With().Str("component", "overlay_service").Logger(),
	}
}

// Apply installs the campaign overlay on every product the campaign currently
// targets. Idempotent: re-applying refreshes overlay values without touching
// snapshots.
func (s *OverlayService) Apply(ctx context.Context, campaign *domain.Campaign) (RunResult, error) {
	products, err := s.resolver.Resolve(ctx, campaign)
	if err != nil {
		return RunResult{}, err
	}

	now := s.clock.Now()
	spec := campaign.OverlaySpec()

	s.runs.Begin(campaign.ID(), runstate.OpApply, len(products))
	defer s.runs.Finish(campaign.ID())

	result := RunResult{Total: len(products)}
	for _, product := range products {
		product.ApplyCampaignOverlay(campaign.ID(), spec, s.pricer, now)

		if err := s.CommitProduct(ctx, product, campaign.ID(), contracts.ReasonCampaignApplied); err != nil {
			s.logger.Error().Err(err).
				Str("campaign_id", campaign.ID()).
				Str("product_id", product.ID()).
				Msg("failed to apply campaign overlay")
			s.runs.RecordFailure(campaign.ID())
			result.Failed++
			continue
		}
		s.runs.RecordSuccess(campaign.ID())
		result.Succeeded++
	}

	s.logger.Info().
		Str("campaign_id", campaign.ID()).
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("campaign overlay applied")

	return result, nil
}

// Remove lifts the campaign overlay from every product currently carrying it
// and restores each item's standalone discount from its snapshot. Walks the
// overlay column rather than the target list, so overlays orphaned by target
// edits are restored too. Safe to repeat.
func (s *OverlayService) Remove(ctx context.Context, campaign *domain.Campaign) (RunResult, error) {
	products, err := s.products.ListByCampaignOverlay(ctx, campaign.ID())
	if err != nil {
		return RunResult{}, err
	}

	now := s.clock.Now()

	s.runs.Begin(campaign.ID(), runstate.OpRemove, len(products))
	defer s.runs.Finish(campaign.ID())

	result := RunResult{Total: len(products)}
	for _, product := range products {
		product.RemoveCampaignOverlay(campaign.ID(), s.pricer, now)

		if err := s.CommitProduct(ctx, product, campaign.ID(), contracts.ReasonCampaignRemoved); err != nil {
			s.logger.Error().Err(err).
				Str("campaign_id", campaign.ID()).
				Str("product_id", product.ID()).
				Msg("failed to remove campaign overlay")
			s.runs.RecordFailure(campaign.ID())
			result.Failed++
			continue
		}
		s.runs.RecordSuccess(campaign.ID())
		result.Succeeded++
	}

	s.logger.Info().
		Str("campaign_id", campaign.ID()).
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("campaign overlay removed")

	return result, nil
}

// CommitProduct persists one product aggregate, its events, and the audit
// trail of any price movements atomically, guarded by the product's version.
// The reconciliation sweep shares it for drift corrections.
func (s *OverlayService) CommitProduct(ctx context.Context, product *domain.Product, campaignID, reason string) error {
	muts, err := s.products.UpdateMuts(product)
	if err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.AddMultiple(muts)

	historyMuts, err := PriceChangeMuts(s.history, product, campaignID, reason, s.clock.Now())
	if err != nil {
		return err
	}
	plan.AddMultiple(historyMuts)

	for _, event := range product.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		plan.Add(s.outbox.InsertMut(s.outbox.EnrichEvent(event, string(payload))))
	}

	if err := s.committer.ApplyWithVersionCheck(ctx, committer.VersionKey{
		Table: m_product.TableName,
		Key:   spanner.Key{product.ID()},
	}, product.Version(), plan); err != nil {
		return err
	}

	product.ClearEvents()
	return nil
}
