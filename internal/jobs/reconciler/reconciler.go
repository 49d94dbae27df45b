// Package reconciler runs the periodic pass that keeps stored pricing state
// consistent with campaign definitions: expiring ended campaigns, asserting
// overlays for campaigns inside their window, and correcting drifted
// materialized prices.
package reconciler

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

// Reconciler periodically reconciles campaign windows against stored pricing
// state. Every action is idempotent, so overlapping work from the API (manual
// applies, crashes mid-run) converges on the next tick.
type Reconciler struct {
	campaigns contracts.CampaignRepository
	products  contracts.ProductRepository
	outbox    contracts.OutboxRepository
	committer *committer.Committer
	overlay   *services.OverlayService
	pricer    *domain.PriceComputer
	clock     clock.Clock
	logger    zerolog.Logger
	interval  time.Duration
	stopChan  chan struct{}
}

// New creates a new Reconciler.
func New(
	campaigns contracts.CampaignRepository,
	products contracts.ProductRepository,
	outbox contracts.OutboxRepository,
	cmt *committer.Committer,
	overlay *services.OverlayService,
	pricer *domain.PriceComputer,
	clk clock.Clock,
	logger zerolog.Logger,
	interval time.Duration,
) *Reconciler {
	return &Reconciler{
		campaigns: campaigns,
		products:  products,
		outbox:    outbox,
		committer: cmt,
		overlay:   overlay,
		pricer:    pricer,
		clock:     clk,
		logger:    logger.With().Str("component", "reconciler").Logger(),
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the periodic reconciliation loop. Blocks until the context is
// cancelled or Stop is called.
func (r *Reconciler) Start(ctx context.Context) {
	r.logger.Info().
		Dur("interval", r.interval).
		Msg("starting campaign reconciler")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("campaign reconciler stopping (context cancelled)")
			return
		case <-r.stopChan:
			r.logger.Info().Msg("campaign reconciler stopping (stop signal)")
			return
		case <-ticker.C:
			if err := r.Tick(ctx); err != nil {
				ticksTotal.WithLabelValues("error").Inc()
				r.logger.Error().Err(err).Msg("reconciliation pass failed")
			} else {
				ticksTotal.WithLabelValues("ok").Inc()
			}
		}
	}
}

// Stop signals the reconciler to stop.
func (r *Reconciler) Stop() {
	close(r.stopChan)
}

// Tick runs one full reconciliation pass. Failures are isolated per campaign
// and per product: one broken campaign never blocks the rest of the pass.
func (r *Reconciler) Tick(ctx context.Context) error {
	start := time.Now()
	defer func() {
		tickDuration.Observe(time.Since(start).Seconds())
	}()

	now := r.clock.Now()

	campaigns, err := r.campaigns.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list campaigns: %w", err)
	}

	for _, campaign := range campaigns {
		switch {
		case campaign.ShouldExpire(now):
			if err := r.expireCampaign(ctx, campaign, now); err != nil {
				campaignErrors.WithLabelValues("expire").Inc()
				r.logger.Error().Err(err).
					Str("campaign_id", campaign.ID()).
					Msg("failed to expire campaign")
				continue
			}
			campaignsExpired.Inc()

		case campaign.ShouldApply(now):
			run, err := r.overlay.Apply(ctx, campaign)
			if err != nil {
				campaignErrors.WithLabelValues("apply").Inc()
				r.logger.Error().Err(err).
					Str("campaign_id", campaign.ID()).
					Msg("failed to assert campaign overlay")
				continue
			}
			campaignsApplied.Inc()
			if run.Failed > 0 {
				r.logger.Warn().
					Str("campaign_id", campaign.ID()).
					Int("failed", run.Failed).
					Msg("overlay assertion left items behind, retrying next tick")
			}
		}
	}

	r.sweepPrices(ctx, now)

	return nil
}

// expireCampaign lifts the overlay from every product carrying it and then
// deactivates the campaign. The campaign row only flips once every product
// restored cleanly, so a partial failure is retried whole on the next tick.
func (r *Reconciler) expireCampaign(ctx context.Context, campaign *domain.Campaign, now time.Time) error {
	run, err := r.overlay.Remove(ctx, campaign)
	if err != nil {
		return err
	}
	if run.Failed > 0 {
		return fmt.Errorf("campaign %s: %d overlay removals failed", campaign.ID(), run.Failed)
	}

	expectedVersion := campaign.Version()
	campaign.Expire(now)

	plan := committer.NewPlan()
	updateMut, err := r.campaigns.UpdateMut(campaign)
	if err != nil {
		return err
	}
	plan.Add(updateMut)

	for _, event := range campaign.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		plan.Add(r.outbox.InsertMut(r.outbox.EnrichEvent(event, string(payload))))
	}

	if err := r.committer.ApplyWithVersionCheck(ctx, committer.VersionKey{
		Table: m_campaign.TableName,
		Key:   spanner.Key{campaign.ID()},
	}, expectedVersion, plan); err != nil {
		return err
	}
	campaign.ClearEvents()

	r.logger.Info().
		Str("campaign_id", campaign.ID()).
		Int("restored", run.Succeeded).
		Msg("campaign expired")

	return nil
}

// sweepPrices recomputes materialized prices whose discount windows opened or
// closed since the last write. The sweep only scans items carrying a
// percentage discount; fixed-amount windows are honored at read time but
// their stored prices are not corrected here.
func (r *Reconciler) sweepPrices(ctx context.Context, now time.Time) {
	products, err := r.products.ListWithPercentageDiscount(ctx)
	if err != nil {
		campaignErrors.WithLabelValues("sweep").Inc()
		r.logger.Error().Err(err).Msg("price sweep query failed")
		return
	}

	corrected := 0
	for _, product := range products {
		if !product.RecomputePrices(r.pricer, now) {
			continue
		}
		if err := r.overlay.CommitProduct(ctx, product, "", contracts.ReasonSweepCorrection); err != nil {
			campaignErrors.WithLabelValues("sweep").Inc()
			r.logger.Error().Err(err).
				Str("product_id", product.ID()).
				Msg("failed to commit price correction")
			continue
		}
		corrected++
		itemsCorrected.Inc()
	}

	if corrected > 0 {
		r.logger.Info().
			Int("scanned", len(products)).
			Int("corrected", corrected).
			Msg("price sweep corrected drifted prices")
	}
}
