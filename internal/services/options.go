// Package services wires up the application's dependency graph.
package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/rs/zerolog"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price_history"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/list_campaigns"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/repo"
	appservices "github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/apply_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/create_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/create_product"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/delete_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/remove_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/set_item_discount"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/update_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/config"
	"github.com/light-bringer/campaign-pricing-service/internal/jobs/reconciler"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/runstate"
	httptransport "github.com/light-bringer/campaign-pricing-service/internal/transport/http"
)

// ServiceOptions holds all wired dependencies of the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client

	CampaignHandler *httptransport.CampaignHandler
	ProductHandler  *httptransport.ProductHandler
	EventsHandler   *httptransport.EventsHandler

	Reconciler *reconciler.Reconciler
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*ServiceOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, cfg.Spanner.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// Infrastructure
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	pricer := domain.NewPriceComputer(cfg.Pricing.Scale)
	runs := runstate.NewStore(cfg.Reconciler.RunStateTTL, clk)

	// Repositories
	productRepo := repo.NewProductRepo(spannerClient, clk)
	campaignRepo := repo.NewCampaignRepo(spannerClient, clk)
	outboxRepo := repo.NewOutboxRepo(spannerClient)
	historyRepo := repo.NewPriceHistoryRepo(spannerClient)
	expander := repo.NewCategoryExpander(spannerClient)

	// Domain services
	resolver := appservices.NewTargetResolver(productRepo, expander)
	conflicts := appservices.NewConflictChecker(campaignRepo, resolver)
	overlay := appservices.NewOverlayService(productRepo, outboxRepo, historyRepo, comm, resolver, pricer, runs, clk, logger)

	// Command use cases
	createCampaign := create_campaign.NewInteractor(campaignRepo, productRepo, outboxRepo, comm, resolver, conflicts, overlay, clk, logger)
	updateCampaign := update_campaign.NewInteractor(campaignRepo, productRepo, outboxRepo, comm, resolver, conflicts, overlay, clk, logger)
	deleteCampaign := delete_campaign.NewInteractor(campaignRepo, outboxRepo, comm, overlay, clk)
	applyCampaign := apply_campaign.NewInteractor(campaignRepo, overlay, clk)
	removeCampaign := remove_campaign.NewInteractor(campaignRepo, overlay)
	setDiscount := set_item_discount.NewInteractor(productRepo, outboxRepo, historyRepo, comm, pricer, clk)
	createProduct := create_product.NewInteractor(productRepo, outboxRepo, historyRepo, comm, clk)

	// Query use cases
	getPrice := get_price.NewQuery(productRepo, pricer, clk)
	getHistory := get_price_history.NewQuery(productRepo, historyRepo)
	listCampaigns := list_campaigns.NewQuery(campaignRepo, clk)
	getCampaign := get_campaign.NewQuery(campaignRepo, runs, clk)
	listEvents := list_events.NewQuery(outboxRepo)

	// Transport handlers
	campaignHandler := httptransport.NewCampaignHandler(
		createCampaign,
		updateCampaign,
		deleteCampaign,
		applyCampaign,
		removeCampaign,
		getCampaign,
		listCampaigns,
	)
	productHandler := httptransport.NewProductHandler(createProduct, setDiscount, getPrice, getHistory)
	eventsHandler := httptransport.NewEventsHandler(listEvents)

	// Background reconciliation
	recon := reconciler.New(
		campaignRepo,
		productRepo,
		outboxRepo,
		comm,
		overlay,
		pricer,
		clk,
		logger,
		cfg.Reconciler.Interval,
	)

	return &ServiceOptions{
		SpannerClient:   spannerClient,
		CampaignHandler: campaignHandler,
		ProductHandler:  productHandler,
		EventsHandler:   eventsHandler,
		Reconciler:      recon,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
