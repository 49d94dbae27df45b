package e2e

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/rs/zerolog"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price_history"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/list_campaigns"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/repo"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/apply_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/create_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/create_product"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/delete_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/remove_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/set_item_discount"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/update_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/jobs/reconciler"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/runstate"
	"github.com/light-bringer/campaign-pricing-service/tests/testutil"
)

// Services holds all use cases and queries for E2E tests.
type Services struct {
	// Commands
	CreateProduct   *create_product.Interactor
	SetItemDiscount *set_item_discount.Interactor
	CreateCampaign  *create_campaign.Interactor
	UpdateCampaign  *update_campaign.Interactor
	DeleteCampaign  *delete_campaign.Interactor
	ApplyCampaign   *apply_campaign.Interactor
	RemoveCampaign  *remove_campaign.Interactor

	// Queries
	GetPrice        *get_price.Query
	GetPriceHistory *get_price_history.Query
	GetCampaign     *get_campaign.Query
	ListCampaigns   *list_campaigns.Query

	// Background jobs
	Reconciler *reconciler.Reconciler

	// Infrastructure
	Clock  clock.Clock
	Client *spanner.Client
}

// setupTest initializes all dependencies for E2E testing.
func setupTest(t *testing.T) (*Services, func()) {
	t.Helper()

	client, cleanup := testutil.SetupSpannerTest(t)
	return buildServices(client, clock.NewRealClock()), cleanup
}

// setupTestWithMockClock initializes services with a controllable mock clock.
func setupTestWithMockClock(t *testing.T) (*Services, *clock.MockClock, func()) {
	t.Helper()

	client, cleanup := testutil.SetupSpannerTest(t)
	mockClock := testutil.NewMockClock()
	return buildServices(client, mockClock), mockClock, cleanup
}

func buildServices(client *spanner.Client, clk clock.Clock) *Services {
	logger := zerolog.Nop()
	comm := committer.NewCommitter(client)
	pricer := domain.NewPriceComputer(2)
	runs := runstate.NewStore(15*time.Minute, clk)

	productRepo := repo.NewProductRepo(client, clk)
	campaignRepo := repo.NewCampaignRepo(client, clk)
	outboxRepo := repo.NewOutboxRepo(client)
	historyRepo := repo.NewPriceHistoryRepo(client)
	expander := repo.NewCategoryExpander(client)

	resolver := services.NewTargetResolver(productRepo, expander)
	conflicts := services.NewConflictChecker(campaignRepo, resolver)
	overlay := services.NewOverlayService(productRepo, outboxRepo, historyRepo, comm, resolver, pricer, runs, clk, logger)

	return &Services{
		CreateProduct:   create_product.NewInteractor(productRepo, outboxRepo, historyRepo, comm, clk),
		SetItemDiscount: set_item_discount.NewInteractor(productRepo, outboxRepo, historyRepo, comm, pricer, clk),
		CreateCampaign:  create_campaign.NewInteractor(campaignRepo, productRepo, outboxRepo, comm, resolver, conflicts, overlay, clk, logger),
		UpdateCampaign:  update_campaign.NewInteractor(campaignRepo, productRepo, outboxRepo, comm, resolver, conflicts, overlay, clk, logger),
		DeleteCampaign:  delete_campaign.NewInteractor(campaignRepo, outboxRepo, comm, overlay, clk),
		ApplyCampaign:   apply_campaign.NewInteractor(campaignRepo, overlay, clk),
		RemoveCampaign:  remove_campaign.NewInteractor(campaignRepo, overlay),
		GetPrice:        get_price.NewQuery(productRepo, pricer, clk),
		GetPriceHistory: get_price_history.NewQuery(productRepo, historyRepo),
		GetCampaign:     get_campaign.NewQuery(campaignRepo, runs, clk),
		ListCampaigns:   list_campaigns.NewQuery(campaignRepo, clk),
		Reconciler:      reconciler.New(campaignRepo, productRepo, outboxRepo, comm, overlay, pricer, clk, logger, time.Minute),
		Clock:           clk,
		Client:          client,
	}
}

// ctx returns a context for testing.
func ctx() context.Context {
	return context.Background()
}
