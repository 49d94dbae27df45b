package set_item_discount

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_product"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/committer"
)

// Request contains a merchant's standalone discount edit. An empty VariantID
// targets the product itself. Clear removes the discount explicitly, which is
// a different state from never having had one.
type Request struct {
	ProductID string
	VariantID string
	Clear     bool
	Kind      domain.DiscountKind
	Percent   int64
	Amount    *domain.Money
	StartDate *time.Time
	EndDate   *time.Time
}

// Interactor handles the set item discount use case.
type Interactor struct {
	repo        contracts.ProductRepository
	outboxRepo  contracts.OutboxRepository
	historyRepo contracts.PriceHistoryRepository
	committer   *committer.Committer
	pricer      *domain.PriceComputer
	clock       clock.Clock
}

// NewInteractor creates a new set item discount interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	outboxRepo contracts.OutboxRepository,
	historyRepo contracts.PriceHistoryRepository,
	cmt *committer.Committer,
	pricer *domain.PriceComputer,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		repo:        repo,
		outboxRepo:  outboxRepo,
		historyRepo: historyRepo,
		committer:   cmt,
		pricer:      pricer,
		clock:       clk,
	}
}

// Execute records a standalone discount edit on a product or variant. While a
// campaign overlay holds the item, the edit lands in the snapshot and takes
// effect when the campaign ends.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	spec, presence, err := i.buildSpec(req)
	if err != nil {
		return err
	}

	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}

	now := i.clock.Now()
	if req.VariantID == "" {
		product.SetStandaloneDiscount(spec, presence, i.pricer, now)
	} else {
		if err := product.SetVariantDiscount(req.VariantID, spec, presence, i.pricer, now); err != nil {
			return err
		}
	}

	muts, err := i.repo.UpdateMuts(product)
	if err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.AddMultiple(muts)

	historyMuts, err := services.PriceChangeMuts(i.historyRepo, product, "", contracts.ReasonDiscountSet, now)
	if err != nil {
		return err
	}
	plan.AddMultiple(historyMuts)

	for _, event := range product.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, string(payload))))
	}

	return i.committer.ApplyWithVersionCheck(ctx, committer.VersionKey{
		Table: m_product.TableName,
		Key:   spanner.Key{product.ID()},
	}, product.Version(), plan)
}

func (i *Interactor) buildSpec(req *Request) (domain.DiscountSpec, domain.DiscountPresence, error) {
	if req.Clear {
		return domain.ZeroDiscount(), domain.DiscountPresenceExplicitZero, nil
	}

	switch req.Kind {
	case domain.DiscountKindPercentage:
		spec, err := domain.NewPercentageDiscount(req.Percent, req.StartDate, req.EndDate)
		if err != nil {
			return domain.DiscountSpec{}, "", err
		}
		return spec, domain.DiscountPresenceExplicitValue, nil
	case domain.DiscountKindFixed:
		spec, err := domain.NewFixedDiscount(req.Amount, req.StartDate, req.EndDate)
		if err != nil {
			return domain.DiscountSpec{}, "", err
		}
		return spec, domain.DiscountPresenceExplicitValue, nil
	default:
		return domain.DiscountSpec{}, "", domain.ErrInvalidDiscountKind
	}
}
