package create_product

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/services"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/committer"
)

// VariantInput describes one variant of a new product. A nil BasePrice
// inherits the product's.
type VariantInput struct {
	Name      string
	BasePrice *domain.Money
}

// Request contains the data to create a product with its variants.
type Request struct {
	Name       string
	CategoryID string
	BasePrice  *domain.Money
	Variants   []VariantInput
}

// Response carries the generated identifiers.
type Response struct {
	ProductID  string
	VariantIDs []string
}

// Interactor handles the create product use case.
type Interactor struct {
	repo        contracts.ProductRepository
	outboxRepo  contracts.OutboxRepository
	historyRepo contracts.PriceHistoryRepository
	committer   *committer.Committer
	clock       clock.Clock
}

// NewInteractor creates a new create product interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	outboxRepo contracts.OutboxRepository,
	historyRepo contracts.PriceHistoryRepository,
	cmt *committer.Committer,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		repo:        repo,
		outboxRepo:  outboxRepo,
		historyRepo: historyRepo,
		committer:   cmt,
		clock:       clk,
	}
}

// Execute creates a product and its variants in one commit.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := i.clock.Now()

	product, err := domain.NewProduct(uuid.New().String(), req.Name, req.CategoryID, req.BasePrice, now)
	if err != nil {
		return nil, err
	}

	variantIDs := make([]string, 0, len(req.Variants))
	variants := make([]*domain.Variant, 0, len(req.Variants))
	for _, input := range req.Variants {
		variant, err := newVariant(product.ID(), input, now)
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
		variantIDs = append(variantIDs, variant.ID())
	}
	product.AttachVariants(variants)

	muts, err := i.repo.InsertMuts(product)
	if err != nil {
		return nil, err
	}

	plan := committer.NewPlan()
	plan.AddMultiple(muts)

	historyMuts, err := services.PriceChangeMuts(i.historyRepo, product, "", contracts.ReasonCreated, now)
	if err != nil {
		return nil, err
	}
	plan.AddMultiple(historyMuts)

	for _, event := range product.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, string(payload))))
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &Response{ProductID: product.ID(), VariantIDs: variantIDs}, nil
}

func newVariant(productID string, input VariantInput, now time.Time) (*domain.Variant, error) {
	return domain.NewVariant(uuid.New().String(), productID, input.Name, input.BasePrice, now)
}
