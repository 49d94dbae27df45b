package get_price

import (
	"context"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
)

// Request identifies the item to price. An empty VariantID prices the
// product itself.
type Request struct {
	ProductID string
	VariantID string
}

// Response is the resolved price at query time.
type Response struct {
	ProductID      string
	VariantID      string
	BasePrice      *domain.Money
	Price          *domain.Money
	DiscountActive bool
	CampaignID     string
}

// Query handles the get price query use case. Prices are computed from the
// live discount fields at read time, so a window that opened or closed since
// the last reconciliation sweep is still honored.
type Query struct {
	repo   contracts.ProductRepository
	pricer *domain.PriceComputer
	clock  clock.Clock
}

// NewQuery creates a new get price query.
func NewQuery(repo contracts.ProductRepository, pricer *domain.PriceComputer, clk clock.Clock) *Query {
	return &Query{
		repo:   repo,
		pricer: pricer,
		clock:  clk,
	}
}

// Execute resolves the effective price for a product or variant. Variants use
// the three-tier fallback: own discount, then product discount against the
// variant's base price, then the base price unmodified.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	product, err := q.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()

	if req.VariantID == "" {
		live := product.State().Live()
		return &Response{
			ProductID:      product.ID(),
			BasePrice:      product.BasePrice(),
			Price:          q.pricer.EffectivePrice(product.BasePrice(), live, now),
			DiscountActive: live.ActiveAt(now),
			CampaignID:     activeCampaignID(product.State()),
		}, nil
	}

	variant, err := product.Variant(req.VariantID)
	if err != nil {
		return nil, err
	}

	campaignID := activeCampaignID(variant.State())
	if campaignID == "" {
		campaignID = activeCampaignID(product.State())
	}

	return &Response{
		ProductID:      product.ID(),
		VariantID:      variant.ID(),
		BasePrice:      variant.EffectiveBasePrice(product),
		Price:          q.pricer.VariantPrice(product, variant, now),
		DiscountActive: q.pricer.VariantDiscountActive(product, variant, now),
		CampaignID:     campaignID,
	}, nil
}

func activeCampaignID(state domain.DiscountState) string {
	if !state.CampaignActive() {
		return ""
	}
	return state.CampaignID()
}
