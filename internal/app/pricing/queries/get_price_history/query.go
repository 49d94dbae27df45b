package get_price_history

import (
	"context"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

const defaultLimit = 50

// Request identifies the product whose price trail to fetch.
type Request struct {
	ProductID string
	Limit     int64
}

// Response is the product's price changes, most recent first.
type Response struct {
	Changes []contracts.PriceChange
}

// Query handles the get price history query use case.
type Query struct {
	products contracts.ProductRepository
	history  contracts.PriceHistoryRepository
}

// NewQuery creates a new get price history query.
func NewQuery(products contracts.ProductRepository, history contracts.PriceHistoryRepository) *Query {
	return &Query{
		products: products,
		history:  history,
	}
}

// Execute retrieves the audit trail of a product's materialized prices,
// covering the product row and every variant.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	exists, err := q.products.Exists(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	changes, err := q.history.ListByProduct(ctx, req.ProductID, limit)
	if err != nil {
		return nil, err
	}
	return &Response{Changes: changes}, nil
}
