package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_product"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/query"
)

// CategoryExpander resolves category IDs to product IDs by querying the
// products table. The expansion is a point-in-time snapshot: products added
// to a category afterwards are picked up on the next expansion, not
// retroactively.
type CategoryExpander struct {
	client *spanner.Client
}

// NewCategoryExpander creates a new CategoryExpander.
func NewCategoryExpander(client *spanner.Client) contracts.CategoryExpander {
	return &CategoryExpander{client: client}
}

// ExpandCategories returns the IDs of all products in any of the given
// categories.
func (e *CategoryExpander) ExpandCategories(ctx context.Context, categoryIDs []string) ([]string, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	stmt := query.From(m_product.TableName).
		Select(m_product.ProductID).
		Where(query.In(m_product.CategoryID, categoryIDs)).
		Build()

	iter := e.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	productIDs := make([]string, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to expand categories: %w", err)
		}
		var id string
		if err := row.Column(0, &id); err != nil {
			return nil, fmt.Errorf("failed to parse product id: %w", err)
		}
		productIDs = append(productIDs, id)
	}
	return productIDs, nil
}
