package contracts

import (
	"context"
)

// CategoryExpander resolves category IDs to the product IDs they currently
// contain. Category campaigns expand through this at apply time and at
// conflict-check time; products added to a category later are not picked up
// until the next expansion.
type CategoryExpander interface {
	ExpandCategories(ctx context.Context, categoryIDs []string) ([]string, error)
}
