package contracts

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

// ProductRepository defines the interface for product persistence.
// Repositories return mutations, they don't apply them; usecases collect the
// mutations into a commit plan and apply it atomically.
//
// Products load with their variants attached: discount orchestration always
// works on the whole aggregate.
type ProductRepository interface {
	// InsertMuts creates mutations for inserting a new product and its
	// variants. Returns error if money values exceed int64 bounds.
	InsertMuts(product *domain.Product) ([]*spanner.Mutation, error)

	// UpdateMuts creates mutations for the dirty fields of a product and of
	// each dirty variant. Version columns are bumped as part of the update.
	UpdateMuts(product *domain.Product) ([]*spanner.Mutation, error)

	// DeleteMut creates a mutation for deleting a product. Variant rows go
	// with it via interleaving.
	DeleteMut(productID string) *spanner.Mutation

	// GetByID retrieves a product by ID with variants attached,
	// reconstructing the domain aggregate.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// Exists checks if a product exists.
	Exists(ctx context.Context, productID string) (bool, error)

	// ListByIDs retrieves the products with the given IDs, variants attached.
	// Missing IDs are skipped, not errors.
	ListByIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error)

	// ListByCategories retrieves all products in any of the given categories,
	// variants attached.
	ListByCategories(ctx context.Context, categoryIDs []string) ([]*domain.Product, error)

	// ListByCampaignOverlay retrieves products currently carrying the given
	// campaign's overlay, variants attached. Removal walks this set rather
	// than the campaign's target list, so overlays left behind by target
	// edits are still restored.
	ListByCampaignOverlay(ctx context.Context, campaignID string) ([]*domain.Product, error)

	// ListWithPercentageDiscount retrieves products whose live discount is a
	// positive percentage, variants attached. Feeds the reconciliation sweep.
	ListWithPercentageDiscount(ctx context.Context) ([]*domain.Product, error)
}
