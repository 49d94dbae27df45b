package repo

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_product"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_variant"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/query"
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client       *spanner.Client
	productModel *m_product.Model
	variantModel *m_variant.Model
	clock        clock.Clock
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client, clk clock.Clock) contracts.ProductRepository {
	return &ProductRepo{
		client:       client,
		productModel: m_product.NewModel(),
		variantModel: m_variant.NewModel(),
		clock:        clk,
	}
}

// InsertMuts creates mutations for inserting a new product and its variants.
func (r *ProductRepo) InsertMuts(product *domain.Product) ([]*spanner.Mutation, error) {
	data, err := r.productToData(product)
	if err != nil {
		return nil, err
	}
	muts := []*spanner.Mutation{r.productModel.InsertMut(data)}

	for _, v := range product.Variants() {
		vdata, err := r.variantToData(v)
		if err != nil {
			return nil, err
		}
		muts = append(muts, r.variantModel.InsertMut(vdata))
	}
	return muts, nil
}

// UpdateMuts creates mutations for the dirty fields of a product and of each
// dirty variant.
func (r *ProductRepo) UpdateMuts(product *domain.Product) ([]*spanner.Mutation, error) {
	muts := make([]*spanner.Mutation, 0, 1+len(product.Variants()))

	if product.Changes().HasChanges() {
		updates, err := r.productUpdates(product)
		if err != nil {
			return nil, err
		}
		if len(updates) > 0 {
			updates[m_product.Version] = product.Version() + 1
			muts = append(muts, r.productModel.UpdateMut(product.ID(), updates))
		}
	}

	for _, v := range product.Variants() {
		if !v.Changes().HasChanges() {
			continue
		}
		updates, err := r.variantUpdates(v)
		if err != nil {
			return nil, err
		}
		if len(updates) > 0 {
			updates[m_variant.Version] = v.Version() + 1
			muts = append(muts, r.variantModel.UpdateMut(product.ID(), v.ID(), updates))
		}
	}

	return muts, nil
}

// DeleteMut creates a mutation for deleting a product. Interleaved variant
// rows are removed by ON DELETE CASCADE.
func (r *ProductRepo) DeleteMut(productID string) *spanner.Mutation {
	return r.productModel.DeleteMut(productID)
}

// GetByID retrieves a product by ID with variants attached.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	row, err := txn.ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.AllColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	product, err := r.productToDomain(&data)
	if err != nil {
		return nil, err
	}

	variants, err := r.readVariants(ctx, txn, productID)
	if err != nil {
		return nil, err
	}
	product.AttachVariants(variants)

	return product, nil
}

// Exists checks if a product exists.
func (r *ProductRepo) Exists(ctx context.Context, productID string) (bool, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, []string{m_product.ProductID})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return row != nil, nil
}

// ListByIDs retrieves the products with the given IDs, variants attached.
// Missing IDs are skipped.
func (r *ProductRepo) ListByIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	stmt := query.From(m_product.TableName).
		Select(m_product.AllColumns()...).
		Where(query.In(m_product.ProductID, productIDs)).
		Build()
	return r.queryProducts(ctx, stmt)
}

// ListByCategories retrieves all products in any of the given categories,
// variants attached.
func (r *ProductRepo) ListByCategories(ctx context.Context, categoryIDs []string) ([]*domain.Product, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	stmt := query.From(m_product.TableName).
		Select(m_product.AllColumns()...).
		Where(query.In(m_product.CategoryID, categoryIDs)).
		Build()
	return r.queryProducts(ctx, stmt)
}

// ListByCampaignOverlay retrieves products currently carrying the given
// campaign's overlay, variants attached.
func (r *ProductRepo) ListByCampaignOverlay(ctx context.Context, campaignID string) ([]*domain.Product, error) {
	stmt := query.From(m_product.TableName).
		Select(m_product.AllColumns()...).
		Where(query.Eq(m_product.CampaignID, campaignID)).
		Build()
	return r.queryProducts(ctx, stmt)
}

// ListWithPercentageDiscount retrieves products where the product itself or
// any of its variants carries a positive percentage live discount, variants
// attached. Variants hold their own discount columns, so a variant-only
// discount pulls its parent product into the result set.
func (r *ProductRepo) ListWithPercentageDiscount(ctx context.Context) ([]*domain.Product, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf(
			"SELECT %s FROM %s WHERE (%s = @kind AND %s > 0) OR %s IN (SELECT %s FROM %s WHERE %s = @kind AND %s > 0)",
			strings.Join(m_product.AllColumns(), ", "),
			m_product.TableName,
			m_product.DiscountKind, m_product.DiscountPercent,
			m_product.ProductID,
			m_variant.ProductID, m_variant.TableName,
			m_variant.DiscountKind, m_variant.DiscountPercent,
		),
		Params: map[string]interface{}{
			"kind": string(domain.DiscountKindPercentage),
		},
	}
	return r.queryProducts(ctx, stmt)
}

// queryProducts runs a product query and attaches each product's variants
// within the same read-only transaction.
func (r *ProductRepo) queryProducts(ctx context.Context, stmt spanner.Statement) ([]*domain.Product, error) {
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		product, err := r.productToDomain(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	for _, product := range products {
		variants, err := r.readVariants(ctx, txn, product.ID())
		if err != nil {
			return nil, err
		}
		product.AttachVariants(variants)
	}

	return products, nil
}

// readVariants reads all variant rows interleaved under a product.
func (r *ProductRepo) readVariants(ctx context.Context, txn *spanner.ReadOnlyTransaction, productID string) ([]*domain.Variant, error) {
	iter := txn.Read(ctx, m_variant.TableName, spanner.Key{productID}.AsPrefix(), m_variant.AllColumns())
	defer iter.Stop()

	variants := make([]*domain.Variant, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read variants: %w", err)
		}

		var data m_variant.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse variant: %w", err)
		}
		variant, err := r.variantToDomain(&data)
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}
	return variants, nil
}

// productUpdates builds the partial-update map for a product's dirty fields.
func (r *ProductRepo) productUpdates(product *domain.Product) (map[string]interface{}, error) {
	changes := product.Changes()
	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}
	if changes.Dirty(domain.FieldCategory) {
		updates[m_product.CategoryID] = product.CategoryID()
	}
	if changes.Dirty(domain.FieldBasePrice) {
		num, denom, err := moneyColumns(product.BasePrice())
		if err != nil {
			return nil, fmt.Errorf("base price: %w", err)
		}
		updates[m_product.BasePriceNumerator] = num
		updates[m_product.BasePriceDenominator] = denom
	}
	if changes.Dirty(domain.FieldPrice) {
		num, denom, err := moneyColumns(product.Price())
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		updates[m_product.PriceNumerator] = num
		updates[m_product.PriceDenominator] = denom
	}
	if changes.Dirty(domain.FieldDiscount) {
		stateUpdates, err := discountStateUpdates(product.State())
		if err != nil {
			return nil, err
		}
		for col, val := range stateUpdates {
			updates[col] = val
		}
	}

	return updates, nil
}

// variantUpdates builds the partial-update map for a variant's dirty fields.
func (r *ProductRepo) variantUpdates(v *domain.Variant) (map[string]interface{}, error) {
	changes := v.Changes()
	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_variant.Name] = v.Name()
	}
	if changes.Dirty(domain.FieldBasePrice) {
		num, denom, err := nullableMoneyColumns(v.BasePrice())
		if err != nil {
			return nil, fmt.Errorf("variant base price: %w", err)
		}
		updates[m_variant.BasePriceNumerator] = num
		updates[m_variant.BasePriceDenominator] = denom
	}
	if changes.Dirty(domain.FieldPrice) {
		price := v.Price()
		if price == nil {
			price = domain.ZeroMoney()
		}
		num, denom, err := moneyColumns(price)
		if err != nil {
			return nil, fmt.Errorf("variant price: %w", err)
		}
		updates[m_variant.PriceNumerator] = num
		updates[m_variant.PriceDenominator] = denom
	}
	if changes.Dirty(domain.FieldDiscount) {
		stateUpdates, err := discountStateUpdates(v.State())
		if err != nil {
			return nil, err
		}
		for col, val := range stateUpdates {
			updates[col] = val
		}
	}

	return updates, nil
}

// productToData converts a domain Product to database Data.
func (r *ProductRepo) productToData(product *domain.Product) (*m_product.Data, error) {
	baseNum, baseDenom, err := moneyColumns(product.BasePrice())
	if err != nil {
		return nil, fmt.Errorf("base price: %w", err)
	}
	priceNum, priceDenom, err := moneyColumns(product.Price())
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	data := &m_product.Data{
		ProductID:            product.ID(),
		Name:                 product.Name(),
		CategoryID:           product.CategoryID(),
		BasePriceNumerator:   baseNum,
		BasePriceDenominator: baseDenom,
		PriceNumerator:       priceNum,
		PriceDenominator:     priceDenom,
		Version:              product.Version(),
		CreatedAt:            product.CreatedAt(),
		UpdatedAt:            product.UpdatedAt(),
	}

	cols, err := stateToColumns(product.State())
	if err != nil {
		return nil, err
	}
	data.DiscountPresence = cols.Presence
	data.DiscountKind = cols.Live.Kind
	data.DiscountPercent = cols.Live.Percent
	data.DiscountAmountNumerator = cols.Live.AmountNum
	data.DiscountAmountDenominator = cols.Live.AmountDenom
	data.DiscountStart = cols.Live.Start
	data.DiscountEnd = cols.Live.End
	data.CampaignDiscountActive = cols.CampaignActive
	data.CampaignID = cols.CampaignID
	data.CampaignDiscountKind = cols.Campaign.Kind
	data.CampaignDiscountPercent = cols.Campaign.Percent
	data.CampaignDiscountAmountNumerator = cols.Campaign.AmountNum
	data.CampaignDiscountAmountDenominator = cols.Campaign.AmountDenom
	data.CampaignDiscountStart = cols.Campaign.Start
	data.CampaignDiscountEnd = cols.Campaign.End
	data.OriginalSet = cols.OriginalSet
	data.OriginalPresence = cols.OriginalPresence
	data.OriginalDiscountKind = cols.Original.Kind
	data.OriginalDiscountPercent = cols.Original.Percent
	data.OriginalDiscountAmountNumerator = cols.Original.AmountNum
	data.OriginalDiscountAmountDenominator = cols.Original.AmountDenom
	data.OriginalDiscountStart = cols.Original.Start
	data.OriginalDiscountEnd = cols.Original.End

	return data, nil
}

// variantToData converts a domain Variant to database Data.
func (r *ProductRepo) variantToData(v *domain.Variant) (*m_variant.Data, error) {
	baseNum, baseDenom, err := nullableMoneyColumns(v.BasePrice())
	if err != nil {
		return nil, fmt.Errorf("variant base price: %w", err)
	}
	price := v.Price()
	if price == nil {
		price = domain.ZeroMoney()
	}
	priceNum, priceDenom, err := moneyColumns(price)
	if err != nil {
		return nil, fmt.Errorf("variant price: %w", err)
	}

	data := &m_variant.Data{
		ProductID:            v.ProductID(),
		VariantID:            v.ID(),
		Name:                 v.Name(),
		BasePriceNumerator:   baseNum,
		BasePriceDenominator: baseDenom,
		PriceNumerator:       priceNum,
		PriceDenominator:     priceDenom,
		Version:              v.Version(),
		CreatedAt:            v.CreatedAt(),
		UpdatedAt:            v.UpdatedAt(),
	}

	cols, err := stateToColumns(v.State())
	if err != nil {
		return nil, err
	}
	data.DiscountPresence = cols.Presence
	data.DiscountKind = cols.Live.Kind
	data.DiscountPercent = cols.Live.Percent
	data.DiscountAmountNumerator = cols.Live.AmountNum
	data.DiscountAmountDenominator = cols.Live.AmountDenom
	data.DiscountStart = cols.Live.Start
	data.DiscountEnd = cols.Live.End
	data.CampaignDiscountActive = cols.CampaignActive
	data.CampaignID = cols.CampaignID
	data.CampaignDiscountKind = cols.Campaign.Kind
	data.CampaignDiscountPercent = cols.Campaign.Percent
	data.CampaignDiscountAmountNumerator = cols.Campaign.AmountNum
	data.CampaignDiscountAmountDenominator = cols.Campaign.AmountDenom
	data.CampaignDiscountStart = cols.Campaign.Start
	data.CampaignDiscountEnd = cols.Campaign.End
	data.OriginalSet = cols.OriginalSet
	data.OriginalPresence = cols.OriginalPresence
	data.OriginalDiscountKind = cols.Original.Kind
	data.OriginalDiscountPercent = cols.Original.Percent
	data.OriginalDiscountAmountNumerator = cols.Original.AmountNum
	data.OriginalDiscountAmountDenominator = cols.Original.AmountDenom
	data.OriginalDiscountStart = cols.Original.Start
	data.OriginalDiscountEnd = cols.Original.End

	return data, nil
}

// productToDomain converts database Data to a domain Product.
func (r *ProductRepo) productToDomain(data *m_product.Data) (*domain.Product, error) {
	basePrice, err := domain.NewMoney(data.BasePriceNumerator, data.BasePriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid base price: %w", err)
	}
	price, err := domain.NewMoney(data.PriceNumerator, data.PriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	state, err := stateFromColumns(stateColumns{
		Presence: data.DiscountPresence,
		Live: discountColumns{
			Kind:        data.DiscountKind,
			Percent:     data.DiscountPercent,
			AmountNum:   data.DiscountAmountNumerator,
			AmountDenom: data.DiscountAmountDenominator,
			Start:       data.DiscountStart,
			End:         data.DiscountEnd,
		},
		CampaignActive: data.CampaignDiscountActive,
		CampaignID:     data.CampaignID,
		Campaign: discountColumns{
			Kind:        data.CampaignDiscountKind,
			Percent:     data.CampaignDiscountPercent,
			AmountNum:   data.CampaignDiscountAmountNumerator,
			AmountDenom: data.CampaignDiscountAmountDenominator,
			Start:       data.CampaignDiscountStart,
			End:         data.CampaignDiscountEnd,
		},
		OriginalSet:      data.OriginalSet,
		OriginalPresence: data.OriginalPresence,
		Original: discountColumns{
			Kind:        data.OriginalDiscountKind,
			Percent:     data.OriginalDiscountPercent,
			AmountNum:   data.OriginalDiscountAmountNumerator,
			AmountDenom: data.OriginalDiscountAmountDenominator,
			Start:       data.OriginalDiscountStart,
			End:         data.OriginalDiscountEnd,
		},
	})
	if err != nil {
		return nil, err
	}

	return domain.ReconstructProduct(
		data.ProductID,
		data.Name,
		data.CategoryID,
		basePrice,
		price,
		state,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	), nil
}

// variantToDomain converts database Data to a domain Variant.
func (r *ProductRepo) variantToDomain(data *m_variant.Data) (*domain.Variant, error) {
	var basePrice *domain.Money
	if data.BasePriceNumerator.Valid && data.BasePriceDenominator.Valid {
		var err error
		basePrice, err = domain.NewMoney(data.BasePriceNumerator.Int64, data.BasePriceDenominator.Int64)
		if err != nil {
			return nil, fmt.Errorf("invalid variant base price: %w", err)
		}
	}
	price, err := domain.NewMoney(data.PriceNumerator, data.PriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid variant price: %w", err)
	}

	state, err := stateFromColumns(stateColumns{
		Presence: data.DiscountPresence,
		Live: discountColumns{
			Kind:        data.DiscountKind,
			Percent:     data.DiscountPercent,
			AmountNum:   data.DiscountAmountNumerator,
			AmountDenom: data.DiscountAmountDenominator,
			Start:       data.DiscountStart,
			End:         data.DiscountEnd,
		},
		CampaignActive: data.CampaignDiscountActive,
		CampaignID:     data.CampaignID,
		Campaign: discountColumns{
			Kind:        data.CampaignDiscountKind,
			Percent:     data.CampaignDiscountPercent,
			AmountNum:   data.CampaignDiscountAmountNumerator,
			AmountDenom: data.CampaignDiscountAmountDenominator,
			Start:       data.CampaignDiscountStart,
			End:         data.CampaignDiscountEnd,
		},
		OriginalSet:      data.OriginalSet,
		OriginalPresence: data.OriginalPresence,
		Original: discountColumns{
			Kind:        data.OriginalDiscountKind,
			Percent:     data.OriginalDiscountPercent,
			AmountNum:   data.OriginalDiscountAmountNumerator,
			AmountDenom: data.OriginalDiscountAmountDenominator,
			Start:       data.OriginalDiscountStart,
			End:         data.OriginalDiscountEnd,
		},
	})
	if err != nil {
		return nil, err
	}

	return domain.ReconstructVariant(
		data.VariantID,
		data.ProductID,
		data.Name,
		basePrice,
		price,
		state,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	), nil
}

// moneyColumns normalizes a Money and returns its storage columns.
func moneyColumns(m *domain.Money) (int64, int64, error) {
	normalized := m.Normalize()
	if !normalized.IsSafeForStorage() {
		return 0, 0, fmt.Errorf("value exceeds storage capacity: %w", domain.ErrMoneyOverflow)
	}
	num, _ := normalized.Numerator()
	denom, _ := normalized.Denominator()
	return num, denom, nil
}

// nullableMoneyColumns handles an optional Money (nil means inherit).
func nullableMoneyColumns(m *domain.Money) (spanner.NullInt64, spanner.NullInt64, error) {
	if m == nil {
		return spanner.NullInt64{}, spanner.NullInt64{}, nil
	}
	num, denom, err := moneyColumns(m)
	if err != nil {
		return spanner.NullInt64{}, spanner.NullInt64{}, err
	}
	return spanner.NullInt64{Int64: num, Valid: true}, spanner.NullInt64{Int64: denom, Valid: true}, nil
}
