package e2e

import (
	"time"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/create_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/create_product"
)

// money builds a Money from a decimal amount with 2 decimal places.
func money(amount float64) *domain.Money {
	m, _ := domain.NewMoney(int64(amount*100), 100)
	return m
}

// ProductBuilder helps create products for tests with a fluent interface
type ProductBuilder struct {
	name     string
	category string
	price    float64
	variants []create_product.VariantInput
}

// NewProductBuilder creates a new builder with default values
func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		name:     "Test Product",
		category: "cat-electronics",
		price:    100.00,
	}
}

// WithName sets the product name
func (b *ProductBuilder) WithName(name string) *ProductBuilder {
	b.name = name
	return b
}

// WithCategory sets the product category
func (b *ProductBuilder) WithCategory(categoryID string) *ProductBuilder {
	b.category = categoryID
	return b
}

// WithPrice sets the product base price
func (b *ProductBuilder) WithPrice(price float64) *ProductBuilder {
	b.price = price
	return b
}

// WithVariant adds a variant. A zero price inherits the product base price.
func (b *ProductBuilder) WithVariant(name string, price float64) *ProductBuilder {
	input := create_product.VariantInput{Name: name}
	if price > 0 {
		input.BasePrice = money(price)
	}
	b.variants = append(b.variants, input)
	return b
}

// Build creates the create_product.Request
func (b *ProductBuilder) Build() *create_product.Request {
	return &create_product.Request{
		Name:       b.name,
		CategoryID: b.category,
		BasePrice:  money(b.price),
		Variants:   b.variants,
	}
}

// CampaignBuilder helps create campaigns for tests with a fluent interface
type CampaignBuilder struct {
	name      string
	ctype     domain.CampaignType
	targets   []string
	kind      domain.DiscountKind
	percent   int64
	amount    *domain.Money
	startDate time.Time
	endDate   time.Time
}

// NewCampaignBuilder creates a builder for a product-type 10% campaign whose
// window is already open.
func NewCampaignBuilder(now time.Time) *CampaignBuilder {
	return &CampaignBuilder{
		name:      "Test Campaign",
		ctype:     domain.CampaignTypeProduct,
		kind:      domain.DiscountKindPercentage,
		percent:   10,
		startDate: now.Add(-time.Hour),
		endDate:   now.Add(24 * time.Hour),
	}
}

// WithName sets the campaign name
func (b *CampaignBuilder) WithName(name string) *CampaignBuilder {
	b.name = name
	return b
}

// WithTargets sets the target product ids
func (b *CampaignBuilder) WithTargets(ids ...string) *CampaignBuilder {
	b.targets = ids
	return b
}

// WithCategories switches to a category campaign over the given categories
func (b *CampaignBuilder) WithCategories(ids ...string) *CampaignBuilder {
	b.ctype = domain.CampaignTypeCategory
	b.targets = ids
	return b
}

// WithPercent sets a percentage discount
func (b *CampaignBuilder) WithPercent(percent int64) *CampaignBuilder {
	b.kind = domain.DiscountKindPercentage
	b.percent = percent
	b.amount = nil
	return b
}

// WithFixedAmount sets a fixed-amount discount
func (b *CampaignBuilder) WithFixedAmount(amount float64) *CampaignBuilder {
	b.kind = domain.DiscountKindFixed
	b.percent = 0
	b.amount = money(amount)
	return b
}

// WithWindow sets the campaign schedule
func (b *CampaignBuilder) WithWindow(start, end time.Time) *CampaignBuilder {
	b.startDate = start
	b.endDate = end
	return b
}

// Build creates the create_campaign.Request
func (b *CampaignBuilder) Build() *create_campaign.Request {
	return &create_campaign.Request{
		Name:      b.name,
		Type:      b.ctype,
		TargetIDs: b.targets,
		Kind:      b.kind,
		Percent:   b.percent,
		Amount:    b.amount,
		StartDate: b.startDate,
		EndDate:   b.endDate,
	}
}
