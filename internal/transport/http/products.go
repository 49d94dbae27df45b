package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_price_history"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/create_product"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/set_item_discount"
)

// ProductHandler serves the product and item discount endpoints.
type ProductHandler struct {
	create      *create_product.Interactor
	setDiscount *set_item_discount.Interactor
	getPrice    *get_price.Query
	getHistory  *get_price_history.Query
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(
	create *create_product.Interactor,
	setDiscount *set_item_discount.Interactor,
	getPrice *get_price.Query,
	getHistory *get_price_history.Query,
) *ProductHandler {
	return &ProductHandler{
		create:      create,
		setDiscount: setDiscount,
		getPrice:    getPrice,
		getHistory:  getHistory,
	}
}

type variantBody struct {
	Name      string `json:"name" binding:"required"`
	BasePrice string `json:"basePrice"`
}

type productBody struct {
	Name       string        `json:"name" binding:"required"`
	CategoryID string        `json:"categoryId" binding:"required"`
	BasePrice  string        `json:"basePrice" binding:"required"`
	Variants   []variantBody `json:"variants"`
}

// Create handles POST /v1/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var body productBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	basePrice, err := parseMoney(body.BasePrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variants := make([]create_product.VariantInput, 0, len(body.Variants))
	for _, v := range body.Variants {
		input := create_product.VariantInput{Name: v.Name}
		if v.BasePrice != "" {
			price, err := parseMoney(v.BasePrice)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			input.BasePrice = price
		}
		variants = append(variants, input)
	}

	resp, err := h.create.Execute(c.Request.Context(), &create_product.Request{
		Name:       body.Name,
		CategoryID: body.CategoryID,
		BasePrice:  basePrice,
		Variants:   variants,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"productId": resp.ProductID, "variantIds": resp.VariantIDs})
}

// itemDiscountBody is a standalone discount edit. Clear wins over the other
// fields and records an explicit removal.
type itemDiscountBody struct {
	Clear     bool       `json:"clear"`
	Kind      string     `json:"kind"`
	Percent   int64      `json:"percent"`
	Amount    string     `json:"amount"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// SetDiscount handles PUT /v1/products/:id/discount.
func (h *ProductHandler) SetDiscount(c *gin.Context) {
	h.setItemDiscount(c, c.Param("id"), "")
}

// SetVariantDiscount handles PUT /v1/products/:id/variants/:variantId/discount.
func (h *ProductHandler) SetVariantDiscount(c *gin.Context) {
	h.setItemDiscount(c, c.Param("id"), c.Param("variantId"))
}

func (h *ProductHandler) setItemDiscount(c *gin.Context, productID, variantID string) {
	var body itemDiscountBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := &set_item_discount.Request{
		ProductID: productID,
		VariantID: variantID,
		Clear:     body.Clear,
		Kind:      domain.DiscountKind(body.Kind),
		Percent:   body.Percent,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
	}
	if !body.Clear && domain.DiscountKind(body.Kind) == domain.DiscountKindFixed {
		amount, err := parseMoney(body.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Amount = amount
	}

	if err := h.setDiscount.Execute(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Price handles GET /v1/products/:id/price.
func (h *ProductHandler) Price(c *gin.Context) {
	h.price(c, c.Param("id"), "")
}

// VariantPrice handles GET /v1/products/:id/variants/:variantId/price.
func (h *ProductHandler) VariantPrice(c *gin.Context) {
	h.price(c, c.Param("id"), c.Param("variantId"))
}

func (h *ProductHandler) price(c *gin.Context, productID, variantID string) {
	resp, err := h.getPrice.Execute(c.Request.Context(), &get_price.Request{
		ProductID: productID,
		VariantID: variantID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	out := gin.H{
		"productId":      resp.ProductID,
		"basePrice":      resp.BasePrice.String(),
		"price":          resp.Price.String(),
		"discountActive": resp.DiscountActive,
	}
	if resp.VariantID != "" {
		out["variantId"] = resp.VariantID
	}
	if resp.CampaignID != "" {
		out["campaignId"] = resp.CampaignID
	}
	c.JSON(http.StatusOK, out)
}

type historyParams struct {
	Limit int64 `form:"limit,default=50"`
}

type priceChangeView struct {
	VariantID  string    `json:"variantId,omitempty"`
	OldPrice   string    `json:"oldPrice,omitempty"`
	NewPrice   string    `json:"newPrice"`
	CampaignID string    `json:"campaignId,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	ChangedAt  time.Time `json:"changedAt"`
}

// PriceHistory handles GET /v1/products/:id/price-history.
func (h *ProductHandler) PriceHistory(c *gin.Context) {
	var params historyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.getHistory.Execute(c.Request.Context(), &get_price_history.Request{
		ProductID: c.Param("id"),
		Limit:     params.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]priceChangeView, 0, len(resp.Changes))
	for _, change := range resp.Changes {
		view := priceChangeView{
			VariantID:  change.VariantID,
			NewPrice:   change.NewPrice.String(),
			CampaignID: change.CampaignID,
			Reason:     change.Reason,
			ChangedAt:  change.ChangedAt,
		}
		if change.OldPrice != nil {
			view.OldPrice = change.OldPrice.String()
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"productId": c.Param("id"), "changes": views})
}
