package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/get_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/list_campaigns"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/apply_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/create_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/delete_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/remove_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/usecases/update_campaign"
)

// CampaignHandler serves the campaign management endpoints.
type CampaignHandler struct {
	create *create_campaign.Interactor
	update *update_campaign.Interactor
	delete *delete_campaign.Interactor
	apply  *apply_campaign.Interactor
	remove *remove_campaign.Interactor
	get    *get_campaign.Query
	list   *list_campaigns.Query
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(
	create *create_campaign.Interactor,
	update *update_campaign.Interactor,
	del *delete_campaign.Interactor,
	apply *apply_campaign.Interactor,
	remove *remove_campaign.Interactor,
	get *get_campaign.Query,
	list *list_campaigns.Query,
) *CampaignHandler {
	return &CampaignHandler{
		create: create,
		update: update,
		delete: del,
		apply:  apply,
		remove: remove,
		get:    get,
		list:   list,
	}
}

// Create handles POST /v1/campaigns.
func (h *CampaignHandler) Create(c *gin.Context) {
	var body campaignBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := parseAmount(body.Discount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.create.Execute(c.Request.Context(), &create_campaign.Request{
		Name:      body.Name,
		Type:      domain.CampaignType(body.Type),
		TargetIDs: body.TargetIDs,
		Kind:      domain.DiscountKind(body.Discount.Kind),
		Percent:   body.Discount.Percent,
		Amount:    amount,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	out := gin.H{"campaignId": resp.CampaignID, "applied": resp.Applied}
	if resp.Applied {
		out["run"] = toRunView(resp.Run)
	}
	c.JSON(http.StatusCreated, out)
}

// Update handles PUT /v1/campaigns/:id. The body is a full replacement
// definition, not a patch.
func (h *CampaignHandler) Update(c *gin.Context) {
	var body campaignBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := parseAmount(body.Discount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.update.Execute(c.Request.Context(), &update_campaign.Request{
		CampaignID: c.Param("id"),
		Name:       body.Name,
		Type:       domain.CampaignType(body.Type),
		TargetIDs:  body.TargetIDs,
		Kind:       domain.DiscountKind(body.Discount.Kind),
		Percent:    body.Discount.Percent,
		Amount:     amount,
		StartDate:  body.StartDate,
		EndDate:    body.EndDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	out := gin.H{"removed": toRunView(resp.Removed), "applied": resp.Applied}
	if resp.Applied {
		out["run"] = toRunView(resp.Run)
	}
	c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/campaigns/:id.
func (h *CampaignHandler) Delete(c *gin.Context) {
	resp, err := h.delete.Execute(c.Request.Context(), &delete_campaign.Request{
		CampaignID: c.Param("id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": toRunView(resp.Removed)})
}

// Apply handles POST /v1/campaigns/:id/apply.
func (h *CampaignHandler) Apply(c *gin.Context) {
	resp, err := h.apply.Execute(c.Request.Context(), &apply_campaign.Request{
		CampaignID: c.Param("id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": toRunView(resp.Run)})
}

// Remove handles POST /v1/campaigns/:id/remove.
func (h *CampaignHandler) Remove(c *gin.Context) {
	resp, err := h.remove.Execute(c.Request.Context(), &remove_campaign.Request{
		CampaignID: c.Param("id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": toRunView(resp.Run)})
}

// Get handles GET /v1/campaigns/:id.
func (h *CampaignHandler) Get(c *gin.Context) {
	resp, err := h.get.Execute(c.Request.Context(), &get_campaign.Request{
		CampaignID: c.Param("id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	view := toCampaignView(list_campaigns.CampaignView{
		CampaignID: resp.CampaignID,
		Name:       resp.Name,
		Type:       resp.Type,
		TargetIDs:  resp.TargetIDs,
		Kind:       resp.Kind,
		Percent:    resp.Percent,
		Amount:     resp.Amount,
		StartDate:  resp.StartDate,
		EndDate:    resp.EndDate,
		State:      resp.State,
	})

	out := gin.H{"campaign": view, "version": resp.Version}
	if resp.HasRun {
		out["lastRun"] = gin.H{
			"op":        string(resp.Run.Op),
			"total":     resp.Run.Total,
			"succeeded": resp.Run.Succeeded,
			"failed":    resp.Run.Failed,
			"done":      resp.Run.Done,
			"startedAt": resp.Run.StartedAt,
			"updatedAt": resp.Run.UpdatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

// listParams are the pagination query parameters.
type listParams struct {
	PageSize int64 `form:"pageSize,default=50"`
	Offset   int64 `form:"offset,default=0"`
}

// List handles GET /v1/campaigns.
func (h *CampaignHandler) List(c *gin.Context) {
	var params listParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.list.Execute(c.Request.Context(), &list_campaigns.Request{
		PageSize: params.PageSize,
		Offset:   params.Offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]campaignView, 0, len(resp.Campaigns))
	for _, v := range resp.Campaigns {
		views = append(views, toCampaignView(v))
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": views, "total": resp.Total})
}
