package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/queries/list_events"
)

// EventsHandler serves the outbox inspection endpoint.
type EventsHandler struct {
	list *list_events.Query
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(list *list_events.Query) *EventsHandler {
	return &EventsHandler{list: list}
}

type eventsParams struct {
	EventType   string `form:"eventType"`
	AggregateID string `form:"aggregateId"`
	Status      string `form:"status"`
	Limit       int64  `form:"limit,default=100"`
}

type eventView struct {
	EventID     string     `json:"eventId"`
	EventType   string     `json:"eventType"`
	AggregateID string     `json:"aggregateId"`
	Payload     string     `json:"payload"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

// List handles GET /v1/events.
func (h *EventsHandler) List(c *gin.Context) {
	var params eventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.list.Execute(c.Request.Context(), &list_events.Request{
		EventType:   params.EventType,
		AggregateID: params.AggregateID,
		Status:      params.Status,
		Limit:       params.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]eventView, 0, len(resp.Events))
	for _, e := range resp.Events {
		views = append(views, eventView{
			EventID:     e.EventID,
			EventType:   e.EventType,
			AggregateID: e.AggregateID,
			Payload:     e.Payload,
			Status:      e.Status,
			CreatedAt:   e.CreatedAt,
			ProcessedAt: e.ProcessedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": views, "total": len(views)})
}
