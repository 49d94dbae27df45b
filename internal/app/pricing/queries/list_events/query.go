package list_events

import (
	"context"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
)

// Request narrows the event listing. Zero-value fields are ignored.
type Request struct {
	EventType   string
	AggregateID string
	Status      string
	Limit       int64
}

// Response is the matching events, newest first.
type Response struct {
	Events []contracts.StoredEvent
}

// Query handles the list events query use case. Operators use it to inspect
// the outbox when diagnosing a stuck publisher or verifying that a pricing
// change emitted its events.
type Query struct {
	outbox contracts.OutboxRepository
}

// NewQuery creates a new list events query.
func NewQuery(outbox contracts.OutboxRepository) *Query {
	return &Query{outbox: outbox}
}

// Execute retrieves outbox events matching the filter.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	events, err := q.outbox.List(ctx, contracts.EventFilter{
		EventType:   req.EventType,
		AggregateID: req.AggregateID,
		Status:      req.Status,
		Limit:       req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &Response{Events: events}, nil
}
