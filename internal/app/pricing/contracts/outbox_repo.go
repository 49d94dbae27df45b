package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
}

// StoredEvent is a persisted outbox event as read back for inspection.
type StoredEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string
	Status      string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// EventFilter narrows an outbox listing. Zero-value fields are ignored.
type EventFilter struct {
	EventType   string
	AggregateID string
	Status      string
	Limit       int64
}

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	// InsertMut creates a mutation for inserting an outbox event
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent converts a domain event to an outbox event with metadata
	EnrichEvent(event domain.DomainEvent, payload string) *OutboxEvent

	// List retrieves stored events newest first
	List(ctx context.Context, filter EventFilter) ([]StoredEvent, error)
}
