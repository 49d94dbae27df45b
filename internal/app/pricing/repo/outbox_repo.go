package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/query"
)

const defaultEventLimit = 100

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(client *spanner.Client) contracts.OutboxRepository {
	return &OutboxRepo{
		client: client,
		model:  m_outbox.NewModel(),
	}
}

// InsertMut creates a mutation for inserting an outbox event.
func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	// Wrap payload string as JSON for Spanner
	payload := spanner.NullJSON{Value: event.Payload, Valid: event.Payload != ""}

	data := &m_outbox.Data{
		EventID:     event.EventID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Payload:     payload,
		Status:      event.Status,
		RetryCount:  0,
	}

	return r.model.InsertMut(data)
}

// EnrichEvent converts a domain event to an outbox event with metadata.
func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      m_outbox.StatusPending,
	}
}

// List retrieves stored events newest first, optionally filtered.
func (r *OutboxRepo) List(ctx context.Context, filter contracts.EventFilter) ([]contracts.StoredEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}

	builder := query.From(m_outbox.TableName).
		Select(m_outbox.AllColumns()...).
		OrderBy(m_outbox.CreatedAt, query.Desc).
		Limit(limit)
	if filter.EventType != "" {
		builder = builder.Where(query.Eq(m_outbox.EventType, filter.EventType))
	}
	if filter.AggregateID != "" {
		builder = builder.Where(query.Eq(m_outbox.AggregateID, filter.AggregateID))
	}
	if filter.Status != "" {
		builder = builder.Where(query.Eq(m_outbox.Status, filter.Status))
	}

	iter := r.client.Single().Query(ctx, builder.Build())
	defer iter.Stop()

	events := make([]contracts.StoredEvent, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query outbox events: %w", err)
		}

		var data m_outbox.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse outbox event: %w", err)
		}

		event := contracts.StoredEvent{
			EventID:     data.EventID,
			EventType:   data.EventType,
			AggregateID: data.AggregateID,
			Status:      data.Status,
			CreatedAt:   data.CreatedAt,
		}
		if data.Payload.Valid {
			event.Payload = data.Payload.String()
		}
		if data.ProcessedAt.Valid {
			t := data.ProcessedAt.Time
			event.ProcessedAt = &t
		}
		events = append(events, event)
	}
	return events, nil
}
