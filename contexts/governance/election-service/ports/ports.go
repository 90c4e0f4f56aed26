package ports

import (
	"context"
	"time"

	"ballot/contexts/governance/election-service/domain/entities"
	"ballot/internal/shared/events"
	"ballot/internal/shared/outbox"
)

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

// Mutation changes a working copy of an election and returns the
// notifications that must be persisted with it. Returning an error discards
// the copy and the notifications.
type Mutation func(election *entities.Election) ([]EventEnvelope, error)

// ElectionRepository owns election aggregates. UpdateElection runs the
// mutation and the outbox append as one atomic unit per election.
type ElectionRepository interface {
	CreateElection(ctx context.Context, election entities.Election, events []EventEnvelope) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	UpdateElection(ctx context.Context, electionID string, mutate Mutation) (entities.Election, error)
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
