package outbox

import (
	"encoding/json"
	"time"

	"ballot/internal/shared/events"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
)

// Message is an outbox row persisted inside the same unit of work as the
// state change it describes. The relay reads pending rows and publishes them.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// FromEnvelope encodes envelope as a pending outbox message.
func FromEnvelope(envelope events.Envelope) (Message, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return Message{}, err
	}
	return Message{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}, nil
}

// Decode restores the envelope stored in the message payload.
func (m Message) Decode() (events.Envelope, error) {
	var envelope events.Envelope
	if err := json.Unmarshal(m.Payload, &envelope); err != nil {
		return events.Envelope{}, err
	}
	return envelope, nil
}
