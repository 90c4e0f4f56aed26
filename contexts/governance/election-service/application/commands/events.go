package commands

import (
	"context"
	"encoding/json"
	"time"

	"ballot/contexts/governance/election-service/ports"
)

const (
	EventElectionCreated       = "election.created"
	EventVoterRegistered       = "election.voter_registered"
	EventWorkflowStatusChanged = "election.workflow_status_changed"
	EventProposalRegistered    = "election.proposal_registered"
	EventVoted                 = "election.voted"
	EventVotesTallied          = "election.votes_tallied"

	sourceService = "election-service"
)

func (uc ElectionUseCase) newElectionEnvelope(
	ctx context.Context,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	data["election_id"] = electionID
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	// Events are partitioned by election so consumers see one election's
	// notifications in emission order.
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     electionID,
		Data:             payload,
	}, nil
}
