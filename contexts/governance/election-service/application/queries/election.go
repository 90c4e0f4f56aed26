package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "ballot/contexts/governance/election-service/application"
	"ballot/contexts/governance/election-service/domain/entities"
	"ballot/contexts/governance/election-service/ports"
)

// ElectionSummary is the public view of an election; it needs no voter
// credentials.
type ElectionSummary struct {
	ElectionID        string
	Title             string
	Administrator     string
	Status            entities.WorkflowStatus
	VoterCount        int
	ProposalCount     int
	TotalVotes        int
	WinningProposalID int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Results carries the winner index plus enough context to tell a real
// plurality from the index 0 default of an election nobody voted in.
type Results struct {
	ElectionID        string
	Status            entities.WorkflowStatus
	WinningProposalID int
	Description       string
	VoteCount         int
	TotalVotes        int
	Tallied           bool
	Decided           bool
}

type ElectionQueryUseCase struct {
	Elections ports.ElectionRepository
	Logger    *slog.Logger
}

func (uc ElectionQueryUseCase) Summary(ctx context.Context, electionID string) (ElectionSummary, error) {
	election, err := uc.load(ctx, electionID)
	if err != nil {
		return ElectionSummary{}, err
	}
	return ElectionSummary{
		ElectionID:        election.ElectionID,
		Title:             election.Title,
		Administrator:     election.Administrator,
		Status:            election.Status,
		VoterCount:        election.VoterCount(),
		ProposalCount:     len(election.Proposals),
		TotalVotes:        election.TotalVotes(),
		WinningProposalID: election.WinningProposalID,
		CreatedAt:         election.CreatedAt,
		UpdatedAt:         election.UpdatedAt,
	}, nil
}

func (uc ElectionQueryUseCase) Status(ctx context.Context, electionID string) (entities.WorkflowStatus, error) {
	election, err := uc.load(ctx, electionID)
	if err != nil {
		return entities.RegisteringVoters, err
	}
	return election.Status, nil
}

func (uc ElectionQueryUseCase) Voter(ctx context.Context, electionID string, caller string, address string) (entities.Voter, error) {
	election, err := uc.load(ctx, electionID)
	if err != nil {
		return entities.Voter{}, err
	}
	voter, err := election.Voter(strings.TrimSpace(caller), address)
	if err != nil {
		return entities.Voter{}, uc.logRejected("election_voter_read_rejected", err, electionID, caller)
	}
	return voter, nil
}

func (uc ElectionQueryUseCase) Proposal(ctx context.Context, electionID string, caller string, proposalID int) (entities.Proposal, error) {
	election, err := uc.load(ctx, electionID)
	if err != nil {
		return entities.Proposal{}, err
	}
	proposal, err := election.Proposal(strings.TrimSpace(caller), proposalID)
	if err != nil {
		return entities.Proposal{}, uc.logRejected("election_proposal_read_rejected", err, electionID, caller)
	}
	return proposal, nil
}

func (uc ElectionQueryUseCase) ListProposals(ctx context.Context, electionID string, caller string) ([]entities.Proposal, error) {
	election, err := uc.load(ctx, electionID)
	if err != nil {
		return nil, err
	}
	items, err := election.ListProposals(strings.TrimSpace(caller))
	if err != nil {
		return nil, uc.logRejected("election_proposal_list_rejected", err, electionID, caller)
	}
	return items, nil
}

// Winner is readable by anyone in any status; before tally it reports index 0.
func (uc ElectionQueryUseCase) Winner(ctx context.Context, electionID string) (Results, error) {
	election, err := uc.load(ctx, electionID)
	if err != nil {
		return Results{}, err
	}
	results := Results{
		ElectionID:        election.ElectionID,
		Status:            election.Status,
		WinningProposalID: election.WinningProposalID,
		TotalVotes:        election.TotalVotes(),
		Tallied:           election.Status == entities.VotesTallied,
	}
	if winner, ok := election.WinningProposal(); ok {
		results.Description = winner.Description
		results.VoteCount = winner.VoteCount
	}
	results.Decided = results.Tallied && results.TotalVotes > 0
	return results, nil
}

func (uc ElectionQueryUseCase) load(ctx context.Context, electionID string) (entities.Election, error) {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		logger := application.ResolveLogger(uc.Logger)
		level := slog.LevelError
		if application.IsRejection(err) {
			level = slog.LevelDebug
		}
		logger.Log(ctx, level, "election lookup failed",
			"event", "election_lookup_failed",
			"module", application.ModuleName,
			"layer", "application",
			"election_id", strings.TrimSpace(electionID),
			"error", err.Error(),
		)
		return entities.Election{}, err
	}
	return election, nil
}

func (uc ElectionQueryUseCase) logRejected(event string, err error, electionID string, caller string) error {
	application.ResolveLogger(uc.Logger).Warn("election read rejected",
		"event", event,
		"module", application.ModuleName,
		"layer", "application",
		"election_id", strings.TrimSpace(electionID),
		"caller", strings.TrimSpace(caller),
		"error", err.Error(),
	)
	return err
}
