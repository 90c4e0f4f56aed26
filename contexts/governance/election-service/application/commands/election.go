package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "ballot/contexts/governance/election-service/application"
	"ballot/contexts/governance/election-service/domain/entities"
	"ballot/contexts/governance/election-service/ports"
)

type CreateElectionCommand struct {
	Administrator string
	Title         string
}

type RegisterVoterCommand struct {
	ElectionID   string
	Caller       string
	VoterAddress string
}

// ChangeStatusCommand drives one administrator workflow transition.
type ChangeStatusCommand struct {
	ElectionID string
	Caller     string
}

type SubmitProposalCommand struct {
	ElectionID  string
	Caller      string
	Description string
}

type CastVoteCommand struct {
	ElectionID string
	Caller     string
	ProposalID int
}

// ElectionUseCase runs every election write through ElectionRepository so
// the domain checks, the mutation and the outbox notifications commit
// together or not at all.
type ElectionUseCase struct {
	Elections ports.ElectionRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ElectionUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	administrator := strings.TrimSpace(cmd.Administrator)

	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, uc.logFailure(logger, "election_create_failed", err,
			"administrator", administrator,
		)
	}
	now := uc.now()
	election, err := entities.NewElection(electionID, cmd.Title, administrator, now)
	if err != nil {
		return entities.Election{}, uc.logFailure(logger, "election_create_failed", err,
			"administrator", administrator,
		)
	}
	created, err := uc.newElectionEnvelope(ctx, EventElectionCreated, election.ElectionID, now, map[string]any{
		"administrator":   election.Administrator,
		"title":           election.Title,
		"workflow_status": int(election.Status),
	})
	if err != nil {
		return entities.Election{}, uc.logFailure(logger, "election_create_failed", err,
			"election_id", election.ElectionID,
		)
	}
	if err := uc.Elections.CreateElection(ctx, election, []ports.EventEnvelope{created}); err != nil {
		return entities.Election{}, uc.logFailure(logger, "election_create_failed", err,
			"election_id", election.ElectionID,
		)
	}

	logger.Info("election created",
		"event", "election_created",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", election.ElectionID,
		"administrator", election.Administrator,
	)
	return election, nil
}

func (uc ElectionUseCase) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	caller := strings.TrimSpace(cmd.Caller)
	address := strings.TrimSpace(cmd.VoterAddress)

	var voter entities.Voter
	_, err := uc.Elections.UpdateElection(ctx, electionID, func(election *entities.Election) ([]ports.EventEnvelope, error) {
		now := uc.now()
		registered, err := election.RegisterVoter(caller, address, now)
		if err != nil {
			return nil, err
		}
		event, err := uc.newElectionEnvelope(ctx, EventVoterRegistered, election.ElectionID, now, map[string]any{
			"voter_address": registered.Address,
		})
		if err != nil {
			return nil, err
		}
		voter = registered
		return []ports.EventEnvelope{event}, nil
	})
	if err != nil {
		return entities.Voter{}, uc.logFailure(logger, "election_voter_register_failed", err,
			"election_id", electionID,
			"caller", caller,
			"voter_address", address,
		)
	}

	logger.Info("voter registered",
		"event", "election_voter_registered",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", electionID,
		"voter_address", voter.Address,
	)
	return voter, nil
}

func (uc ElectionUseCase) StartProposalsRegistration(ctx context.Context, cmd ChangeStatusCommand) (entities.StatusChange, error) {
	return uc.changeStatus(ctx, cmd, entities.ProposalsRegistrationStarted)
}

func (uc ElectionUseCase) EndProposalsRegistration(ctx context.Context, cmd ChangeStatusCommand) (entities.StatusChange, error) {
	return uc.changeStatus(ctx, cmd, entities.ProposalsRegistrationEnded)
}

func (uc ElectionUseCase) StartVotingSession(ctx context.Context, cmd ChangeStatusCommand) (entities.StatusChange, error) {
	return uc.changeStatus(ctx, cmd, entities.VotingSessionStarted)
}

func (uc ElectionUseCase) EndVotingSession(ctx context.Context, cmd ChangeStatusCommand) (entities.StatusChange, error) {
	return uc.changeStatus(ctx, cmd, entities.VotingSessionEnded)
}

// TallyVotes closes the election and records the plurality winner.
func (uc ElectionUseCase) TallyVotes(ctx context.Context, cmd ChangeStatusCommand) (entities.StatusChange, error) {
	return uc.changeStatus(ctx, cmd, entities.VotesTallied)
}

func (uc ElectionUseCase) changeStatus(
	ctx context.Context,
	cmd ChangeStatusCommand,
	target entities.WorkflowStatus,
) (entities.StatusChange, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	caller := strings.TrimSpace(cmd.Caller)

	var change entities.StatusChange
	updated, err := uc.Elections.UpdateElection(ctx, electionID, func(election *entities.Election) ([]ports.EventEnvelope, error) {
		now := uc.now()
		applied, err := election.Advance(caller, target, now)
		if err != nil {
			return nil, err
		}
		statusChanged, err := uc.newElectionEnvelope(ctx, EventWorkflowStatusChanged, election.ElectionID, now, map[string]any{
			"previous_status": int(applied.Previous),
			"new_status":      int(applied.Current),
		})
		if err != nil {
			return nil, err
		}
		emitted := []ports.EventEnvelope{statusChanged}
		if applied.Current == entities.VotesTallied {
			winner, _ := election.WinningProposal()
			tallied, err := uc.newElectionEnvelope(ctx, EventVotesTallied, election.ElectionID, now, map[string]any{
				"winning_proposal_id": election.WinningProposalID,
				"vote_count":          winner.VoteCount,
				"total_votes":         election.TotalVotes(),
			})
			if err != nil {
				return nil, err
			}
			emitted = append(emitted, tallied)
		}
		change = applied
		return emitted, nil
	})
	if err != nil {
		return entities.StatusChange{}, uc.logFailure(logger, "election_status_change_failed", err,
			"election_id", electionID,
			"caller", caller,
			"to_status", target.String(),
		)
	}

	logger.Info("election workflow status changed",
		"event", "election_workflow_status_changed",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", electionID,
		"from_status", change.Previous.String(),
		"to_status", change.Current.String(),
	)
	if change.Current == entities.VotesTallied {
		logger.Info("election votes tallied",
			"event", "election_votes_tallied",
			"module", application.ModuleName,
			"layer", "application",
			"election_id", electionID,
			"winning_proposal_id", updated.WinningProposalID,
			"total_votes", updated.TotalVotes(),
		)
	}
	return change, nil
}

func (uc ElectionUseCase) SubmitProposal(ctx context.Context, cmd SubmitProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	caller := strings.TrimSpace(cmd.Caller)

	var proposal entities.Proposal
	_, err := uc.Elections.UpdateElection(ctx, electionID, func(election *entities.Election) ([]ports.EventEnvelope, error) {
		now := uc.now()
		submitted, err := election.SubmitProposal(caller, cmd.Description, now)
		if err != nil {
			return nil, err
		}
		event, err := uc.newElectionEnvelope(ctx, EventProposalRegistered, election.ElectionID, now, map[string]any{
			"proposal_id": submitted.ProposalID,
		})
		if err != nil {
			return nil, err
		}
		proposal = submitted
		return []ports.EventEnvelope{event}, nil
	})
	if err != nil {
		return entities.Proposal{}, uc.logFailure(logger, "election_proposal_submit_failed", err,
			"election_id", electionID,
			"caller", caller,
		)
	}

	logger.Info("proposal registered",
		"event", "election_proposal_registered",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", electionID,
		"proposal_id", proposal.ProposalID,
		"caller", caller,
	)
	return proposal, nil
}

func (uc ElectionUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	caller := strings.TrimSpace(cmd.Caller)

	var voter entities.Voter
	_, err := uc.Elections.UpdateElection(ctx, electionID, func(election *entities.Election) ([]ports.EventEnvelope, error) {
		now := uc.now()
		voted, err := election.CastVote(caller, cmd.ProposalID, now)
		if err != nil {
			return nil, err
		}
		event, err := uc.newElectionEnvelope(ctx, EventVoted, election.ElectionID, now, map[string]any{
			"voter_address": voted.Address,
			"proposal_id":   voted.VotedProposalID,
		})
		if err != nil {
			return nil, err
		}
		voter = voted
		return []ports.EventEnvelope{event}, nil
	})
	if err != nil {
		return entities.Voter{}, uc.logFailure(logger, "election_vote_cast_failed", err,
			"election_id", electionID,
			"caller", caller,
			"proposal_id", cmd.ProposalID,
		)
	}

	logger.Info("vote cast",
		"event", "election_vote_cast",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", electionID,
		"voter_address", voter.Address,
		"proposal_id", voter.VotedProposalID,
	)
	return voter, nil
}

func (uc ElectionUseCase) logFailure(logger *slog.Logger, event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", application.ModuleName,
		"layer", "application",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	if application.IsRejection(err) {
		logger.Warn("election command rejected", fields...)
		return err
	}
	logger.Error("election command failed", fields...)
	return err
}

func (uc ElectionUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
