package httpadapter

import (
	"context"

	"ballot/contexts/governance/election-service/application/commands"
	"ballot/contexts/governance/election-service/application/queries"
	"ballot/contexts/governance/election-service/domain/entities"
	httptransport "ballot/contexts/governance/election-service/transport/http"
)

// Handler adapts transport DTOs to the election use cases. Caller and voter
// addresses are normalized to their checksummed form before they reach the
// domain.
type Handler struct {
	Elections commands.ElectionUseCase
	Queries   queries.ElectionQueryUseCase
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	administrator, err := httptransport.NormalizeCaller(caller)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	if err := httptransport.Validate(req); err != nil {
		return httptransport.ElectionResponse{}, err
	}
	election, err := h.Elections.CreateElection(ctx, commands.CreateElectionCommand{
		Administrator: administrator,
		Title:         req.Title,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return h.GetElectionHandler(ctx, election.ElectionID)
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	summary, err := h.Queries.Summary(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return httptransport.ElectionResponse{
		ElectionID:        summary.ElectionID,
		Title:             summary.Title,
		Administrator:     summary.Administrator,
		WorkflowStatus:    int(summary.Status),
		WorkflowStatusKey: summary.Status.String(),
		VoterCount:        summary.VoterCount,
		ProposalCount:     summary.ProposalCount,
		TotalVotes:        summary.TotalVotes,
		WinningProposalID: summary.WinningProposalID,
		CreatedAt:         summary.CreatedAt,
		UpdatedAt:         summary.UpdatedAt,
	}, nil
}

func (h Handler) WorkflowStatusHandler(ctx context.Context, electionID string) (httptransport.WorkflowStatusResponse, error) {
	status, err := h.Queries.Status(ctx, electionID)
	if err != nil {
		return httptransport.WorkflowStatusResponse{}, err
	}
	return httptransport.WorkflowStatusResponse{
		ElectionID:        electionID,
		WorkflowStatus:    int(status),
		WorkflowStatusKey: status.String(),
	}, nil
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	electionID string,
	caller string,
	req httptransport.RegisterVoterRequest,
) (httptransport.VoterResponse, error) {
	callerAddress, err := httptransport.NormalizeCaller(caller)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	if err := httptransport.Validate(req); err != nil {
		return httptransport.VoterResponse{}, err
	}
	voterAddress, err := httptransport.NormalizeAddress(req.Address)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	voter, err := h.Elections.RegisterVoter(ctx, commands.RegisterVoterCommand{
		ElectionID:   electionID,
		Caller:       callerAddress,
		VoterAddress: voterAddress,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) GetVoterHandler(
	ctx context.Context,
	electionID string,
	caller string,
	address string,
) (httptransport.VoterResponse, error) {
	callerAddress, err := httptransport.NormalizeCaller(caller)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	voterAddress, err := httptransport.NormalizeAddress(address)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	voter, err := h.Queries.Voter(ctx, electionID, callerAddress, voterAddress)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return mapVoter(voter), nil
}

// ChangeStatusHandler applies the administrator transition into target.
func (h Handler) ChangeStatusHandler(
	ctx context.Context,
	electionID string,
	caller string,
	target entities.WorkflowStatus,
) (httptransport.StatusChangeResponse, error) {
	callerAddress, err := httptransport.NormalizeCaller(caller)
	if err != nil {
		return httptransport.StatusChangeResponse{}, err
	}
	cmd := commands.ChangeStatusCommand{ElectionID: electionID, Caller: callerAddress}

	var change entities.StatusChange
	switch target {
	case entities.ProposalsRegistrationStarted:
		change, err = h.Elections.StartProposalsRegistration(ctx, cmd)
	case entities.ProposalsRegistrationEnded:
		change, err = h.Elections.EndProposalsRegistration(ctx, cmd)
	case entities.VotingSessionStarted:
		change, err = h.Elections.StartVotingSession(ctx, cmd)
	case entities.VotingSessionEnded:
		change, err = h.Elections.EndVotingSession(ctx, cmd)
	case entities.VotesTallied:
		change, err = h.Elections.TallyVotes(ctx, cmd)
	default:
		change, err = entities.StatusChange{}, httptransport.ErrInvalidRequest
	}
	if err != nil {
		return httptransport.StatusChangeResponse{}, err
	}
	return httptransport.StatusChangeResponse{
		ElectionID:     electionID,
		PreviousStatus: int(change.Previous),
		NewStatus:      int(change.Current),
		NewStatusKey:   change.Current.String(),
	}, nil
}

func (h Handler) SubmitProposalHandler(
	ctx context.Context,
	electionID string,
	caller string,
	req httptransport.SubmitProposalRequest,
) (httptransport.ProposalResponse, error) {
	callerAddress, err := httptransport.NormalizeCaller(caller)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	if err := httptransport.Validate(req); err != nil {
		return httptransport.ProposalResponse{}, err
	}
	proposal, err := h.Elections.SubmitProposal(ctx, commands.SubmitProposalCommand{
		ElectionID:  electionID,
		Caller:      callerAddress,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(proposal), nil
}

func (h Handler) GetProposalHandler(
	ctx context.Context,
	electionID string,
	caller string,
	proposalID int,
) (httptransport.ProposalResponse, error) {
	callerAddress, err := httptransport.NormalizeCaller(caller)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	proposal, err := h.Queries.Proposal(ctx, electionID, callerAddress, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(proposal), nil
}

func (h Handler) ListProposalsHandler(
	ctx context.Context,
	electionID string,
	caller string,
) (httptransport.ProposalListResponse, error) {
	callerAddress, err := httptransport.NormalizeCaller(caller)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	proposals, err := h.Queries.ListProposals(ctx, electionID, callerAddress)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	items := make([]httptransport.ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		items = append(items, mapProposal(proposal))
	}
	return httptransport.ProposalListResponse{Items: items}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	electionID string,
	caller string,
	req httptransport.CastVoteRequest,
) (httptransport.VoterResponse, error) {
	callerAddress, err := httptransport.NormalizeCaller(caller)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	if err := httptransport.Validate(req); err != nil {
		return httptransport.VoterResponse{}, err
	}
	voter, err := h.Elections.CastVote(ctx, commands.CastVoteCommand{
		ElectionID: electionID,
		Caller:     callerAddress,
		ProposalID: *req.ProposalID,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) WinnerHandler(ctx context.Context, electionID string) (httptransport.WinnerResponse, error) {
	results, err := h.Queries.Winner(ctx, electionID)
	if err != nil {
		return httptransport.WinnerResponse{}, err
	}
	return httptransport.WinnerResponse{
		ElectionID:        results.ElectionID,
		WorkflowStatus:    int(results.Status),
		WinningProposalID: results.WinningProposalID,
		Description:       results.Description,
		VoteCount:         results.VoteCount,
		TotalVotes:        results.TotalVotes,
		Tallied:           results.Tallied,
		Decided:           results.Decided,
	}, nil
}

func mapVoter(voter entities.Voter) httptransport.VoterResponse {
	return httptransport.VoterResponse{
		Address:         voter.Address,
		IsRegistered:    voter.IsRegistered,
		HasVoted:        voter.HasVoted,
		VotedProposalID: voter.VotedProposalID,
	}
}

func mapProposal(proposal entities.Proposal) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ProposalID:  proposal.ProposalID,
		Description: proposal.Description,
		VoteCount:   proposal.VoteCount,
	}
}
