package entities

import domainerrors "ballot/contexts/governance/election-service/domain/errors"

// WorkflowStatus is the election phase. Values are ordered and persisted as
// integers, so the numbering must not change.
type WorkflowStatus int

const (
	RegisteringVoters WorkflowStatus = iota
	ProposalsRegistrationStarted
	ProposalsRegistrationEnded
	VotingSessionStarted
	VotingSessionEnded
	VotesTallied
)

func (s WorkflowStatus) String() string {
	switch s {
	case RegisteringVoters:
		return "registering_voters"
	case ProposalsRegistrationStarted:
		return "proposals_registration_started"
	case ProposalsRegistrationEnded:
		return "proposals_registration_ended"
	case VotingSessionStarted:
		return "voting_session_started"
	case VotingSessionEnded:
		return "voting_session_ended"
	case VotesTallied:
		return "votes_tallied"
	default:
		return "unknown"
	}
}

func (s WorkflowStatus) IsValid() bool {
	return s >= RegisteringVoters && s <= VotesTallied
}

// StatusChange records one workflow transition.
type StatusChange struct {
	Previous WorkflowStatus
	Current  WorkflowStatus
}

type transitionRule struct {
	from     WorkflowStatus
	rejected error
}

// transitions maps each target status to the only status it may be entered
// from and the error returned when the election is anywhere else.
var transitions = map[WorkflowStatus]transitionRule{
	ProposalsRegistrationStarted: {from: RegisteringVoters, rejected: domainerrors.ErrCannotStartProposals},
	ProposalsRegistrationEnded:   {from: ProposalsRegistrationStarted, rejected: domainerrors.ErrProposalsNotStarted},
	VotingSessionStarted:         {from: ProposalsRegistrationEnded, rejected: domainerrors.ErrProposalsNotFinished},
	VotingSessionEnded:           {from: VotingSessionStarted, rejected: domainerrors.ErrVotingNotStarted},
	VotesTallied:                 {from: VotingSessionEnded, rejected: domainerrors.ErrVotingNotEnded},
}

func checkTransition(current WorkflowStatus, target WorkflowStatus) error {
	rule, ok := transitions[target]
	if !ok {
		return domainerrors.ErrUnsupportedTransition
	}
	if current != rule.from {
		return rule.rejected
	}
	return nil
}
