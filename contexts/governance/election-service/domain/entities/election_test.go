package entities_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"ballot/contexts/governance/election-service/domain/entities"
	domainerrors "ballot/contexts/governance/election-service/domain/errors"

	"github.com/stretchr/testify/require"
)

const (
	admin = "0xAdmin"
	alice = "0xAlice"
	bob   = "0xBob"
	carol = "0xCarol"
	mallo = "0xMallory"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newElection(t *testing.T) entities.Election {
	t.Helper()
	election, err := entities.NewElection("e-1", "board seat", admin, now)
	require.NoError(t, err)
	return election
}

// electionAt returns an election driven to status with alice and bob
// registered and, once proposals open, one proposal from alice.
func electionAt(t *testing.T, status entities.WorkflowStatus) entities.Election {
	t.Helper()
	election := newElection(t)
	_, err := election.RegisterVoter(admin, alice, now)
	require.NoError(t, err)
	_, err = election.RegisterVoter(admin, bob, now)
	require.NoError(t, err)

	for next := entities.ProposalsRegistrationStarted; next <= status; next++ {
		_, err := election.Advance(admin, next, now)
		require.NoError(t, err)
		if next == entities.ProposalsRegistrationStarted {
			_, err = election.SubmitProposal(alice, "X", now)
			require.NoError(t, err)
		}
	}
	require.Equal(t, status, election.Status)
	return election
}

func TestNewElectionStartsInRegistration(t *testing.T) {
	election := newElection(t)
	require.Equal(t, entities.RegisteringVoters, election.Status)
	require.Equal(t, admin, election.Administrator)
	require.Empty(t, election.Proposals)
	require.Equal(t, 0, election.WinningProposalID)

	_, err := entities.NewElection("e-2", "", " ", now)
	require.ErrorIs(t, err, domainerrors.ErrInvalidAddress)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestRegisterVoterRejectsDuplicates(t *testing.T) {
	election := newElection(t)

	voter, err := election.RegisterVoter(admin, alice, now)
	require.NoError(t, err)
	require.True(t, voter.IsRegistered)
	require.False(t, voter.HasVoted)
	require.Equal(t, 0, voter.VotedProposalID)
	require.Equal(t, 1, election.VoterCount())

	_, err = election.RegisterVoter(admin, alice, now)
	require.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)
	require.Equal(t, 1, election.VoterCount())

	_, err = election.RegisterVoter(admin, bob, now)
	require.NoError(t, err)
	require.Equal(t, 2, election.VoterCount())

	_, err = election.RegisterVoter(admin, "", now)
	require.ErrorIs(t, err, domainerrors.ErrInvalidAddress)
}

func TestStartProposalsSeedsGenesis(t *testing.T) {
	election := electionAt(t, entities.RegisteringVoters)

	change, err := election.Advance(admin, entities.ProposalsRegistrationStarted, now)
	require.NoError(t, err)
	require.Equal(t, entities.StatusChange{
		Previous: entities.RegisteringVoters,
		Current:  entities.ProposalsRegistrationStarted,
	}, change)

	genesis, err := election.Proposal(alice, 0)
	require.NoError(t, err)
	require.Equal(t, entities.GenesisDescription, genesis.Description)
	require.Equal(t, 0, genesis.VoteCount)
}

func TestSubmitProposalAssignsConsecutiveIndices(t *testing.T) {
	election := electionAt(t, entities.RegisteringVoters)
	_, err := election.Advance(admin, entities.ProposalsRegistrationStarted, now)
	require.NoError(t, err)

	for i, description := range []string{"first", "second", "third"} {
		proposal, err := election.SubmitProposal(bob, description, now)
		require.NoError(t, err)
		require.Equal(t, i+1, proposal.ProposalID)
	}

	before := election.Clone()
	_, err = election.SubmitProposal(bob, "", now)
	require.ErrorIs(t, err, domainerrors.ErrEmptyProposal)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	require.Equal(t, before, election)

	_, err = election.SubmitProposal(mallo, "sneaky", now)
	require.ErrorIs(t, err, domainerrors.ErrNotVoter)
	require.Equal(t, before, election)
}

func TestSubmitProposalKeepsAnyNonEmptyText(t *testing.T) {
	election := electionAt(t, entities.RegisteringVoters)
	_, err := election.Advance(admin, entities.ProposalsRegistrationStarted, now)
	require.NoError(t, err)

	long := strings.Repeat("x", 5000)
	for i, description := range []string{" ", "\t", long} {
		proposal, err := election.SubmitProposal(bob, description, now)
		require.NoError(t, err)
		require.Equal(t, i+1, proposal.ProposalID)

		stored, err := election.Proposal(bob, proposal.ProposalID)
		require.NoError(t, err)
		require.Equal(t, description, stored.Description)
	}
}

func TestVoterGateAppliesToAdministrator(t *testing.T) {
	election := electionAt(t, entities.ProposalsRegistrationStarted)

	_, err := election.SubmitProposal(admin, "admin idea", now)
	require.ErrorIs(t, err, domainerrors.ErrNotVoter)
	_, err = election.Proposal(admin, 0)
	require.ErrorIs(t, err, domainerrors.ErrNotVoter)
	_, err = election.Voter(admin, alice)
	require.ErrorIs(t, err, domainerrors.ErrNotVoter)
}

func TestCastVoteOnlyOnce(t *testing.T) {
	election := electionAt(t, entities.VotingSessionStarted)

	voter, err := election.CastVote(alice, 1, now)
	require.NoError(t, err)
	require.True(t, voter.HasVoted)
	require.Equal(t, 1, voter.VotedProposalID)

	for _, target := range []int{0, 1, 99} {
		before := election.Clone()
		_, err = election.CastVote(alice, target, now)
		require.ErrorIs(t, err, domainerrors.ErrAlreadyVoted)
		require.Equal(t, before, election)
	}
	require.Equal(t, 1, election.TotalVotes())
}

func TestCastVoteOutOfRange(t *testing.T) {
	election := electionAt(t, entities.VotingSessionStarted)
	before := election.Clone()

	_, err := election.CastVote(alice, 2, now)
	require.ErrorIs(t, err, domainerrors.ErrProposalNotFound)
	require.ErrorIs(t, err, domainerrors.ErrOutOfRange)
	_, err = election.CastVote(alice, -1, now)
	require.ErrorIs(t, err, domainerrors.ErrProposalNotFound)
	require.Equal(t, before, election)

	// index 0 is a structurally valid target
	_, err = election.CastVote(bob, 0, now)
	require.NoError(t, err)
	require.Equal(t, 1, election.Proposals[0].VoteCount)
}

func TestGetVoterForUnknownAddress(t *testing.T) {
	election := electionAt(t, entities.RegisteringVoters)
	voter, err := election.Voter(alice, carol)
	require.NoError(t, err)
	require.Equal(t, carol, voter.Address)
	require.False(t, voter.IsRegistered)
	require.False(t, voter.HasVoted)
}

func TestAdministratorOperationsRejectOthers(t *testing.T) {
	for status := entities.RegisteringVoters; status <= entities.VotesTallied; status++ {
		election := electionAt(t, status)
		before := election.Clone()

		_, err := election.RegisterVoter(alice, carol, now)
		require.ErrorIs(t, err, domainerrors.ErrNotAdministrator)
		for target := entities.ProposalsRegistrationStarted; target <= entities.VotesTallied; target++ {
			_, err := election.Advance(alice, target, now)
			require.ErrorIs(t, err, domainerrors.ErrNotAdministrator)
			require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
			_, err = election.Advance(mallo, target, now)
			require.ErrorIs(t, err, domainerrors.ErrNotAdministrator)
		}
		require.Equal(t, before, election)
	}
}

type operation struct {
	name  string
	legal entities.WorkflowStatus
	run   func(*entities.Election) error
}

func phaseGatedOperations() []operation {
	advance := func(target entities.WorkflowStatus) func(*entities.Election) error {
		return func(e *entities.Election) error {
			_, err := e.Advance(admin, target, now)
			return err
		}
	}
	return []operation{
		{name: "registerVoter", legal: entities.RegisteringVoters, run: func(e *entities.Election) error {
			_, err := e.RegisterVoter(admin, carol, now)
			return err
		}},
		{name: "startProposalsRegistration", legal: entities.RegisteringVoters, run: advance(entities.ProposalsRegistrationStarted)},
		{name: "submitProposal", legal: entities.ProposalsRegistrationStarted, run: func(e *entities.Election) error {
			_, err := e.SubmitProposal(bob, "Y", now)
			return err
		}},
		{name: "endProposalsRegistration", legal: entities.ProposalsRegistrationStarted, run: advance(entities.ProposalsRegistrationEnded)},
		{name: "startVotingSession", legal: entities.ProposalsRegistrationEnded, run: advance(entities.VotingSessionStarted)},
		{name: "castVote", legal: entities.VotingSessionStarted, run: func(e *entities.Election) error {
			_, err := e.CastVote(bob, 0, now)
			return err
		}},
		{name: "endVotingSession", legal: entities.VotingSessionStarted, run: advance(entities.VotingSessionEnded)},
		{name: "tally", legal: entities.VotingSessionEnded, run: advance(entities.VotesTallied)},
	}
}

func TestIllegalOperationsFailWithPhaseError(t *testing.T) {
	for status := entities.RegisteringVoters; status <= entities.VotesTallied; status++ {
		for _, op := range phaseGatedOperations() {
			election := electionAt(t, status)
			before := election.Clone()

			err := op.run(&election)
			if status == op.legal {
				require.NoError(t, err, "%s in %s", op.name, status)
				continue
			}
			require.Error(t, err, "%s in %s", op.name, status)
			require.True(t, errors.Is(err, domainerrors.ErrInvalidPhase),
				"%s in %s: expected phase error, got %v", op.name, status, err)
			require.Equal(t, before, election, "%s in %s mutated state", op.name, status)
		}
	}
}

func TestTransitionErrors(t *testing.T) {
	cases := []struct {
		status entities.WorkflowStatus
		target entities.WorkflowStatus
		want   error
	}{
		{entities.ProposalsRegistrationStarted, entities.ProposalsRegistrationStarted, domainerrors.ErrCannotStartProposals},
		{entities.RegisteringVoters, entities.ProposalsRegistrationEnded, domainerrors.ErrProposalsNotStarted},
		{entities.ProposalsRegistrationStarted, entities.VotingSessionStarted, domainerrors.ErrProposalsNotFinished},
		{entities.ProposalsRegistrationEnded, entities.VotingSessionEnded, domainerrors.ErrVotingNotStarted},
		{entities.VotingSessionStarted, entities.VotesTallied, domainerrors.ErrVotingNotEnded},
		{entities.VotesTallied, entities.RegisteringVoters, domainerrors.ErrUnsupportedTransition},
	}
	for _, tc := range cases {
		election := electionAt(t, tc.status)
		_, err := election.Advance(admin, tc.target, now)
		require.ErrorIs(t, err, tc.want)
	}
}

func TestScenarioSingleVoteWins(t *testing.T) {
	election := newElection(t)
	_, err := election.RegisterVoter(admin, alice, now)
	require.NoError(t, err)
	_, err = election.Advance(admin, entities.ProposalsRegistrationStarted, now)
	require.NoError(t, err)
	proposal, err := election.SubmitProposal(alice, "X", now)
	require.NoError(t, err)
	require.Equal(t, 1, proposal.ProposalID)
	_, err = election.Advance(admin, entities.ProposalsRegistrationEnded, now)
	require.NoError(t, err)
	_, err = election.Advance(admin, entities.VotingSessionStarted, now)
	require.NoError(t, err)

	_, err = election.CastVote(alice, 1, now)
	require.NoError(t, err)
	_, err = election.CastVote(bob, 1, now)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = election.Advance(admin, entities.VotingSessionEnded, now)
	require.NoError(t, err)
	_, err = election.Advance(admin, entities.VotesTallied, now)
	require.NoError(t, err)

	require.Equal(t, 1, election.WinningProposalID)
	winner, ok := election.WinningProposal()
	require.True(t, ok)
	require.Equal(t, 1, winner.VoteCount)
}

func TestScenarioPluralityAcrossThreeVoters(t *testing.T) {
	election := newElection(t)
	for _, address := range []string{alice, bob, carol} {
		_, err := election.RegisterVoter(admin, address, now)
		require.NoError(t, err)
	}
	_, err := election.Advance(admin, entities.ProposalsRegistrationStarted, now)
	require.NoError(t, err)
	_, err = election.SubmitProposal(alice, "P1", now)
	require.NoError(t, err)
	_, err = election.SubmitProposal(alice, "P2", now)
	require.NoError(t, err)
	_, err = election.Advance(admin, entities.ProposalsRegistrationEnded, now)
	require.NoError(t, err)
	_, err = election.Advance(admin, entities.VotingSessionStarted, now)
	require.NoError(t, err)

	for voter, target := range map[string]int{alice: 1, bob: 2, carol: 1} {
		_, err := election.CastVote(voter, target, now)
		require.NoError(t, err)
	}
	require.Equal(t, 3, election.TotalVotes())

	_, err = election.Advance(admin, entities.VotingSessionEnded, now)
	require.NoError(t, err)
	_, err = election.Advance(admin, entities.VotesTallied, now)
	require.NoError(t, err)
	require.Equal(t, 1, election.WinningProposalID)
	require.Equal(t, 2, election.Proposals[1].VoteCount)
}

func TestWinnerIsZeroBeforeTally(t *testing.T) {
	election := electionAt(t, entities.VotingSessionStarted)
	_, err := election.CastVote(alice, 1, now)
	require.NoError(t, err)
	require.Equal(t, 0, election.WinningProposalID)
}

func TestCloneDoesNotAlias(t *testing.T) {
	election := electionAt(t, entities.VotingSessionStarted)
	clone := election.Clone()
	_, err := clone.CastVote(alice, 1, now)
	require.NoError(t, err)
	require.False(t, election.Voters[alice].HasVoted)
	require.Equal(t, 0, election.Proposals[1].VoteCount)
}
