package entities

import (
	"strings"
	"time"

	domainerrors "ballot/contexts/governance/election-service/domain/errors"
)

// GenesisDescription is the placeholder stored at proposal index 0.
const GenesisDescription = "GENESIS"

const maxTitleLength = 200

type Voter struct {
	Address         string
	IsRegistered    bool
	HasVoted        bool
	VotedProposalID int
	RegisteredAt    time.Time
}

type Proposal struct {
	ProposalID  int
	Description string
	VoteCount   int
	SubmittedBy string
	CreatedAt   time.Time
}

// Election is the ballot aggregate. Every mutating method validates the
// caller, the workflow status, the registries and its arguments, in that
// order, and touches no field unless all checks pass.
type Election struct {
	ElectionID        string
	Title             string
	Administrator     string
	Status            WorkflowStatus
	Voters            map[string]Voter
	Proposals         []Proposal
	WinningProposalID int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewElection(electionID string, title string, administrator string, now time.Time) (Election, error) {
	administrator = strings.TrimSpace(administrator)
	if administrator == "" {
		return Election{}, domainerrors.ErrInvalidAddress
	}
	title = strings.TrimSpace(title)
	if len(title) > maxTitleLength {
		return Election{}, domainerrors.ErrInvalidTitle
	}
	return Election{
		ElectionID:    strings.TrimSpace(electionID),
		Title:         title,
		Administrator: administrator,
		Status:        RegisteringVoters,
		Voters:        make(map[string]Voter),
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}, nil
}

func (e Election) IsAdministrator(caller string) bool {
	return caller != "" && caller == e.Administrator
}

func (e Election) IsVoter(caller string) bool {
	voter, ok := e.Voters[caller]
	return ok && voter.IsRegistered
}

func (e Election) requireAdministrator(caller string) error {
	if !e.IsAdministrator(caller) {
		return domainerrors.ErrNotAdministrator
	}
	return nil
}

func (e Election) requireVoter(caller string) error {
	if !e.IsVoter(caller) {
		return domainerrors.ErrNotVoter
	}
	return nil
}

func (e *Election) RegisterVoter(caller string, address string, now time.Time) (Voter, error) {
	if err := e.requireAdministrator(caller); err != nil {
		return Voter{}, err
	}
	if e.Status != RegisteringVoters {
		return Voter{}, domainerrors.ErrVoterRegistrationClosed
	}
	address = strings.TrimSpace(address)
	if existing, ok := e.Voters[address]; ok && existing.IsRegistered {
		return Voter{}, domainerrors.ErrAlreadyRegistered
	}
	if address == "" {
		return Voter{}, domainerrors.ErrInvalidAddress
	}

	voter := Voter{
		Address:      address,
		IsRegistered: true,
		RegisteredAt: now.UTC(),
	}
	if e.Voters == nil {
		e.Voters = make(map[string]Voter)
	}
	e.Voters[address] = voter
	e.UpdatedAt = now.UTC()
	return voter, nil
}

// Advance moves the election to target. Entering ProposalsRegistrationStarted
// seeds the genesis proposal and entering VotesTallied records the winner.
func (e *Election) Advance(caller string, target WorkflowStatus, now time.Time) (StatusChange, error) {
	if err := e.requireAdministrator(caller); err != nil {
		return StatusChange{}, err
	}
	if err := checkTransition(e.Status, target); err != nil {
		return StatusChange{}, err
	}

	change := StatusChange{Previous: e.Status, Current: target}
	switch target {
	case ProposalsRegistrationStarted:
		e.Proposals = append(e.Proposals[:0:0], Proposal{
			ProposalID:  0,
			Description: GenesisDescription,
			SubmittedBy: e.Administrator,
			CreatedAt:   now.UTC(),
		})
	case VotesTallied:
		e.WinningProposalID = PluralityWinner(e.Proposals)
	}
	e.Status = target
	e.UpdatedAt = now.UTC()
	return change, nil
}

func (e *Election) SubmitProposal(caller string, description string, now time.Time) (Proposal, error) {
	if err := e.requireVoter(caller); err != nil {
		return Proposal{}, err
	}
	if e.Status != ProposalsRegistrationStarted {
		return Proposal{}, domainerrors.ErrProposalsNotAllowed
	}
	if description == "" {
		return Proposal{}, domainerrors.ErrEmptyProposal
	}

	proposal := Proposal{
		ProposalID:  len(e.Proposals),
		Description: description,
		SubmittedBy: caller,
		CreatedAt:   now.UTC(),
	}
	e.Proposals = append(e.Proposals, proposal)
	e.UpdatedAt = now.UTC()
	return proposal, nil
}

func (e *Election) CastVote(caller string, proposalID int, now time.Time) (Voter, error) {
	if err := e.requireVoter(caller); err != nil {
		return Voter{}, err
	}
	if e.Status != VotingSessionStarted {
		return Voter{}, domainerrors.ErrVotingNotStarted
	}
	voter := e.Voters[caller]
	if voter.HasVoted {
		return Voter{}, domainerrors.ErrAlreadyVoted
	}
	if !e.hasProposal(proposalID) {
		return Voter{}, domainerrors.ErrProposalNotFound
	}

	voter.HasVoted = true
	voter.VotedProposalID = proposalID
	e.Voters[caller] = voter
	e.Proposals[proposalID].VoteCount++
	e.UpdatedAt = now.UTC()
	return voter, nil
}

// Voter returns the record for address. Unknown addresses yield an
// unregistered zero record rather than an error.
func (e Election) Voter(caller string, address string) (Voter, error) {
	if err := e.requireVoter(caller); err != nil {
		return Voter{}, err
	}
	address = strings.TrimSpace(address)
	voter, ok := e.Voters[address]
	if !ok {
		return Voter{Address: address}, nil
	}
	return voter, nil
}

func (e Election) Proposal(caller string, proposalID int) (Proposal, error) {
	if err := e.requireVoter(caller); err != nil {
		return Proposal{}, err
	}
	if !e.hasProposal(proposalID) {
		return Proposal{}, domainerrors.ErrProposalNotFound
	}
	return e.Proposals[proposalID], nil
}

func (e Election) ListProposals(caller string) ([]Proposal, error) {
	if err := e.requireVoter(caller); err != nil {
		return nil, err
	}
	return append([]Proposal(nil), e.Proposals...), nil
}

func (e Election) VoterCount() int {
	count := 0
	for _, voter := range e.Voters {
		if voter.IsRegistered {
			count++
		}
	}
	return count
}

func (e Election) TotalVotes() int {
	total := 0
	for _, proposal := range e.Proposals {
		total += proposal.VoteCount
	}
	return total
}

// WinningProposal returns the proposal at WinningProposalID, if the registry
// holds one.
func (e Election) WinningProposal() (Proposal, bool) {
	if !e.hasProposal(e.WinningProposalID) {
		return Proposal{}, false
	}
	return e.Proposals[e.WinningProposalID], true
}

// Clone returns a deep copy so callers can mutate without aliasing store state.
func (e Election) Clone() Election {
	out := e
	out.Voters = make(map[string]Voter, len(e.Voters))
	for address, voter := range e.Voters {
		out.Voters[address] = voter
	}
	out.Proposals = append([]Proposal(nil), e.Proposals...)
	return out
}

func (e Election) hasProposal(proposalID int) bool {
	return proposalID >= 0 && proposalID < len(e.Proposals)
}
