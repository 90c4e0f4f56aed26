package errors

import "errors"

// Category sentinels. Every specific election error wraps exactly one of
// these, so callers can branch on the category with errors.Is.
var (
	// ErrUnauthorized marks an access-gate failure (administrator or voter).
	ErrUnauthorized = errors.New("not authorized")
	// ErrInvalidPhase marks an operation that is illegal in the current workflow status.
	ErrInvalidPhase = errors.New("operation not allowed in current workflow status")
	// ErrInvalidState marks an operation that conflicts with voter or proposal state.
	ErrInvalidState = errors.New("operation conflicts with election state")
	// ErrInvalidInput marks malformed operation arguments.
	ErrInvalidInput = errors.New("invalid election input")
	// ErrOutOfRange marks a proposal index outside the registry.
	ErrOutOfRange = errors.New("index out of range")
)

var (
	ErrElectionNotFound = errors.New("election not found")
	ErrConflict         = errors.New("election conflict")
)

var (
	ErrNotAdministrator = newError(ErrUnauthorized, "caller is not the administrator")
	ErrNotVoter         = newError(ErrUnauthorized, "caller is not a registered voter")

	ErrVoterRegistrationClosed = newError(ErrInvalidPhase, "voters registration is not open")
	ErrCannotStartProposals    = newError(ErrInvalidPhase, "proposals registration cannot be started now")
	ErrProposalsNotStarted     = newError(ErrInvalidPhase, "proposals registration has not started")
	ErrProposalsNotAllowed     = newError(ErrInvalidPhase, "proposals are not allowed yet")
	ErrProposalsNotFinished    = newError(ErrInvalidPhase, "proposals registration is not finished")
	ErrVotingNotStarted        = newError(ErrInvalidPhase, "voting session has not started")
	ErrVotingNotEnded          = newError(ErrInvalidPhase, "voting session has not ended")
	ErrUnsupportedTransition   = newError(ErrInvalidPhase, "unsupported workflow transition")

	ErrAlreadyRegistered = newError(ErrInvalidState, "voter is already registered")
	ErrAlreadyVoted      = newError(ErrInvalidState, "voter has already voted")

	ErrEmptyProposal  = newError(ErrInvalidInput, "proposal description is empty")
	ErrInvalidAddress = newError(ErrInvalidInput, "address is required")
	ErrInvalidTitle   = newError(ErrInvalidInput, "election title is invalid")

	ErrProposalNotFound = newError(ErrOutOfRange, "proposal not found")
)

type categorizedError struct {
	category error
	message  string
}

func newError(category error, message string) error {
	return &categorizedError{category: category, message: message}
}

func (e *categorizedError) Error() string {
	return e.message
}

func (e *categorizedError) Unwrap() error {
	return e.category
}
