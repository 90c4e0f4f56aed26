package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type RegisterVoterRequest struct {
	Address string `json:"address" validate:"required,eth_addr"`
}

type SubmitProposalRequest struct {
	Description string `json:"description"`
}

type CastVoteRequest struct {
	ProposalID *int `json:"proposal_id" validate:"required"`
}

type ElectionResponse struct {
	ElectionID        string    `json:"election_id"`
	Title             string    `json:"title"`
	Administrator     string    `json:"administrator"`
	WorkflowStatus    int       `json:"workflow_status"`
	WorkflowStatusKey string    `json:"workflow_status_key"`
	VoterCount        int       `json:"voter_count"`
	ProposalCount     int       `json:"proposal_count"`
	TotalVotes        int       `json:"total_votes"`
	WinningProposalID int       `json:"winning_proposal_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type WorkflowStatusResponse struct {
	ElectionID        string `json:"election_id"`
	WorkflowStatus    int    `json:"workflow_status"`
	WorkflowStatusKey string `json:"workflow_status_key"`
}

type StatusChangeResponse struct {
	ElectionID     string `json:"election_id"`
	PreviousStatus int    `json:"previous_status"`
	NewStatus      int    `json:"new_status"`
	NewStatusKey   string `json:"new_status_key"`
}

type VoterResponse struct {
	Address         string `json:"address"`
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID int    `json:"voted_proposal_id"`
}

type ProposalResponse struct {
	ProposalID  int    `json:"proposal_id"`
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
}

type ProposalListResponse struct {
	Items []ProposalResponse `json:"items"`
}

type WinnerResponse struct {
	ElectionID        string `json:"election_id"`
	WorkflowStatus    int    `json:"workflow_status"`
	WinningProposalID int    `json:"winning_proposal_id"`
	Description       string `json:"description"`
	VoteCount         int    `json:"vote_count"`
	TotalVotes        int    `json:"total_votes"`
	Tallied           bool   `json:"tallied"`
	Decided           bool   `json:"decided"`
}
