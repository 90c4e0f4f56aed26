package postgresadapter

import (
	"fmt"
	"sort"
	"time"

	"ballot/contexts/governance/election-service/domain/entities"
	"ballot/contexts/governance/election-service/ports"
	"ballot/internal/shared/outbox"
)

const (
	outboxStatusPending   = outbox.StatusPending
	outboxStatusPublished = outbox.StatusPublished
)

type electionModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	Title             string    `gorm:"column:title"`
	Administrator     string    `gorm:"column:administrator;index"`
	WorkflowStatus    int       `gorm:"column:workflow_status"`
	WinningProposalID int       `gorm:"column:winning_proposal_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

type voterModel struct {
	ElectionID      string    `gorm:"column:election_id;primaryKey"`
	Address         string    `gorm:"column:address;primaryKey"`
	IsRegistered    bool      `gorm:"column:is_registered"`
	HasVoted        bool      `gorm:"column:has_voted"`
	VotedProposalID int       `gorm:"column:voted_proposal_id"`
	RegisteredAt    time.Time `gorm:"column:registered_at"`
}

func (voterModel) TableName() string {
	return "election_voters"
}

type proposalModel struct {
	ElectionID  string    `gorm:"column:election_id;primaryKey"`
	ProposalID  int       `gorm:"column:proposal_id;primaryKey;autoIncrement:false"`
	Description string    `gorm:"column:description"`
	VoteCount   int       `gorm:"column:vote_count"`
	SubmittedBy string    `gorm:"column:submitted_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (proposalModel) TableName() string {
	return "election_proposals"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	Sequence     int64      `gorm:"column:sequence;autoIncrement;index"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

func electionModelFromEntity(election entities.Election) electionModel {
	return electionModel{
		ID:                election.ElectionID,
		Title:             election.Title,
		Administrator:     election.Administrator,
		WorkflowStatus:    int(election.Status),
		WinningProposalID: election.WinningProposalID,
		CreatedAt:         election.CreatedAt.UTC(),
		UpdatedAt:         election.UpdatedAt.UTC(),
	}
}

func (m electionModel) toEntity(voters []voterModel, proposals []proposalModel) (entities.Election, error) {
	status := entities.WorkflowStatus(m.WorkflowStatus)
	if !status.IsValid() {
		return entities.Election{}, fmt.Errorf("election %s: corrupt workflow_status %d", m.ID, m.WorkflowStatus)
	}
	election := entities.Election{
		ElectionID:        m.ID,
		Title:             m.Title,
		Administrator:     m.Administrator,
		Status:            status,
		Voters:            make(map[string]entities.Voter, len(voters)),
		WinningProposalID: m.WinningProposalID,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
	for _, row := range voters {
		election.Voters[row.Address] = entities.Voter{
			Address:         row.Address,
			IsRegistered:    row.IsRegistered,
			HasVoted:        row.HasVoted,
			VotedProposalID: row.VotedProposalID,
			RegisteredAt:    row.RegisteredAt.UTC(),
		}
	}
	if len(proposals) > 0 {
		election.Proposals = make([]entities.Proposal, 0, len(proposals))
		for _, row := range proposals {
			election.Proposals = append(election.Proposals, entities.Proposal{
				ProposalID:  row.ProposalID,
				Description: row.Description,
				VoteCount:   row.VoteCount,
				SubmittedBy: row.SubmittedBy,
				CreatedAt:   row.CreatedAt.UTC(),
			})
		}
	}
	return election, nil
}

func voterModelFromEntity(electionID string, voter entities.Voter) voterModel {
	return voterModel{
		ElectionID:      electionID,
		Address:         voter.Address,
		IsRegistered:    voter.IsRegistered,
		HasVoted:        voter.HasVoted,
		VotedProposalID: voter.VotedProposalID,
		RegisteredAt:    voter.RegisteredAt.UTC(),
	}
}

func proposalModelFromEntity(electionID string, proposal entities.Proposal) proposalModel {
	return proposalModel{
		ElectionID:  electionID,
		ProposalID:  proposal.ProposalID,
		Description: proposal.Description,
		VoteCount:   proposal.VoteCount,
		SubmittedBy: proposal.SubmittedBy,
		CreatedAt:   proposal.CreatedAt.UTC(),
	}
}

func votersFromEntity(election entities.Election) []voterModel {
	return changedVoters(entities.Election{}, election)
}

func proposalsFromEntity(election entities.Election) []proposalModel {
	return changedProposals(entities.Election{}, election)
}

// electionUpdates returns the column updates needed to turn before into after.
func electionUpdates(before entities.Election, after entities.Election) map[string]any {
	updates := make(map[string]any)
	if before.Status != after.Status {
		updates["workflow_status"] = int(after.Status)
	}
	if before.WinningProposalID != after.WinningProposalID {
		updates["winning_proposal_id"] = after.WinningProposalID
	}
	if len(updates) > 0 || !before.UpdatedAt.Equal(after.UpdatedAt) {
		updates["updated_at"] = after.UpdatedAt.UTC()
	}
	return updates
}

// changedVoters lists voter rows that are new or differ in after, ordered by
// registration time then address.
func changedVoters(before entities.Election, after entities.Election) []voterModel {
	rows := make([]voterModel, 0)
	for address, voter := range after.Voters {
		previous, existed := before.Voters[address]
		if existed && previous == voter {
			continue
		}
		rows = append(rows, voterModelFromEntity(after.ElectionID, voter))
	}
	sortVoterModels(rows)
	return rows
}

// changedProposals lists proposals appended in after or whose vote count moved.
func changedProposals(before entities.Election, after entities.Election) []proposalModel {
	rows := make([]proposalModel, 0)
	for index, proposal := range after.Proposals {
		if index < len(before.Proposals) && before.Proposals[index] == proposal {
			continue
		}
		rows = append(rows, proposalModelFromEntity(after.ElectionID, proposal))
	}
	return rows
}

func sortVoterModels(rows []voterModel) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RegisteredAt.Equal(rows[j].RegisteredAt) {
			return rows[i].Address < rows[j].Address
		}
		return rows[i].RegisteredAt.Before(rows[j].RegisteredAt)
	})
}

func outboxModelFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	message, err := outbox.FromEnvelope(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	return outboxModel{
		OutboxID:     message.OutboxID,
		EventType:    message.EventType,
		PartitionKey: message.PartitionKey,
		Payload:      message.Payload,
		Status:       outboxStatusPending,
		CreatedAt:    message.CreatedAt,
	}, nil
}

func (m outboxModel) toMessage() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}
