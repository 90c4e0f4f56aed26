package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "ballot/contexts/governance/election-service/application"
	"ballot/contexts/governance/election-service/ports"
)

const (
	votesTalliedTopic  = "election.votes_tallied"
	defaultAnnouncerCG = "election-service-results-cg"
)

// Announcement is the decoded payload of an election.votes_tallied event.
type Announcement struct {
	ElectionID        string `json:"election_id"`
	WinningProposalID int    `json:"winning_proposal_id"`
	VoteCount         int    `json:"vote_count"`
	TotalVotes        int    `json:"total_votes"`
}

// ResultsAnnouncer consumes tally notifications and hands them to Notify.
type ResultsAnnouncer struct {
	Subscriber    ports.EventSubscriber
	ConsumerGroup string
	Notify        func(context.Context, Announcement) error
	Disabled      bool
	Logger        *slog.Logger
}

func (a ResultsAnnouncer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(a.Logger)
	if a.Disabled {
		logger.Info("results announcer disabled by feature flag",
			"event", "election_results_announcer_disabled",
			"module", application.ModuleName,
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(a.ConsumerGroup)
	if group == "" {
		group = defaultAnnouncerCG
	}
	if err := a.Subscriber.Subscribe(ctx, votesTalliedTopic, group, a.handleVotesTallied); err != nil {
		logger.Error("results announcer subscribe failed",
			"event", "election_results_announcer_subscribe_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"topic", votesTalliedTopic,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("results announcer subscription active",
		"event", "election_results_announcer_started",
		"module", application.ModuleName,
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

func (a ResultsAnnouncer) handleVotesTallied(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(a.Logger)
	var announcement Announcement
	if err := json.Unmarshal(event.Data, &announcement); err != nil {
		logger.Error("results announcement decode failed",
			"event", "election_results_decode_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	if announcement.ElectionID == "" {
		announcement.ElectionID = event.PartitionKey
	}

	logger.Info("election results announced",
		"event", "election_results_announced",
		"module", application.ModuleName,
		"layer", "worker",
		"election_id", announcement.ElectionID,
		"winning_proposal_id", announcement.WinningProposalID,
		"vote_count", announcement.VoteCount,
		"total_votes", announcement.TotalVotes,
	)
	if a.Notify == nil {
		return nil
	}
	return a.Notify(ctx, announcement)
}
