package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ballot/contexts/governance/election-service/domain/entities"
	domainerrors "ballot/contexts/governance/election-service/domain/errors"
	"ballot/contexts/governance/election-service/ports"
	"ballot/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	sequence  int
	published bool
}

// Store keeps elections and their outbox in process memory. A single mutex
// serializes every election mutation with its outbox append.
type Store struct {
	mu sync.RWMutex

	elections map[string]entities.Election
	outbox    map[string]outboxRecord
	sequence  int
}

func NewStore(seed []entities.Election) *Store {
	elections := make(map[string]entities.Election, len(seed))
	for _, election := range seed {
		elections[strings.TrimSpace(election.ElectionID)] = election.Clone()
	}
	return &Store{
		elections: elections,
		outbox:    make(map[string]outboxRecord),
	}
}

func (s *Store) CreateElection(_ context.Context, election entities.Election, events []ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	electionID := strings.TrimSpace(election.ElectionID)
	if electionID == "" {
		return domainerrors.ErrElectionNotFound
	}
	if _, exists := s.elections[electionID]; exists {
		return domainerrors.ErrConflict
	}
	rows, err := s.prepareOutbox(events)
	if err != nil {
		return err
	}
	s.elections[electionID] = election.Clone()
	s.commitOutbox(rows)
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election.Clone(), nil
}

func (s *Store) UpdateElection(_ context.Context, electionID string, mutate ports.Mutation) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	electionID = strings.TrimSpace(electionID)
	current, ok := s.elections[electionID]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	working := current.Clone()
	events, err := mutate(&working)
	if err != nil {
		return entities.Election{}, err
	}
	rows, err := s.prepareOutbox(events)
	if err != nil {
		return entities.Election{}, err
	}
	s.elections[electionID] = working
	s.commitOutbox(rows)
	return working.Clone(), nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	records := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		records = append(records, row)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].sequence < records[j].sequence
	})
	if len(records) > limit {
		records = records[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(records))
	for _, row := range records {
		items = append(items, row.message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

// PendingOutboxCount reports rows the relay has not published yet.
func (s *Store) PendingOutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, row := range s.outbox {
		if !row.published {
			count++
		}
	}
	return count
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// prepareOutbox encodes events without touching the store so a failure
// leaves both the election and the outbox unchanged.
func (s *Store) prepareOutbox(events []ports.EventEnvelope) ([]ports.OutboxMessage, error) {
	rows := make([]ports.OutboxMessage, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, envelope := range events {
		if strings.TrimSpace(envelope.EventID) == "" {
			envelope.EventID = uuid.NewString()
		}
		message, err := outbox.FromEnvelope(envelope)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[message.OutboxID]; dup {
			return nil, domainerrors.ErrConflict
		}
		if _, exists := s.outbox[message.OutboxID]; exists {
			return nil, domainerrors.ErrConflict
		}
		seen[message.OutboxID] = struct{}{}
		if message.CreatedAt.IsZero() {
			message.CreatedAt = time.Now().UTC()
		}
		rows = append(rows, message)
	}
	return rows, nil
}

func (s *Store) commitOutbox(rows []ports.OutboxMessage) {
	for _, row := range rows {
		s.sequence++
		s.outbox[row.OutboxID] = outboxRecord{message: row, sequence: s.sequence}
	}
}

var _ ports.ElectionRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
