package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ballot/contexts/governance/election-service/domain/entities"
	domainerrors "ballot/contexts/governance/election-service/domain/errors"
	"ballot/contexts/governance/election-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates or updates the election tables.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(
		&electionModel{},
		&voterModel{},
		&proposalModel{},
		&outboxModel{},
	); err != nil {
		return r.logError("election_repo_migrate_failed", err)
	}
	return nil
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election, events []ports.EventEnvelope) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := electionModelFromEntity(election)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if voters := votersFromEntity(election); len(voters) > 0 {
			if err := tx.Create(&voters).Error; err != nil {
				return err
			}
		}
		if proposals := proposalsFromEntity(election); len(proposals) > 0 {
			if err := tx.Create(&proposals).Error; err != nil {
				return err
			}
		}
		return appendOutbox(tx, events)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("election_repo_create_failed", err,
			"election_id", strings.TrimSpace(election.ElectionID),
		)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var election entities.Election
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := loadElection(tx, strings.TrimSpace(electionID), false)
		if err != nil {
			return err
		}
		election = loaded
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return entities.Election{}, err
		}
		return entities.Election{}, r.logError("election_repo_get_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return election, nil
}

// UpdateElection locks the election row, applies mutate to the loaded
// aggregate and writes back only the rows that changed, together with the
// outbox rows, in one transaction.
func (r *Repository) UpdateElection(ctx context.Context, electionID string, mutate ports.Mutation) (entities.Election, error) {
	electionID = strings.TrimSpace(electionID)
	var updated entities.Election
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadElection(tx, electionID, true)
		if err != nil {
			return err
		}
		working := current.Clone()
		events, err := mutate(&working)
		if err != nil {
			return err
		}

		if changed := electionUpdates(current, working); len(changed) > 0 {
			if err := tx.Model(&electionModel{}).
				Where("id = ?", electionID).
				Updates(changed).
				Error; err != nil {
				return err
			}
		}
		if voters := changedVoters(current, working); len(voters) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "election_id"}, {Name: "address"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"is_registered",
					"has_voted",
					"voted_proposal_id",
				}),
			}).Create(&voters).Error; err != nil {
				return err
			}
		}
		if proposals := changedProposals(current, working); len(proposals) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "election_id"}, {Name: "proposal_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"vote_count"}),
			}).Create(&proposals).Error; err != nil {
				return err
			}
		}
		if err := appendOutbox(tx, events); err != nil {
			return err
		}
		updated = working
		return nil
	})
	if err != nil {
		if isRejection(err) {
			return entities.Election{}, err
		}
		if isUniqueViolation(err) {
			return entities.Election{}, domainerrors.ErrConflict
		}
		return entities.Election{}, r.logError("election_repo_update_failed", err,
			"election_id", electionID,
		)
	}
	return updated, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("sequence ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/election-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

func loadElection(tx *gorm.DB, electionID string, forUpdate bool) (entities.Election, error) {
	query := tx
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row electionModel
	if err := query.Where("id = ?", electionID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, err
	}

	var voters []voterModel
	if err := tx.Where("election_id = ?", electionID).
		Order("registered_at ASC").
		Find(&voters).Error; err != nil {
		return entities.Election{}, err
	}
	var proposals []proposalModel
	if err := tx.Where("election_id = ?", electionID).
		Order("proposal_id ASC").
		Find(&proposals).Error; err != nil {
		return entities.Election{}, err
	}
	return row.toEntity(voters, proposals)
}

func appendOutbox(tx *gorm.DB, events []ports.EventEnvelope) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]outboxModel, 0, len(events))
	for _, envelope := range events {
		if strings.TrimSpace(envelope.EventID) == "" {
			envelope.EventID = uuid.NewString()
		}
		row, err := outboxModelFromEnvelope(envelope)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return tx.Create(&rows).Error
}

func isRejection(err error) bool {
	return errors.Is(err, domainerrors.ErrElectionNotFound) ||
		errors.Is(err, domainerrors.ErrUnauthorized) ||
		errors.Is(err, domainerrors.ErrInvalidPhase) ||
		errors.Is(err, domainerrors.ErrInvalidState) ||
		errors.Is(err, domainerrors.ErrInvalidInput) ||
		errors.Is(err, domainerrors.ErrOutOfRange)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
