// Package audit implements the proposal transition log using PostgreSQL.
// It provides append-only operations for transition records.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres"
	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

var transitionColumns = []string{
	"id", "proposal_id", "actor_id", "actor_role", "action",
	"from_status", "to_status", "comment", "created_at",
}

// Repo provides transition log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new transition log repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Append writes one transition record. Records are never updated.
func (r *Repo) Append(ctx context.Context, record domain.TransitionRecord) error {
	query, args, err := postgres.Builder.
		Insert("proposal_transitions").
		Columns(transitionColumns...).
		Values(
			record.ID, record.ProposalID, record.ActorID, record.ActorRole.String(), record.Action.String(),
			record.FromStatus.String(), record.ToStatus.String(), record.Comment, record.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert transition: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "proposal_transition", record.ID)
	}
	return nil
}

// ListByProposal returns the history of one proposal, oldest first.
func (r *Repo) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.TransitionRecord, error) {
	query, args, err := postgres.Builder.
		Select(transitionColumns...).
		From("proposal_transitions").
		Where(squirrel.Eq{"proposal_id": proposalID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select transitions: %w", err)
	}

	var rows []transitionRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transitions of %s: %w", proposalID, err)
	}

	records := make([]domain.TransitionRecord, len(rows))
	for i, row := range rows {
		records[i] = domain.TransitionRecord{
			ID:         row.ID,
			ProposalID: row.ProposalID,
			ActorID:    row.ActorID,
			ActorRole:  domain.UserRole(row.ActorRole),
			Action:     domain.Action(row.Action),
			FromStatus: domain.ProposalStatus(row.FromStatus),
			ToStatus:   domain.ProposalStatus(row.ToStatus),
			Comment:    row.Comment,
			CreatedAt:  row.CreatedAt,
		}
	}
	return records, nil
}

type transitionRow struct {
	ID         uuid.UUID `db:"id"`
	ProposalID uuid.UUID `db:"proposal_id"`
	ActorID    uuid.UUID `db:"actor_id"`
	ActorRole  string    `db:"actor_role"`
	Action     string    `db:"action"`
	FromStatus string    `db:"from_status"`
	ToStatus   string    `db:"to_status"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}
