// Package proposal implements the proposal repository using PostgreSQL.
// A proposal row and its approval steps are written together; updates are
// guarded by the version column.
package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres"
	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

const (
	tableProposals = "proposals"
	tableSteps     = "approval_steps"
)

var proposalColumns = []string{
	"id", "title", "description", "status", "type",
	"budget", "timeline", "justification", "department", "field_values",
	"created_by", "created_by_name", "assigned_to", "assigned_to_name",
	"approvers", "pending_approvers", "approvers_assigned", "needs_reassignment", "approval_round",
	"rejection_reason", "rejected_by_registrar",
	"version", "created_at", "updated_at",
}

var stepColumns = []string{
	"proposal_id", "round", "position", "user_id", "user_name", "user_role",
	"status", "comment", "responded_at",
}

// Repo provides proposal persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new proposal repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a proposal together with any approval steps it carries.
func (r *Repo) Create(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	fieldValues, err := marshalFieldValues(p.FieldValues)
	if err != nil {
		return nil, fmt.Errorf("proposal %s: %w", p.ID, err)
	}

	query, args, err := postgres.Builder.
		Insert(tableProposals).
		Columns(proposalColumns...).
		Values(
			p.ID, p.Title, p.Description, p.Status.String(), p.Type.String(),
			p.Budget, p.Timeline, p.Justification, p.Department, fieldValues,
			p.CreatedBy, p.CreatedByName, p.AssignedTo, p.AssignedToName,
			uuidsOrEmpty(p.Approvers), uuidsOrEmpty(p.PendingApprovers),
			p.ApproversAssigned, p.NeedsReassignment, p.ApprovalRound,
			p.RejectionReason, p.RejectedByRegistrar,
			p.Version, p.CreatedAt, p.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert proposal: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return nil, postgres.MapError(err, "proposal", p.ID)
	}

	if err := r.upsertSteps(ctx, q, p.ID, p.ApprovalSteps); err != nil {
		return nil, err
	}

	return p.Clone(), nil
}

// Update persists p if the stored version still equals p.Version. The stored
// version is incremented; a mismatch yields domain.ErrConflict. Steps of the
// current round are upserted, older rounds are never touched.
func (r *Repo) Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	fieldValues, err := marshalFieldValues(p.FieldValues)
	if err != nil {
		return nil, fmt.Errorf("proposal %s: %w", p.ID, err)
	}

	query, args, err := postgres.Builder.
		Update(tableProposals).
		SetMap(map[string]any{
			"title":                 p.Title,
			"description":           p.Description,
			"status":                p.Status.String(),
			"type":                  p.Type.String(),
			"budget":                p.Budget,
			"timeline":              p.Timeline,
			"justification":         p.Justification,
			"department":            p.Department,
			"field_values":          fieldValues,
			"assigned_to":           p.AssignedTo,
			"assigned_to_name":      p.AssignedToName,
			"approvers":             uuidsOrEmpty(p.Approvers),
			"pending_approvers":     uuidsOrEmpty(p.PendingApprovers),
			"approvers_assigned":    p.ApproversAssigned,
			"needs_reassignment":    p.NeedsReassignment,
			"approval_round":        p.ApprovalRound,
			"rejection_reason":      p.RejectionReason,
			"rejected_by_registrar": p.RejectedByRegistrar,
			"version":               squirrel.Expr("version + 1"),
			"updated_at":            p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID, "version": p.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update proposal: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var (
		version   int64
		updatedAt time.Time
	)
	if err := q.QueryRow(ctx, query, args...).Scan(&version, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrConflict(ctx, q, p.ID)
		}
		return nil, postgres.MapError(err, "proposal", p.ID)
	}

	if err := r.upsertSteps(ctx, q, p.ID, currentRound(p)); err != nil {
		return nil, err
	}

	updated := p.Clone()
	updated.Version = version
	updated.UpdatedAt = updatedAt
	return updated, nil
}

// missOrConflict tells apart a proposal that does not exist from one whose
// version moved on.
func (r *Repo) missOrConflict(ctx context.Context, q postgres.Querier, id uuid.UUID) error {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM proposals WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return postgres.MapError(err, "proposal", id)
	}
	if !exists {
		return fmt.Errorf("proposal %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("proposal %s: stale version: %w", id, domain.ErrConflict)
}

func (r *Repo) upsertSteps(ctx context.Context, q postgres.Querier, proposalID uuid.UUID, steps []domain.ApprovalStep) error {
	if len(steps) == 0 {
		return nil
	}

	insert := postgres.Builder.Insert(tableSteps).Columns(stepColumns...)
	position := make(map[int]int)
	for _, s := range steps {
		insert = insert.Values(
			proposalID, s.Round, position[s.Round], s.UserID, s.UserName, s.UserRole.String(),
			s.Status.String(), s.Comment, s.RespondedAt,
		)
		position[s.Round]++
	}

	query, args, err := insert.
		Suffix(`ON CONFLICT (proposal_id, round, user_id) DO UPDATE SET
			status = EXCLUDED.status,
			comment = EXCLUDED.comment,
			responded_at = EXCLUDED.responded_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert approval steps: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "approval_steps", proposalID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a proposal with its full step ledger.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	query, args, err := postgres.Builder.
		Select(proposalColumns...).
		From(tableProposals).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select proposal: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var row proposalRow
	if err := pgxscan.Get(ctx, q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("proposal %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "proposal", id)
	}

	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	steps, err := r.loadSteps(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	p.ApprovalSteps = steps[id]

	return p, nil
}

// List returns proposals matching filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error) {
	builder := postgres.Builder.
		Select(proposalColumns...).
		From(tableProposals).
		OrderBy("created_at DESC", "id")

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": filter.Status.String()})
	}
	if filter.CreatedBy != nil {
		builder = builder.Where(squirrel.Eq{"created_by": *filter.CreatedBy})
	}
	if filter.AssignedTo != nil {
		builder = builder.Where(squirrel.Eq{"assigned_to": *filter.AssignedTo})
	}
	if filter.PendingApprover != nil {
		builder = builder.Where(squirrel.Expr("? = ANY(pending_approvers)", *filter.PendingApprover))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list proposals: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []proposalRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	if len(rows) == 0 {
		return []*domain.Proposal{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	result := make([]*domain.Proposal, len(rows))
	for i, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		ids[i] = p.ID
		result[i] = p
	}

	steps, err := r.loadSteps(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range result {
		p.ApprovalSteps = steps[p.ID]
	}

	return result, nil
}

// loadSteps fetches the step ledgers of several proposals in one query,
// grouped by proposal and ordered by round and position.
func (r *Repo) loadSteps(ctx context.Context, q postgres.Querier, ids []uuid.UUID) (map[uuid.UUID][]domain.ApprovalStep, error) {
	query, args, err := postgres.Builder.
		Select(stepColumns...).
		From(tableSteps).
		Where(squirrel.Expr("proposal_id = ANY(?)", ids)).
		OrderBy("proposal_id", "round", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select approval steps: %w", err)
	}

	var rows []stepRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load approval steps: %w", err)
	}

	grouped := make(map[uuid.UUID][]domain.ApprovalStep, len(ids))
	for _, row := range rows {
		grouped[row.ProposalID] = append(grouped[row.ProposalID], row.toDomain())
	}
	return grouped, nil
}

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

type proposalRow struct {
	ID                  uuid.UUID   `db:"id"`
	Title               string      `db:"title"`
	Description         string      `db:"description"`
	Status              string      `db:"status"`
	Type                string      `db:"type"`
	Budget              *string     `db:"budget"`
	Timeline            *string     `db:"timeline"`
	Justification       *string     `db:"justification"`
	Department          *string     `db:"department"`
	FieldValues         []byte      `db:"field_values"`
	CreatedBy           uuid.UUID   `db:"created_by"`
	CreatedByName       string      `db:"created_by_name"`
	AssignedTo          uuid.UUID   `db:"assigned_to"`
	AssignedToName      string      `db:"assigned_to_name"`
	Approvers           []uuid.UUID `db:"approvers"`
	PendingApprovers    []uuid.UUID `db:"pending_approvers"`
	ApproversAssigned   bool        `db:"approvers_assigned"`
	NeedsReassignment   bool        `db:"needs_reassignment"`
	ApprovalRound       int         `db:"approval_round"`
	RejectionReason     string      `db:"rejection_reason"`
	RejectedByRegistrar bool        `db:"rejected_by_registrar"`
	Version             int64       `db:"version"`
	CreatedAt           time.Time   `db:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at"`
}

func (row proposalRow) toDomain() (*domain.Proposal, error) {
	fieldValues := map[string]string{}
	if len(row.FieldValues) > 0 {
		if err := json.Unmarshal(row.FieldValues, &fieldValues); err != nil {
			return nil, fmt.Errorf("proposal %s: decode field_values: %w", row.ID, err)
		}
	}

	return &domain.Proposal{
		ID:                  row.ID,
		Title:               row.Title,
		Description:         row.Description,
		Status:              domain.ProposalStatus(row.Status),
		Type:                domain.ProposalType(row.Type),
		Budget:              row.Budget,
		Timeline:            row.Timeline,
		Justification:       row.Justification,
		Department:          row.Department,
		FieldValues:         fieldValues,
		CreatedBy:           row.CreatedBy,
		CreatedByName:       row.CreatedByName,
		AssignedTo:          row.AssignedTo,
		AssignedToName:      row.AssignedToName,
		Approvers:           uuidsOrEmpty(row.Approvers),
		PendingApprovers:    uuidsOrEmpty(row.PendingApprovers),
		ApproversAssigned:   row.ApproversAssigned,
		NeedsReassignment:   row.NeedsReassignment,
		ApprovalRound:       row.ApprovalRound,
		RejectionReason:     row.RejectionReason,
		RejectedByRegistrar: row.RejectedByRegistrar,
		Version:             row.Version,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

type stepRow struct {
	ProposalID  uuid.UUID  `db:"proposal_id"`
	Round       int        `db:"round"`
	Position    int        `db:"position"`
	UserID      uuid.UUID  `db:"user_id"`
	UserName    string     `db:"user_name"`
	UserRole    string     `db:"user_role"`
	Status      string     `db:"status"`
	Comment     string     `db:"comment"`
	RespondedAt *time.Time `db:"responded_at"`
}

func (row stepRow) toDomain() domain.ApprovalStep {
	return domain.ApprovalStep{
		Round:       row.Round,
		UserID:      row.UserID,
		UserName:    row.UserName,
		UserRole:    domain.UserRole(row.UserRole),
		Status:      domain.StepStatus(row.Status),
		Comment:     row.Comment,
		RespondedAt: row.RespondedAt,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func currentRound(p *domain.Proposal) []domain.ApprovalStep {
	var steps []domain.ApprovalStep
	for _, s := range p.ApprovalSteps {
		if s.Round == p.ApprovalRound {
			steps = append(steps, s)
		}
	}
	return steps
}

func marshalFieldValues(values map[string]string) ([]byte, error) {
	if values == nil {
		values = map[string]string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode field_values: %w", err)
	}
	return b, nil
}

// uuidsOrEmpty keeps NOT NULL array columns from receiving a nil slice.
func uuidsOrEmpty(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
