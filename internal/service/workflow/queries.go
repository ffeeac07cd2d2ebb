package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/pkg/ctxutil"
)

// ProgressReport bundles the ledger queries for one proposal as seen by one
// actor.
type ProgressReport struct {
	ProposalID         uuid.UUID
	Status             domain.ProposalStatus
	Progress           float64
	PendingApproverIDs []uuid.UUID
	AllResponded       bool
	CanResubmit        bool
	Capabilities       Capabilities
	// Steps is empty unless the actor may see approval details.
	Steps []domain.ApprovalStep
}

// GetProposal returns a proposal by id.
func (s *Service) GetProposal(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("proposal_id", "required")
	}

	p, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

// ListProposals returns proposals matching the filter, newest first.
func (s *Service) ListProposals(ctx context.Context, input ListProposalsInput) ([]*domain.Proposal, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	proposals, err := s.proposals.List(ctx, domain.ProposalFilter{
		Status:          input.Status,
		CreatedBy:       input.CreatedBy,
		AssignedTo:      input.AssignedTo,
		PendingApprover: input.PendingApprover,
		Limit:           limit,
		Offset:          input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return proposals, nil
}

// History returns the transition log of a proposal, oldest first. Callers
// without CanSeeApprovalDetails get other approvers' entries with the
// actor and comment blanked; their own entries stay intact.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]domain.TransitionRecord, error) {
	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	actor, _ := ctxutil.ActorFromCtx(ctx)

	records, err := s.history.ListByProposal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}

	if Evaluate(p, actor).CanSeeApprovalDetails {
		return records, nil
	}
	for i := range records {
		if records[i].Action.IsApproverAction() && records[i].ActorID != actor.ID {
			records[i].ActorID = uuid.Nil
			records[i].Comment = ""
		}
	}
	return records, nil
}

// Progress returns the share of current-round approvers who have answered.
func (s *Service) Progress(ctx context.Context, id uuid.UUID) (float64, error) {
	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return 0, err
	}
	return Progress(p), nil
}

// PendingApproverIDs returns the approvers who still owe a response.
func (s *Service) PendingApproverIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return PendingApproverIDs(p), nil
}

// AllResponded reports whether the current approver round is complete.
func (s *Service) AllResponded(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return false, err
	}
	return AllResponded(p), nil
}

// CanResubmit reports whether the context actor may resubmit the proposal.
func (s *Service) CanResubmit(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return false, err
	}
	actor, _ := ctxutil.ActorFromCtx(ctx)
	return CanResubmit(p, actor), nil
}

// Capabilities returns what the context actor may do with the proposal.
func (s *Service) Capabilities(ctx context.Context, id uuid.UUID) (Capabilities, error) {
	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return Capabilities{}, err
	}
	actor, _ := ctxutil.ActorFromCtx(ctx)
	return Evaluate(p, actor), nil
}

// Report returns every ledger query for the proposal in one read.
func (s *Service) Report(ctx context.Context, id uuid.UUID) (*ProgressReport, error) {
	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	actor, _ := ctxutil.ActorFromCtx(ctx)

	caps := Evaluate(p, actor)
	report := &ProgressReport{
		ProposalID:         p.ID,
		Status:             p.Status,
		Progress:           Progress(p),
		PendingApproverIDs: PendingApproverIDs(p),
		AllResponded:       AllResponded(p),
		CanResubmit:        caps.CanResubmit,
		Capabilities:       caps,
	}
	if caps.CanSeeApprovalDetails {
		report.Steps = CurrentSteps(p)
	}
	return report, nil
}

// ListUsers searches the user directory by name for approver selection.
func (s *Service) ListUsers(ctx context.Context, input ListUsersInput) ([]domain.User, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	users, err := s.users.Search(ctx, strings.TrimSpace(input.Query), limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}
