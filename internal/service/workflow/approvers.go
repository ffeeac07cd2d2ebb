package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// AssignApprovers starts a new approver round with the given users. Allowed
// once per PENDING_APPROVERS visit, or again after a revision invalidated
// the previous round.
func (s *Service) AssignApprovers(ctx context.Context, input AssignApproversInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.MaxApprovers > 0 && len(input.UserIDs) > s.cfg.MaxApprovers {
		return nil, domain.NewValidationError("user_ids", fmt.Sprintf("max %d approvers", s.cfg.MaxApprovers))
	}

	approvers, err := s.lookupApprovers(ctx, input.UserIDs)
	if err != nil {
		return nil, err
	}

	return s.execute(ctx, input.ProposalID, domain.ActionAssignApprovers, payload{approvers: approvers})
}

// lookupApprovers resolves ids against the directory, preserving the order
// the administrator chose.
func (s *Service) lookupApprovers(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	found, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get approvers: %w", err)
	}

	byID := make(map[uuid.UUID]domain.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	approvers := make([]domain.User, 0, len(ids))
	var errs []domain.FieldError
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			errs = append(errs, domain.FieldError{Field: "user_ids", Message: "unknown user " + id.String()})
			continue
		}
		approvers = append(approvers, u)
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return approvers, nil
}

// ApproveAsApprover records the actor's approval in the current round.
// The proposal status does not change.
func (s *Service) ApproveAsApprover(ctx context.Context, input CommentInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionApproveAsApprover, payload{text: strings.TrimSpace(input.Comment)})
}

// RejectAsApprover records the actor's rejection in the current round. A
// single approver cannot veto: the round continues with the others.
func (s *Service) RejectAsApprover(ctx context.Context, input ReasonInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionRejectAsApprover, payload{text: strings.TrimSpace(input.Reason)})
}

// RequestRevisionAsApprover sends the proposal back to the creator at once,
// even if other approvers have not answered. A new approver set must be
// chosen when it returns.
func (s *Service) RequestRevisionAsApprover(ctx context.Context, input ReasonInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionRequestRevisionAsApprover, payload{text: strings.TrimSpace(input.Reason)})
}
