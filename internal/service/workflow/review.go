package workflow

import (
	"context"
	"strings"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// Submit moves a DRAFT proposal to its creator's superior.
func (s *Service) Submit(ctx context.Context, input ProposalInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionSubmit, payload{})
}

// Approve advances the proposal one stage. The assigned superior approves
// PENDING_SUPERIOR into PENDING_ADMIN; an administrator approves
// PENDING_ADMIN into PENDING_APPROVERS. The comment is kept as the audit note.
func (s *Service) Approve(ctx context.Context, input CommentInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionApprove, payload{text: strings.TrimSpace(input.Comment)})
}

// Reject ends the proposal at the superior or admin stage. The creator
// cannot resubmit it afterwards.
func (s *Service) Reject(ctx context.Context, input ReasonInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionReject, payload{text: strings.TrimSpace(input.Reason)})
}

// RequestRevision returns the proposal to its creator from the superior or
// admin stage.
func (s *Service) RequestRevision(ctx context.Context, input ReasonInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionRequestRevision, payload{text: strings.TrimSpace(input.Reason)})
}

// Resubmit sends a revised proposal back to the superior. Approval history
// and the last rejection reason are kept.
func (s *Service) Resubmit(ctx context.Context, input ProposalInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionResubmit, payload{})
}
