package workflow

import (
	"context"
	"strings"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// AssignToRegistrar forwards the proposal once every approver of the current
// round has answered.
func (s *Service) AssignToRegistrar(ctx context.Context, input ProposalInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionAssignToRegistrar, payload{})
}

// ApproveAsRegistrar makes the proposal permanently APPROVED.
func (s *Service) ApproveAsRegistrar(ctx context.Context, input CommentInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionApproveAsRegistrar, payload{text: strings.TrimSpace(input.Comment)})
}

// RejectAsRegistrar makes the proposal permanently REJECTED.
func (s *Service) RejectAsRegistrar(ctx context.Context, input ReasonInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionRejectAsRegistrar, payload{text: strings.TrimSpace(input.Reason)})
}

// RequestRevisionAsRegistrar returns the proposal to the creator and forces
// a fresh approver round on its way back.
func (s *Service) RequestRevisionAsRegistrar(ctx context.Context, input ReasonInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, input.ProposalID, domain.ActionRequestRevisionAsRegistrar, payload{text: strings.TrimSpace(input.Reason)})
}
