package workflow

import (
	"context"
	"maps"
	"strings"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// UpdateProposal edits the descriptive fields of a proposal. Only the
// creator may edit, and only while it is DRAFT, PENDING_SUPERIOR or
// NEEDS_REVISION. Status and approver state never change here.
func (s *Service) UpdateProposal(ctx context.Context, input UpdateProposalInput) (*domain.Proposal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := domain.ProposalUpdateParams{
		Type:          input.Type,
		Description:   input.Description,
		Budget:        input.Budget,
		Timeline:      input.Timeline,
		Justification: input.Justification,
		Department:    input.Department,
		FieldValues:   input.FieldValues,
	}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		params.Title = &trimmed
	}

	return s.execute(ctx, input.ProposalID, domain.ActionEdit, payload{edit: &params})
}

func applyEdit(p *domain.Proposal, in payload) {
	e := in.edit
	if e == nil {
		return
	}
	if e.Title != nil {
		p.Title = *e.Title
	}
	if e.Description != nil {
		p.Description = *e.Description
	}
	if e.Type != nil {
		p.Type = *e.Type
	}
	if e.Budget != nil {
		p.Budget = trimOrNil(e.Budget)
	}
	if e.Timeline != nil {
		p.Timeline = trimOrNil(e.Timeline)
	}
	if e.Justification != nil {
		p.Justification = trimOrNil(e.Justification)
	}
	if e.Department != nil {
		p.Department = trimOrNil(e.Department)
	}
	if e.FieldValues != nil {
		p.FieldValues = maps.Clone(e.FieldValues)
	}
}
