package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/pkg/ctxutil"
)

// CreateProposal creates a DRAFT proposal owned by the context actor and
// assigned to their direct superior.
func (s *Service) CreateProposal(ctx context.Context, input CreateProposalInput) (*domain.Proposal, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.AssignedTo == actor.ID {
		return nil, domain.NewValidationError("assigned_to", "must differ from the creator")
	}

	var created *domain.Proposal
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		creator, err := s.users.GetByID(txCtx, actor.ID)
		if err != nil {
			return fmt.Errorf("get creator: %w", err)
		}
		superior, err := s.users.GetByID(txCtx, input.AssignedTo)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("assigned_to", "unknown user")
			}
			return fmt.Errorf("get superior: %w", err)
		}

		now := s.now()
		created, err = s.proposals.Create(txCtx, &domain.Proposal{
			ID:             uuid.New(),
			Title:          strings.TrimSpace(input.Title),
			Description:    input.Description,
			Status:         domain.StatusDraft,
			Type:           input.Type,
			Budget:         trimOrNil(input.Budget),
			Timeline:       trimOrNil(input.Timeline),
			Justification:  trimOrNil(input.Justification),
			Department:     trimOrNil(input.Department),
			FieldValues:    input.FieldValues,
			CreatedBy:      creator.ID,
			CreatedByName:  creator.Name,
			AssignedTo:     superior.ID,
			AssignedToName: superior.Name,
			Version:        1,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("create proposal: %w", err)
		}

		if err := s.history.Append(txCtx, domain.TransitionRecord{
			ID:         uuid.New(),
			ProposalID: created.ID,
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     domain.ActionCreate,
			ToStatus:   domain.StatusDraft,
			CreatedAt:  now,
		}); err != nil {
			return fmt.Errorf("append transition: %w", err)
		}
		return nil
	})
	s.metrics.ObserveTransition(domain.ActionCreate, err)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "proposal created",
		slog.String("proposal_id", created.ID.String()),
		slog.String("created_by", actor.ID.String()),
		slog.String("assigned_to", created.AssignedTo.String()),
	)

	return created, nil
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
