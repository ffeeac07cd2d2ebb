package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/pkg/ctxutil"
)

// execute runs one guarded transition for the context actor: load, resolve
// against the table, apply to a copy, persist with a version check and
// append the transition record. Everything happens in one transaction, so a
// failure leaves the stored proposal untouched. Conflicts are returned to the
// caller, never retried here.
func (s *Service) execute(ctx context.Context, proposalID uuid.UUID, action domain.Action, in payload) (*domain.Proposal, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	in.actor = actor
	in.now = s.now()

	var (
		updated *domain.Proposal
		from    domain.ProposalStatus
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, getErr := s.proposals.GetByID(txCtx, proposalID)
		if getErr != nil {
			return fmt.Errorf("get proposal: %w", getErr)
		}

		row, resolveErr := resolve(current, actor, action)
		if resolveErr != nil {
			return resolveErr
		}
		from = current.Status

		var updateErr error
		updated, updateErr = s.proposals.Update(txCtx, row.apply(current, in))
		if updateErr != nil {
			return fmt.Errorf("update proposal: %w", updateErr)
		}

		if logErr := s.history.Append(txCtx, domain.TransitionRecord{
			ID:         uuid.New(),
			ProposalID: proposalID,
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     action,
			FromStatus: from,
			ToStatus:   updated.Status,
			Comment:    in.text,
			CreatedAt:  in.now,
		}); logErr != nil {
			return fmt.Errorf("append transition: %w", logErr)
		}

		return nil
	})
	s.metrics.ObserveTransition(action, err)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "proposal transitioned",
		slog.String("proposal_id", proposalID.String()),
		slog.String("actor_id", actor.ID.String()),
		slog.String("action", action.String()),
		slog.String("from", from.String()),
		slog.String("to", updated.Status.String()),
	)

	return updated, nil
}
