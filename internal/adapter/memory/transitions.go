package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// TransitionRepo is an append-only in-memory transition log.
type TransitionRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID][]domain.TransitionRecord
}

// NewTransitionRepo creates an empty transition log.
func NewTransitionRepo() *TransitionRepo {
	return &TransitionRepo{records: make(map[uuid.UUID][]domain.TransitionRecord)}
}

func (r *TransitionRepo) Append(ctx context.Context, record domain.TransitionRecord) error {
	r.mu.Lock()
	r.records[record.ProposalID] = append(r.records[record.ProposalID], record)
	r.mu.Unlock()

	onRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.records[record.ProposalID] = slices.DeleteFunc(r.records[record.ProposalID], func(rec domain.TransitionRecord) bool {
			return rec.ID == record.ID
		})
	})
	return nil
}

// ListByProposal returns the history of one proposal in append order.
func (r *TransitionRepo) ListByProposal(_ context.Context, proposalID uuid.UUID) ([]domain.TransitionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.records[proposalID]), nil
}
