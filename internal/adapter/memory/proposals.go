package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// ProposalRepo keeps proposals in a map. Callers always receive clones.
type ProposalRepo struct {
	mu        sync.RWMutex
	proposals map[uuid.UUID]*domain.Proposal
}

// NewProposalRepo creates an empty proposal repository.
func NewProposalRepo() *ProposalRepo {
	return &ProposalRepo{proposals: make(map[uuid.UUID]*domain.Proposal)}
}

// Create stores p. The id must be unused.
func (r *ProposalRepo) Create(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.proposals[p.ID]; ok {
		return nil, fmt.Errorf("proposal %s: %w", p.ID, domain.ErrAlreadyExists)
	}

	stored := p.Clone()
	r.proposals[p.ID] = stored

	onRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.proposals[p.ID]; ok && cur == stored {
			delete(r.proposals, p.ID)
		}
	})

	return stored.Clone(), nil
}

// GetByID returns a copy of the stored proposal.
func (r *ProposalRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.proposals[id]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", id, domain.ErrNotFound)
	}
	return p.Clone(), nil
}

// Update replaces the stored proposal if its version still equals p.Version.
// The stored version is incremented.
func (r *ProposalRepo) Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.proposals[p.ID]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", p.ID, domain.ErrNotFound)
	}
	if prev.Version != p.Version {
		return nil, fmt.Errorf("proposal %s: stale version %d, stored %d: %w",
			p.ID, p.Version, prev.Version, domain.ErrConflict)
	}

	stored := p.Clone()
	stored.Version = prev.Version + 1
	r.proposals[p.ID] = stored

	onRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.proposals[p.ID] == stored {
			r.proposals[p.ID] = prev
		}
	})

	return stored.Clone(), nil
}

// List returns proposals matching filter, newest first.
func (r *ProposalRepo) List(_ context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error) {
	r.mu.RLock()
	matched := make([]*domain.Proposal, 0, len(r.proposals))
	for _, p := range r.proposals {
		if matches(p, filter) {
			matched = append(matched, p.Clone())
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *domain.Proposal) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*domain.Proposal{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func matches(p *domain.Proposal, f domain.ProposalFilter) bool {
	switch {
	case f.Status != nil && p.Status != *f.Status:
		return false
	case f.CreatedBy != nil && p.CreatedBy != *f.CreatedBy:
		return false
	case f.AssignedTo != nil && p.AssignedTo != *f.AssignedTo:
		return false
	case f.PendingApprover != nil && !p.IsPendingApprover(*f.PendingApprover):
		return false
	}
	return true
}
