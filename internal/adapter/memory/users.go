package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// UserRepo is the in-memory user directory.
type UserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

// NewUserRepo creates an empty user directory.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

// GetByIDs returns the users that exist among ids. Missing ids are skipped.
func (r *UserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// Search matches query against names case-insensitively, ordered by name.
func (r *UserRepo) Search(_ context.Context, query string, limit int) ([]domain.User, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	r.mu.RLock()
	users := make([]domain.User, 0)
	for _, u := range r.users {
		if needle == "" || strings.Contains(strings.ToLower(u.Name), needle) {
			users = append(users, u)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(users, func(a, b domain.User) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

// Upsert inserts u or refreshes the name and role of an existing user.
func (r *UserRepo) Upsert(_ context.Context, u domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.users[u.ID]; ok {
		u.CreatedAt = prev.CreatedAt
	} else if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.users[u.ID] = u
	return &u, nil
}
