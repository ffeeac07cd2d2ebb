package dataloader

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

func usersBatch(repo userRepo) dataloader.BatchFunc[uuid.UUID, *domain.User] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.User] {
		results := make([]*dataloader.Result[*domain.User], len(keys))

		rows, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*domain.User]{Error: err}
			}
			return results
		}

		byID := make(map[uuid.UUID]*domain.User, len(rows))
		for i := range rows {
			byID[rows[i].ID] = &rows[i]
		}
		for i, key := range keys {
			results[i] = &dataloader.Result[*domain.User]{Data: byID[key]}
		}
		return results
	}
}

// UserNames resolves display names for ids through the request cache.
// Ids unknown to the directory are absent from the result.
func (l *Loaders) UserNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	keys := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			keys = append(keys, id)
		}
	}

	users, errs := l.UserByID.LoadMany(ctx, keys)()
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		if u != nil {
			names[u.ID] = u.Name
		}
	}
	return names, nil
}
