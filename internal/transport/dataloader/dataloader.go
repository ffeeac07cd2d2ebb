// Package dataloader batches the directory lookups made while rendering a
// page of proposals: every approver name on the page is fetched with one
// GetByIDs call per request.
package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type userRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

type Repos struct {
	Users userRepo
}

// Loaders is built per request; its cache must not outlive one response,
// otherwise renamed directory users would show stale names.
type Loaders struct {
	// UserByID resolves to nil for ids missing from the directory.
	UserByID *dataloader.Loader[uuid.UUID, *domain.User]
}

func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		UserByID: dataloader.NewBatchedLoader(
			usersBatch(repos.Users),
			dataloader.WithWait[uuid.UUID, *domain.User](wait),
			dataloader.WithBatchCapacity[uuid.UUID, *domain.User](maxBatch),
		),
	}
}

type ctxKey struct{}

func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext panics when Middleware is not installed; that is a wiring
// bug, not a request error.
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(ctxKey{}).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is middleware configured?")
	}
	return l
}

// Middleware installs fresh Loaders on every request.
func Middleware(repos *Repos) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLoaders(r.Context(), NewLoaders(repos))))
		})
	}
}
