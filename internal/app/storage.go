package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/adapter/memory"
	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres"
	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres/proposal"
	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/proposalflow-backend/internal/app/seeder"
	"github.com/heartmarshall/proposalflow-backend/internal/config"
	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

type proposalStore interface {
	Create(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error)
	List(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error)
}

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}

type transitionStore interface {
	Append(ctx context.Context, record domain.TransitionRecord) error
	ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.TransitionRecord, error)
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Storage bundles the repositories of the configured storage driver.
type Storage struct {
	Proposals proposalStore
	Users     userStore
	History   transitionStore
	Tx        txRunner
	Pinger    pinger

	close func()
}

// Close releases the underlying connections.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects the driver selected by cfg.Storage. With a seed file
// configured, its users are upserted before the store is returned.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	var st *Storage

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		isolation, err := postgres.ParseIsolation(cfg.Database.Isolation)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		st = &Storage{
			Proposals: proposal.New(pool),
			Users:     user.New(pool),
			History:   audit.New(pool),
			Tx:        postgres.NewTxManager(pool, postgres.WithIsolation(isolation)),
			Pinger:    pool,
			close:     pool.Close,
		}
	case config.StorageDriverMemory:
		store := memory.NewStore()
		st = &Storage{
			Proposals: store.Proposals,
			Users:     store.Users,
			History:   store.Transitions,
			Tx:        store.Tx,
			Pinger:    store,
		}
	default:
		return nil, fmt.Errorf("open storage: unknown driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.SeedFile != "" {
		users, err := seeder.LoadUsers(cfg.Storage.SeedFile)
		if err == nil {
			_, err = seeder.New(logger, st.Users, st.Tx, seeder.Config{}).Run(ctx, users)
		}
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}
	}

	return st, nil
}
