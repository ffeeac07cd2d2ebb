// Package workflow implements the proposal approval state machine: guarded
// transitions, approver rounds and the queries derived from them.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/config"
	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

type proposalRepo interface {
	Create(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	// Update persists p only if the stored version still equals p.Version
	// and returns domain.ErrConflict otherwise.
	Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error)
	List(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
}

type transitionLog interface {
	Append(ctx context.Context, record domain.TransitionRecord) error
	ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.TransitionRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type transitionObserver interface {
	ObserveTransition(action domain.Action, err error)
}

// Service is the workflow engine. It owns every mutation of a proposal.
type Service struct {
	proposals proposalRepo
	users     userRepo
	history   transitionLog
	tx        txManager
	metrics   transitionObserver
	cfg       config.WorkflowConfig
	log       *slog.Logger
	now       func() time.Time
}

// NewService creates a new workflow service.
func NewService(
	log *slog.Logger,
	proposals proposalRepo,
	users userRepo,
	history transitionLog,
	tx txManager,
	metrics transitionObserver,
	cfg config.WorkflowConfig,
) *Service {
	return &Service{
		proposals: proposals,
		users:     users,
		history:   history,
		tx:        tx,
		metrics:   metrics,
		cfg:       cfg,
		log:       log.With("service", "workflow"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}
