package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// TxManager runs workflow transitions in one database transaction: the
// proposal update and its history record commit together or not at all.
// A RunInTx call inside a RunInTx callback joins the outer transaction.
type TxManager struct {
	db   DB
	opts pgx.TxOptions
}

// TxOption configures a TxManager.
type TxOption func(*TxManager)

// WithIsolation sets the isolation level for transactions started by the
// manager. An empty level leaves the server default (read committed).
func WithIsolation(level pgx.TxIsoLevel) TxOption {
	return func(m *TxManager) { m.opts.IsoLevel = level }
}

// NewTxManager creates a new TxManager.
func NewTxManager(db DB, opts ...TxOption) *TxManager {
	m := &TxManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ParseIsolation maps a config value such as "repeatable read" to a pgx
// isolation level. The empty string means server default.
func ParseIsolation(s string) (pgx.TxIsoLevel, error) {
	switch lvl := pgx.TxIsoLevel(strings.ToLower(strings.TrimSpace(s))); lvl {
	case "", pgx.ReadCommitted, pgx.RepeatableRead, pgx.Serializable:
		return lvl, nil
	default:
		return "", fmt.Errorf("unsupported isolation level %q", s)
	}
}

// RunInTx executes fn within a database transaction. It commits when fn
// returns nil and rolls back on error or panic. A commit rejected with a
// serialization failure is reported as domain.ErrConflict.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected) {
			return fmt.Errorf("commit transaction: %w: %w", domain.ErrConflict, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
