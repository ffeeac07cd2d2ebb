package memory

import (
	"context"
	"sync"
)

// undoLog collects compensations for writes made inside one RunInTx call.
type undoLog struct {
	mu  sync.Mutex
	fns []func()
}

type undoCtxKey struct{}

func (l *undoLog) add(fn func()) {
	l.mu.Lock()
	l.fns = append(l.fns, fn)
	l.mu.Unlock()
}

func (l *undoLog) rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.fns) - 1; i >= 0; i-- {
		l.fns[i]()
	}
	l.fns = nil
}

// onRollback registers fn to run if the surrounding transaction fails.
// Outside a transaction writes are final and fn is dropped.
func onRollback(ctx context.Context, fn func()) {
	if l, ok := ctx.Value(undoCtxKey{}).(*undoLog); ok {
		l.add(fn)
	}
}

// TxManager gives the in-memory repositories all-or-nothing semantics.
// Writes apply immediately and are compensated in reverse order when fn
// fails or panics. Transactions are not isolated from each other; proposal
// updates rely on the version check instead.
type TxManager struct{}

// NewTxManager creates a new TxManager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

// RunInTx executes fn and undoes its writes on error or panic.
// A nested call joins the outer transaction.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(undoCtxKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	log := &undoLog{}
	txCtx := context.WithValue(ctx, undoCtxKey{}, log)

	defer func() {
		if p := recover(); p != nil {
			log.rollback()
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		log.rollback()
		return err
	}
	return nil
}
