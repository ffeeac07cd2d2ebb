// Package memory provides in-process implementations of the proposal store,
// the user directory and the transition log. It backs the "memory" storage
// driver and the workflow tests.
package memory

import "context"

// Store bundles the in-memory repositories behind one driver.
type Store struct {
	Proposals   *ProposalRepo
	Users       *UserRepo
	Transitions *TransitionRepo
	Tx          *TxManager
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		Proposals:   NewProposalRepo(),
		Users:       NewUserRepo(),
		Transitions: NewTransitionRepo(),
		Tx:          NewTxManager(),
	}
}

// Ping always succeeds; it lets the store stand in for a database in
// readiness checks.
func (s *Store) Ping(context.Context) error {
	return nil
}
