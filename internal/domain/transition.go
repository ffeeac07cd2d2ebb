package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransitionRecord is an append-only audit note written for every successful
// workflow action.
type TransitionRecord struct {
	ID         uuid.UUID
	ProposalID uuid.UUID
	ActorID    uuid.UUID
	ActorRole  UserRole
	Action     Action
	FromStatus ProposalStatus
	ToStatus   ProposalStatus
	Comment    string
	CreatedAt  time.Time
}
