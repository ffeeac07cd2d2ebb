package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an entry of the user directory. Names and roles are copied onto
// proposals and approval steps when they are assigned.
type User struct {
	ID        uuid.UUID
	Name      string
	Role      UserRole
	CreatedAt time.Time
}

// Actor is the identity invoking a workflow action.
type Actor struct {
	ID   uuid.UUID
	Role UserRole
}
