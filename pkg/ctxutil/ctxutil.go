package ctxutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

type ctxKey string

const (
	userIDKey    ctxKey = "user_id"
	userRoleKey  ctxKey = "user_role"
	requestIDKey ctxKey = "request_id"
)

// WithUserID stores the user ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx extracts the user ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithUserRole stores the user role in the context.
func WithUserRole(ctx context.Context, role domain.UserRole) context.Context {
	return context.WithValue(ctx, userRoleKey, role)
}

// UserRoleFromCtx extracts the user role from the context.
// Returns UserRoleUser when absent.
func UserRoleFromCtx(ctx context.Context) domain.UserRole {
	role, ok := ctx.Value(userRoleKey).(domain.UserRole)
	if !ok || !role.IsValid() {
		return domain.UserRoleUser
	}
	return role
}

// WithActor stores both the user ID and role in the context.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return WithUserRole(WithUserID(ctx, actor.ID), actor.Role)
}

// ActorFromCtx returns the acting user. ok is false for anonymous contexts.
func ActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	id, ok := UserIDFromCtx(ctx)
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: UserRoleFromCtx(ctx)}, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
