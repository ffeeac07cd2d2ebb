package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/internal/service/workflow"
)

type userDirectory interface {
	ListUsers(ctx context.Context, input workflow.ListUsersInput) ([]domain.User, error)
}

// UserHandler serves the user directory used to pick approvers.
type UserHandler struct {
	svc userDirectory
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userDirectory, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "user")}
}

// Register mounts the user routes on mux.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", h.Search)
}

// Search handles GET /users?q=&limit=.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	input := workflow.ListUsersInput{Query: r.URL.Query().Get("q")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be an integer"))
			return
		}
		input.Limit = n
	}

	users, err := h.svc.ListUsers(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = userResponse{ID: u.ID.String(), Name: u.Name, Role: u.Role.String()}
	}
	writeJSON(w, http.StatusOK, resp)
}
