package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/internal/service/workflow"
	"github.com/heartmarshall/proposalflow-backend/pkg/ctxutil"
)

type workflowService interface {
	CreateProposal(ctx context.Context, input workflow.CreateProposalInput) (*domain.Proposal, error)
	UpdateProposal(ctx context.Context, input workflow.UpdateProposalInput) (*domain.Proposal, error)
	GetProposal(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)
	ListProposals(ctx context.Context, input workflow.ListProposalsInput) ([]*domain.Proposal, error)
	History(ctx context.Context, id uuid.UUID) ([]domain.TransitionRecord, error)
	Report(ctx context.Context, id uuid.UUID) (*workflow.ProgressReport, error)

	Submit(ctx context.Context, input workflow.ProposalInput) (*domain.Proposal, error)
	Approve(ctx context.Context, input workflow.CommentInput) (*domain.Proposal, error)
	Reject(ctx context.Context, input workflow.ReasonInput) (*domain.Proposal, error)
	RequestRevision(ctx context.Context, input workflow.ReasonInput) (*domain.Proposal, error)
	Resubmit(ctx context.Context, input workflow.ProposalInput) (*domain.Proposal, error)
	AssignApprovers(ctx context.Context, input workflow.AssignApproversInput) (*domain.Proposal, error)
	ApproveAsApprover(ctx context.Context, input workflow.CommentInput) (*domain.Proposal, error)
	RejectAsApprover(ctx context.Context, input workflow.ReasonInput) (*domain.Proposal, error)
	RequestRevisionAsApprover(ctx context.Context, input workflow.ReasonInput) (*domain.Proposal, error)
	AssignToRegistrar(ctx context.Context, input workflow.ProposalInput) (*domain.Proposal, error)
	ApproveAsRegistrar(ctx context.Context, input workflow.CommentInput) (*domain.Proposal, error)
	RejectAsRegistrar(ctx context.Context, input workflow.ReasonInput) (*domain.Proposal, error)
	RequestRevisionAsRegistrar(ctx context.Context, input workflow.ReasonInput) (*domain.Proposal, error)
}

// ProposalHandler serves the proposal REST endpoints.
type ProposalHandler struct {
	svc workflowService
	log *slog.Logger
}

// NewProposalHandler creates a ProposalHandler.
func NewProposalHandler(svc workflowService, logger *slog.Logger) *ProposalHandler {
	return &ProposalHandler{svc: svc, log: logger.With("handler", "proposal")}
}

// Register mounts the proposal routes on mux.
func (h *ProposalHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /proposals", h.Create)
	mux.HandleFunc("GET /proposals", h.List)
	mux.HandleFunc("GET /proposals/{id}", h.Get)
	mux.HandleFunc("PATCH /proposals/{id}", h.Update)
	mux.HandleFunc("GET /proposals/{id}/history", h.History)
	mux.HandleFunc("GET /proposals/{id}/progress", h.Progress)

	mux.HandleFunc("POST /proposals/{id}/submit", h.bare(h.svc.Submit))
	mux.HandleFunc("POST /proposals/{id}/approve", h.comment(h.svc.Approve))
	mux.HandleFunc("POST /proposals/{id}/reject", h.reason(h.svc.Reject))
	mux.HandleFunc("POST /proposals/{id}/request-revision", h.reason(h.svc.RequestRevision))
	mux.HandleFunc("POST /proposals/{id}/resubmit", h.bare(h.svc.Resubmit))
	mux.HandleFunc("POST /proposals/{id}/assign-approvers", h.AssignApprovers)
	mux.HandleFunc("POST /proposals/{id}/approver/approve", h.comment(h.svc.ApproveAsApprover))
	mux.HandleFunc("POST /proposals/{id}/approver/reject", h.reason(h.svc.RejectAsApprover))
	mux.HandleFunc("POST /proposals/{id}/approver/request-revision", h.reason(h.svc.RequestRevisionAsApprover))
	mux.HandleFunc("POST /proposals/{id}/send-to-registrar", h.bare(h.svc.AssignToRegistrar))
	mux.HandleFunc("POST /proposals/{id}/registrar/approve", h.comment(h.svc.ApproveAsRegistrar))
	mux.HandleFunc("POST /proposals/{id}/registrar/reject", h.reason(h.svc.RejectAsRegistrar))
	mux.HandleFunc("POST /proposals/{id}/registrar/request-revision", h.reason(h.svc.RequestRevisionAsRegistrar))
}

// Create handles POST /proposals.
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProposalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.svc.CreateProposal(r.Context(), workflow.CreateProposalInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          domain.ProposalType(req.Type),
		Budget:        req.Budget,
		Timeline:      req.Timeline,
		Justification: req.Justification,
		Department:    req.Department,
		FieldValues:   req.FieldValues,
		AssignedTo:    req.AssignedTo,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.writeProposal(w, r, http.StatusCreated, p)
}

// Update handles PATCH /proposals/{id}.
func (h *ProposalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateProposalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := workflow.UpdateProposalInput{
		ProposalID:    id,
		Title:         req.Title,
		Description:   req.Description,
		Budget:        req.Budget,
		Timeline:      req.Timeline,
		Justification: req.Justification,
		Department:    req.Department,
		FieldValues:   req.FieldValues,
	}
	if req.Type != nil {
		t := domain.ProposalType(*req.Type)
		input.Type = &t
	}

	p, err := h.svc.UpdateProposal(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.writeProposal(w, r, http.StatusOK, p)
}

// Get handles GET /proposals/{id}.
func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.GetProposal(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.writeProposal(w, r, http.StatusOK, p)
}

// List handles GET /proposals?status=&createdBy=&assignedTo=&pendingApprover=&limit=&offset=.
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		input workflow.ListProposalsInput
		errs  []domain.FieldError
	)

	if v := q.Get("status"); v != "" {
		s := domain.ProposalStatus(v)
		input.Status = &s
	}
	for name, dst := range map[string]**uuid.UUID{
		"createdBy":       &input.CreatedBy,
		"assignedTo":      &input.AssignedTo,
		"pendingApprover": &input.PendingApprover,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		id, err := uuid.Parse(v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: name, Message: "invalid uuid"})
			continue
		}
		*dst = &id
	}
	for name, dst := range map[string]*int{"limit": &input.Limit, "offset": &input.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: name, Message: "must be an integer"})
			continue
		}
		*dst = n
	}
	if len(errs) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(errs))
		return
	}

	proposals, err := h.svc.ListProposals(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	actor, _ := ctxutil.ActorFromCtx(r.Context())
	resp, err := renderProposals(r.Context(), actor, proposals)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /proposals/{id}/history.
func (h *ProposalHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	records, err := h.svc.History(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]transitionResponse, len(records))
	for i, rec := range records {
		resp[i] = toTransitionResponse(rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Progress handles GET /proposals/{id}/progress.
func (h *ProposalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Report(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(report))
}

// AssignApprovers handles POST /proposals/{id}/assign-approvers.
func (h *ProposalHandler) AssignApprovers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req assignApproversRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.svc.AssignApprovers(r.Context(), workflow.AssignApproversInput{ProposalID: id, UserIDs: req.UserIDs})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.writeProposal(w, r, http.StatusOK, p)
}

type actionFunc[I any] func(ctx context.Context, input I) (*domain.Proposal, error)

// bare adapts an action that takes no payload.
func (h *ProposalHandler) bare(fn actionFunc[workflow.ProposalInput]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		h.respond(w, r, func() (*domain.Proposal, error) {
			return fn(r.Context(), workflow.ProposalInput{ProposalID: id})
		})
	}
}

// comment adapts an action with an optional comment. An empty body is
// accepted.
func (h *ProposalHandler) comment(fn actionFunc[workflow.CommentInput]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req commentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		h.respond(w, r, func() (*domain.Proposal, error) {
			return fn(r.Context(), workflow.CommentInput{ProposalID: id, Comment: req.Comment})
		})
	}
}

// reason adapts an action whose reason is mandatory.
func (h *ProposalHandler) reason(fn actionFunc[workflow.ReasonInput]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req reasonRequest
		if !decodeBody(w, r, &req) {
			return
		}
		h.respond(w, r, func() (*domain.Proposal, error) {
			return fn(r.Context(), workflow.ReasonInput{ProposalID: id, Reason: req.Reason})
		})
	}
}

func (h *ProposalHandler) respond(w http.ResponseWriter, r *http.Request, call func() (*domain.Proposal, error)) {
	p, err := call()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.writeProposal(w, r, http.StatusOK, p)
}

func (h *ProposalHandler) writeProposal(w http.ResponseWriter, r *http.Request, status int, p *domain.Proposal) {
	actor, _ := ctxutil.ActorFromCtx(r.Context())
	resp, err := renderProposals(r.Context(), actor, []*domain.Proposal{p})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, status, resp[0])
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Code:   domain.CodeValidation,
			Fields: []fieldErrorResponse{{Field: "id", Message: "invalid uuid"}},
		})
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody reads a JSON body into dst. An empty body, with or without a
// Content-Length, leaves dst zero; validation then decides.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid request body")
		return false
	}
	return true
}
