package rest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/internal/service/workflow"
	"github.com/heartmarshall/proposalflow-backend/internal/transport/dataloader"
)

type createProposalRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Type          string            `json:"type"`
	Budget        *string           `json:"budget"`
	Timeline      *string           `json:"timeline"`
	Justification *string           `json:"justification"`
	Department    *string           `json:"department"`
	FieldValues   map[string]string `json:"fieldValues"`
	AssignedTo    uuid.UUID         `json:"assignedTo"`
}

type updateProposalRequest struct {
	Title         *string           `json:"title"`
	Description   *string           `json:"description"`
	Type          *string           `json:"type"`
	Budget        *string           `json:"budget"`
	Timeline      *string           `json:"timeline"`
	Justification *string           `json:"justification"`
	Department    *string           `json:"department"`
	FieldValues   map[string]string `json:"fieldValues"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type assignApproversRequest struct {
	UserIDs []uuid.UUID `json:"userIds"`
}

type userRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type stepResponse struct {
	Round       int        `json:"round"`
	UserID      string     `json:"userId"`
	UserName    string     `json:"userName"`
	UserRole    string     `json:"userRole"`
	Status      string     `json:"status"`
	Comment     string     `json:"comment,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

type proposalResponse struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	Status              string            `json:"status"`
	Type                string            `json:"type"`
	Budget              *string           `json:"budget,omitempty"`
	Timeline            *string           `json:"timeline,omitempty"`
	Justification       *string           `json:"justification,omitempty"`
	Department          *string           `json:"department,omitempty"`
	FieldValues         map[string]string `json:"fieldValues"`
	CreatedBy           userRef           `json:"createdBy"`
	AssignedTo          userRef           `json:"assignedTo"`
	Approvers           []userRef         `json:"approvers"`
	PendingApprovers    []userRef         `json:"pendingApprovers"`
	ApproversAssigned   bool              `json:"approversAssigned"`
	NeedsReassignment   bool              `json:"needsReassignment"`
	ApprovalRound       int               `json:"approvalRound"`
	ApprovalSteps       []stepResponse    `json:"approvalSteps,omitempty"`
	RejectionReason     string            `json:"rejectionReason,omitempty"`
	RejectedByRegistrar bool              `json:"rejectedByRegistrar"`
	Version             int64             `json:"version"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

type progressResponse struct {
	ProposalID         string                `json:"proposalId"`
	Status             string                `json:"status"`
	Progress           float64               `json:"progress"`
	PendingApproverIDs []string              `json:"pendingApproverIds"`
	AllResponded       bool                  `json:"allResponded"`
	CanResubmit        bool                  `json:"canResubmit"`
	Capabilities       workflow.Capabilities `json:"capabilities"`
	Steps              []stepResponse        `json:"steps,omitempty"`
}

type transitionResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId,omitempty"`
	ActorRole  string    `json:"actorRole"`
	Action     string    `json:"action"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type userResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// renderProposals converts proposals to responses. Approver names are
// resolved through the request's UserByID loader so a page of proposals
// costs one directory query. Steps are included only when the actor may see
// approval details.
func renderProposals(ctx context.Context, actor domain.Actor, ps []*domain.Proposal) ([]proposalResponse, error) {
	var ids []uuid.UUID
	for _, p := range ps {
		ids = append(ids, p.Approvers...)
	}
	names, err := dataloader.FromContext(ctx).UserNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]proposalResponse, len(ps))
	for i, p := range ps {
		out[i] = toProposalResponse(p, names, workflow.Evaluate(p, actor).CanSeeApprovalDetails)
	}
	return out, nil
}

func toProposalResponse(p *domain.Proposal, names map[uuid.UUID]string, withSteps bool) proposalResponse {
	refs := func(ids []uuid.UUID) []userRef {
		out := make([]userRef, len(ids))
		for i, id := range ids {
			out[i] = userRef{ID: id.String(), Name: names[id]}
		}
		return out
	}

	fields := p.FieldValues
	if fields == nil {
		fields = map[string]string{}
	}

	resp := proposalResponse{
		ID:                  p.ID.String(),
		Title:               p.Title,
		Description:         p.Description,
		Status:              p.Status.String(),
		Type:                p.Type.String(),
		Budget:              p.Budget,
		Timeline:            p.Timeline,
		Justification:       p.Justification,
		Department:          p.Department,
		FieldValues:         fields,
		CreatedBy:           userRef{ID: p.CreatedBy.String(), Name: p.CreatedByName},
		AssignedTo:          userRef{ID: p.AssignedTo.String(), Name: p.AssignedToName},
		Approvers:           refs(p.Approvers),
		PendingApprovers:    refs(p.PendingApprovers),
		ApproversAssigned:   p.ApproversAssigned,
		NeedsReassignment:   p.NeedsReassignment,
		ApprovalRound:       p.ApprovalRound,
		RejectionReason:     p.RejectionReason,
		RejectedByRegistrar: p.RejectedByRegistrar,
		Version:             p.Version,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if withSteps {
		resp.ApprovalSteps = toStepResponses(p.ApprovalSteps)
	}
	return resp
}

func toStepResponses(steps []domain.ApprovalStep) []stepResponse {
	out := make([]stepResponse, len(steps))
	for i, s := range steps {
		out[i] = stepResponse{
			Round:       s.Round,
			UserID:      s.UserID.String(),
			UserName:    s.UserName,
			UserRole:    s.UserRole.String(),
			Status:      s.Status.String(),
			Comment:     s.Comment,
			RespondedAt: s.RespondedAt,
		}
	}
	return out
}

func toProgressResponse(r *workflow.ProgressReport) progressResponse {
	pending := make([]string, len(r.PendingApproverIDs))
	for i, id := range r.PendingApproverIDs {
		pending[i] = id.String()
	}
	return progressResponse{
		ProposalID:         r.ProposalID.String(),
		Status:             r.Status.String(),
		Progress:           r.Progress,
		PendingApproverIDs: pending,
		AllResponded:       r.AllResponded,
		CanResubmit:        r.CanResubmit,
		Capabilities:       r.Capabilities,
		Steps:              toStepResponses(r.Steps),
	}
}

func toTransitionResponse(rec domain.TransitionRecord) transitionResponse {
	var actorID string
	if rec.ActorID != uuid.Nil {
		actorID = rec.ActorID.String()
	}
	return transitionResponse{
		ID:         rec.ID.String(),
		ActorID:    actorID,
		ActorRole:  rec.ActorRole.String(),
		Action:     rec.Action.String(),
		FromStatus: rec.FromStatus.String(),
		ToStatus:   rec.ToStatus.String(),
		Comment:    rec.Comment,
		CreatedAt:  rec.CreatedAt,
	}
}
