package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Proposal is a document routed through the approval pipeline. It is owned
// by the workflow service once created and is never deleted.
type Proposal struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      ProposalStatus
	Type        ProposalType

	// Optional descriptive fields; which ones apply depends on Type.
	Budget        *string
	Timeline      *string
	Justification *string
	Department    *string
	FieldValues   map[string]string

	CreatedBy      uuid.UUID
	CreatedByName  string
	AssignedTo     uuid.UUID
	AssignedToName string

	Approvers         []uuid.UUID
	PendingApprovers  []uuid.UUID
	ApproversAssigned bool
	NeedsReassignment bool
	ApprovalRound     int
	ApprovalSteps     []ApprovalStep

	RejectionReason     string
	RejectedByRegistrar bool

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApprovalStep is one approver's response record within a round.
type ApprovalStep struct {
	Round       int
	UserID      uuid.UUID
	UserName    string
	UserRole    UserRole
	Status      StepStatus
	Comment     string
	RespondedAt *time.Time
}

// IsTerminal reports whether the proposal is in an absorbing state.
// An early-stage rejection is final by policy but is not terminal in this
// sense: it simply has no outgoing transitions.
func (p *Proposal) IsTerminal() bool {
	return p.Status == StatusApproved ||
		(p.Status == StatusRejected && p.RejectedByRegistrar)
}

// IsPendingApprover reports whether userID still owes a response in the
// current approver round.
func (p *Proposal) IsPendingApprover(userID uuid.UUID) bool {
	return slices.Contains(p.PendingApprovers, userID)
}

// Clone returns a deep copy so a transition can be applied without touching
// the loaded record until it is persisted.
func (p *Proposal) Clone() *Proposal {
	c := *p
	c.Budget = clonePtr(p.Budget)
	c.Timeline = clonePtr(p.Timeline)
	c.Justification = clonePtr(p.Justification)
	c.Department = clonePtr(p.Department)
	c.FieldValues = maps.Clone(p.FieldValues)
	c.Approvers = slices.Clone(p.Approvers)
	c.PendingApprovers = slices.Clone(p.PendingApprovers)
	c.ApprovalSteps = make([]ApprovalStep, len(p.ApprovalSteps))
	for i, s := range p.ApprovalSteps {
		s.RespondedAt = clonePtr(s.RespondedAt)
		c.ApprovalSteps[i] = s
	}
	return &c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// ProposalUpdateParams holds the editable descriptive fields of a proposal.
// A nil field is left unchanged.
type ProposalUpdateParams struct {
	Title         *string
	Description   *string
	Type          *ProposalType
	Budget        *string
	Timeline      *string
	Justification *string
	Department    *string
	FieldValues   map[string]string
}

// ProposalFilter narrows ListProposals. Zero values mean "no filter".
type ProposalFilter struct {
	Status          *ProposalStatus
	CreatedBy       *uuid.UUID
	AssignedTo      *uuid.UUID
	PendingApprover *uuid.UUID
	Limit           int
	Offset          int
}
