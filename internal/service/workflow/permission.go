package workflow

import (
	"slices"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// Capabilities is the set of actions an actor may take on a proposal in its
// current state. It is computed in one place and consumed by the transition
// table, the REST layer and any UI.
type Capabilities struct {
	CanSubmit          bool `json:"canSubmit"`
	CanActAsSuperior   bool `json:"canActAsSuperior"`
	CanActAsAdmin      bool `json:"canActAsAdmin"`
	CanAssignApprovers bool `json:"canAssignApprovers"`
	CanActAsApprover   bool `json:"canActAsApprover"`
	CanSendToRegistrar bool `json:"canSendToRegistrar"`
	CanActAsRegistrar  bool `json:"canActAsRegistrar"`
	CanResubmit        bool `json:"canResubmit"`
	CanEdit            bool `json:"canEdit"`

	// CanSeeApprovalDetails is a read permission: per-approver steps are
	// shown to administrators and registrars only.
	CanSeeApprovalDetails bool `json:"canSeeApprovalDetails"`
}

// relation answers whether the actor stands in the required relationship to
// the proposal, independent of its status.
type relation func(p *domain.Proposal, a domain.Actor) bool

func isCreator(p *domain.Proposal, a domain.Actor) bool { return a.ID == p.CreatedBy }

func isAssignee(p *domain.Proposal, a domain.Actor) bool { return a.ID == p.AssignedTo }

func isAdmin(_ *domain.Proposal, a domain.Actor) bool { return a.Role.IsAdmin() }

func isRegistrar(_ *domain.Proposal, a domain.Actor) bool { return a.Role.IsRegistrar() }

func isPendingApprover(p *domain.Proposal, a domain.Actor) bool { return p.IsPendingApprover(a.ID) }

// Evaluate computes the capability set of actor on p. It has no side effects
// and is safe for concurrent use.
func Evaluate(p *domain.Proposal, actor domain.Actor) Capabilities {
	s := p.Status
	return Capabilities{
		CanSubmit:        isCreator(p, actor) && s == domain.StatusDraft,
		CanActAsSuperior: isAssignee(p, actor) && s == domain.StatusPendingSuperior,
		CanActAsAdmin:    isAdmin(p, actor) && s == domain.StatusPendingAdmin,
		CanAssignApprovers: isAdmin(p, actor) && s == domain.StatusPendingApprovers &&
			(!p.ApproversAssigned || p.NeedsReassignment),
		// Both approver-stage guards are closed while NeedsReassignment is set,
		// so a stale pending approver cannot finish an invalidated round.
		CanActAsApprover: isPendingApprover(p, actor) && s == domain.StatusPendingApprovers &&
			!p.NeedsReassignment,
		CanSendToRegistrar: isAdmin(p, actor) && s == domain.StatusPendingApprovers &&
			p.ApproversAssigned && !p.NeedsReassignment && roundComplete(p),
		CanActAsRegistrar: isRegistrar(p, actor) && s == domain.StatusPendingRegistrar,
		CanResubmit:       isCreator(p, actor) && s == domain.StatusNeedsRevision,
		CanEdit: isCreator(p, actor) && slices.Contains([]domain.ProposalStatus{
			domain.StatusDraft, domain.StatusNeedsRevision, domain.StatusPendingSuperior,
		}, s),
		CanSeeApprovalDetails: isAdmin(p, actor) || isRegistrar(p, actor),
	}
}

// CanResubmit is the only resubmission eligibility check in the codebase.
// A REJECTED proposal is never resubmittable.
func CanResubmit(p *domain.Proposal, actor domain.Actor) bool {
	return Evaluate(p, actor).CanResubmit
}

// Allows reports whether actor may perform action on p in its current
// status.
func Allows(p *domain.Proposal, actor domain.Actor, action domain.Action) bool {
	return Check(p, actor, action) == nil
}

// Check explains a refusal with ErrTerminal, ErrInvalidTransition or
// ErrForbidden. It returns nil when the action is allowed.
func Check(p *domain.Proposal, actor domain.Actor, action domain.Action) error {
	_, err := resolve(p, actor, action)
	return err
}
