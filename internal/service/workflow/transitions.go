package workflow

import (
	"fmt"
	"time"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// payload carries the per-call data a transition effect may need.
type payload struct {
	actor     domain.Actor
	text      string
	approvers []domain.User
	edit      *domain.ProposalUpdateParams
	now       time.Time
}

// effect mutates a cloned proposal after its status has been set.
type effect func(p *domain.Proposal, in payload)

// transition is one row of the workflow table: from-state × action ×
// actor relation → to-state + effect. An empty to keeps the status.
type transition struct {
	from      domain.ProposalStatus
	to        domain.ProposalStatus
	actor     relation
	permitted func(Capabilities) bool
	effect    effect
}

var transitions = map[domain.Action][]transition{
	domain.ActionSubmit: {
		{from: domain.StatusDraft, to: domain.StatusPendingSuperior, actor: isCreator,
			permitted: func(c Capabilities) bool { return c.CanSubmit }},
	},
	domain.ActionApprove: {
		{from: domain.StatusPendingSuperior, to: domain.StatusPendingAdmin, actor: isAssignee,
			permitted: func(c Capabilities) bool { return c.CanActAsSuperior }},
		{from: domain.StatusPendingAdmin, to: domain.StatusPendingApprovers, actor: isAdmin,
			permitted: func(c Capabilities) bool { return c.CanActAsAdmin }},
	},
	domain.ActionReject: {
		{from: domain.StatusPendingSuperior, to: domain.StatusRejected, actor: isAssignee,
			permitted: func(c Capabilities) bool { return c.CanActAsSuperior }, effect: rejectEarly},
		{from: domain.StatusPendingAdmin, to: domain.StatusRejected, actor: isAdmin,
			permitted: func(c Capabilities) bool { return c.CanActAsAdmin }, effect: rejectEarly},
	},
	domain.ActionRequestRevision: {
		{from: domain.StatusPendingSuperior, to: domain.StatusNeedsRevision, actor: isAssignee,
			permitted: func(c Capabilities) bool { return c.CanActAsSuperior }, effect: recordReason},
		{from: domain.StatusPendingAdmin, to: domain.StatusNeedsRevision, actor: isAdmin,
			permitted: func(c Capabilities) bool { return c.CanActAsAdmin }, effect: recordReason},
	},
	domain.ActionResubmit: {
		{from: domain.StatusNeedsRevision, to: domain.StatusPendingSuperior, actor: isCreator,
			permitted: func(c Capabilities) bool { return c.CanResubmit }},
	},
	domain.ActionEdit: {
		{from: domain.StatusDraft, actor: isCreator,
			permitted: func(c Capabilities) bool { return c.CanEdit }, effect: applyEdit},
		{from: domain.StatusPendingSuperior, actor: isCreator,
			permitted: func(c Capabilities) bool { return c.CanEdit }, effect: applyEdit},
		{from: domain.StatusNeedsRevision, actor: isCreator,
			permitted: func(c Capabilities) bool { return c.CanEdit }, effect: applyEdit},
	},
	domain.ActionAssignApprovers: {
		{from: domain.StatusPendingApprovers, actor: isAdmin,
			permitted: func(c Capabilities) bool { return c.CanAssignApprovers }, effect: assignApprovers},
	},
	domain.ActionApproveAsApprover: {
		{from: domain.StatusPendingApprovers, actor: isPendingApprover,
			permitted: func(c Capabilities) bool { return c.CanActAsApprover },
			effect: approverResponse(domain.StepStatusApproved)},
	},
	domain.ActionRejectAsApprover: {
		{from: domain.StatusPendingApprovers, actor: isPendingApprover,
			permitted: func(c Capabilities) bool { return c.CanActAsApprover },
			effect: approverResponse(domain.StepStatusRejected)},
	},
	domain.ActionRequestRevisionAsApprover: {
		{from: domain.StatusPendingApprovers, to: domain.StatusNeedsRevision, actor: isPendingApprover,
			permitted: func(c Capabilities) bool { return c.CanActAsApprover }, effect: approverRevision},
	},
	domain.ActionAssignToRegistrar: {
		{from: domain.StatusPendingApprovers, to: domain.StatusPendingRegistrar, actor: isAdmin,
			permitted: func(c Capabilities) bool { return c.CanSendToRegistrar }},
	},
	domain.ActionApproveAsRegistrar: {
		{from: domain.StatusPendingRegistrar, to: domain.StatusApproved, actor: isRegistrar,
			permitted: func(c Capabilities) bool { return c.CanActAsRegistrar }},
	},
	domain.ActionRejectAsRegistrar: {
		{from: domain.StatusPendingRegistrar, to: domain.StatusRejected, actor: isRegistrar,
			permitted: func(c Capabilities) bool { return c.CanActAsRegistrar }, effect: rejectFinal},
	},
	domain.ActionRequestRevisionAsRegistrar: {
		{from: domain.StatusPendingRegistrar, to: domain.StatusNeedsRevision, actor: isRegistrar,
			permitted: func(c Capabilities) bool { return c.CanActAsRegistrar }, effect: registrarRevision},
	},
}

// resolve finds the table row for action in p's current status and checks
// it against the actor. Errors are ordered: terminal, status, relation,
// state precondition.
func resolve(p *domain.Proposal, actor domain.Actor, action domain.Action) (transition, error) {
	if p.IsTerminal() {
		return transition{}, fmt.Errorf("%s on %s proposal: %w", action, p.Status, domain.ErrTerminal)
	}

	var row *transition
	for i, t := range transitions[action] {
		if t.from == p.Status {
			row = &transitions[action][i]
			break
		}
	}
	if row == nil {
		return transition{}, fmt.Errorf("%s from %s: %w", action, p.Status, domain.ErrInvalidTransition)
	}

	if !row.actor(p, actor) {
		return transition{}, fmt.Errorf("%s by %s: %w", action, actor.ID, domain.ErrForbidden)
	}

	if !row.permitted(Evaluate(p, actor)) {
		return transition{}, fmt.Errorf("%s: precondition not met in %s: %w", action, p.Status, domain.ErrInvalidTransition)
	}

	return *row, nil
}

// apply runs the row against a clone of p and returns the new state.
func (t transition) apply(p *domain.Proposal, in payload) *domain.Proposal {
	next := p.Clone()
	if t.to != "" {
		next.Status = t.to
	}
	if t.effect != nil {
		t.effect(next, in)
	}
	next.UpdatedAt = in.now
	return next
}

// ---------------------------------------------------------------------------
// Effects
// ---------------------------------------------------------------------------

func recordReason(p *domain.Proposal, in payload) {
	p.RejectionReason = in.text
}

func rejectEarly(p *domain.Proposal, in payload) {
	p.RejectionReason = in.text
	p.RejectedByRegistrar = false
}

func rejectFinal(p *domain.Proposal, in payload) {
	p.RejectionReason = in.text
	p.RejectedByRegistrar = true
}

func registrarRevision(p *domain.Proposal, in payload) {
	p.RejectionReason = in.text
	p.NeedsReassignment = true
}

func assignApprovers(p *domain.Proposal, in payload) {
	StartRound(p, in.approvers)
}

func approverResponse(status domain.StepStatus) effect {
	return func(p *domain.Proposal, in payload) {
		Respond(p, in.actor.ID, status, in.text, in.now)
	}
}

// approverRevision invalidates the running round. Approvers who have not
// answered stay in the pending set so the barrier and progress keep
// describing that round; the next assignment replaces them.
func approverRevision(p *domain.Proposal, in payload) {
	Respond(p, in.actor.ID, domain.StepStatusResubmit, in.text, in.now)
	p.RejectionReason = in.text
	p.NeedsReassignment = true
}
