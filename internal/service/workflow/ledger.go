package workflow

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// The approval step ledger keeps one round of steps per approver assignment.
// Rounds are appended, never rewritten, so revision cycles keep their audit
// trail. Progress and the all-responded barrier are derived here only.

// CurrentSteps returns the steps of the proposal's current approver round.
func CurrentSteps(p *domain.Proposal) []domain.ApprovalStep {
	if p.ApprovalRound == 0 {
		return nil
	}
	var steps []domain.ApprovalStep
	for _, s := range p.ApprovalSteps {
		if s.Round == p.ApprovalRound {
			steps = append(steps, s)
		}
	}
	return steps
}

// Progress returns the share of current-round steps that are no longer
// pending, as a percentage in [0, 100]. It is 0 when no round exists.
func Progress(p *domain.Proposal) float64 {
	steps := CurrentSteps(p)
	if len(steps) == 0 {
		return 0
	}
	responded := 0
	for _, s := range steps {
		if s.Status != domain.StepStatusPending {
			responded++
		}
	}
	return float64(responded) / float64(len(steps)) * 100
}

// PendingApproverIDs returns the approvers who still owe a response in the
// current round.
func PendingApproverIDs(p *domain.Proposal) []uuid.UUID {
	return slices.Clone(p.PendingApprovers)
}

// AllResponded is the barrier gating the hand-off to the registrar.
func AllResponded(p *domain.Proposal) bool {
	return p.ApproversAssigned && len(p.PendingApprovers) == 0
}

func roundComplete(p *domain.Proposal) bool {
	for _, s := range CurrentSteps(p) {
		if s.Status == domain.StepStatusPending {
			return false
		}
	}
	return true
}

// StartRound commits a fresh approver set and appends one pending step per
// approver under a new round number.
func StartRound(p *domain.Proposal, approvers []domain.User) {
	p.ApprovalRound++
	ids := make([]uuid.UUID, len(approvers))
	for i, u := range approvers {
		ids[i] = u.ID
		p.ApprovalSteps = append(p.ApprovalSteps, domain.ApprovalStep{
			Round:    p.ApprovalRound,
			UserID:   u.ID,
			UserName: u.Name,
			UserRole: u.Role,
			Status:   domain.StepStatusPending,
		})
	}
	p.Approvers = ids
	p.PendingApprovers = slices.Clone(ids)
	p.ApproversAssigned = true
	p.NeedsReassignment = false
}

// Respond records an approver's answer on their current-round step and
// removes them from the pending set.
func Respond(p *domain.Proposal, userID uuid.UUID, status domain.StepStatus, comment string, now time.Time) {
	for i := range p.ApprovalSteps {
		s := &p.ApprovalSteps[i]
		if s.Round != p.ApprovalRound || s.UserID != userID {
			continue
		}
		s.Status = status
		s.Comment = comment
		respondedAt := now
		s.RespondedAt = &respondedAt
		break
	}
	p.PendingApprovers = slices.DeleteFunc(p.PendingApprovers, func(id uuid.UUID) bool {
		return id == userID
	})
}
