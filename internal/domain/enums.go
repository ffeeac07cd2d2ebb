package domain

// ProposalStatus is the position of a proposal in the approval pipeline.
type ProposalStatus string

const (
	StatusDraft            ProposalStatus = "DRAFT"
	StatusPendingSuperior  ProposalStatus = "PENDING_SUPERIOR"
	StatusPendingAdmin     ProposalStatus = "PENDING_ADMIN"
	StatusPendingApprovers ProposalStatus = "PENDING_APPROVERS"
	StatusPendingRegistrar ProposalStatus = "PENDING_REGISTRAR"
	StatusApproved         ProposalStatus = "APPROVED"
	StatusRejected         ProposalStatus = "REJECTED"
	StatusNeedsRevision    ProposalStatus = "NEEDS_REVISION"
)

func (s ProposalStatus) String() string { return string(s) }

func (s ProposalStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingSuperior, StatusPendingAdmin, StatusPendingApprovers,
		StatusPendingRegistrar, StatusApproved, StatusRejected, StatusNeedsRevision:
		return true
	}
	return false
}

// ProposalType selects which optional descriptive fields apply.
type ProposalType string

const (
	ProposalTypeBudget   ProposalType = "BUDGET"
	ProposalTypeTimeline ProposalType = "TIMELINE"
	ProposalTypeGeneric  ProposalType = "GENERIC"
)

func (t ProposalType) String() string { return string(t) }

func (t ProposalType) IsValid() bool {
	switch t {
	case ProposalTypeBudget, ProposalTypeTimeline, ProposalTypeGeneric:
		return true
	}
	return false
}

// StepStatus is an individual approver's response within a round.
type StepStatus string

const (
	StepStatusPending  StepStatus = "pending"
	StepStatusApproved StepStatus = "approved"
	StepStatusRejected StepStatus = "rejected"
	StepStatusResubmit StepStatus = "resubmit"
)

func (s StepStatus) String() string { return string(s) }

func (s StepStatus) IsValid() bool {
	switch s {
	case StepStatusPending, StepStatusApproved, StepStatusRejected, StepStatusResubmit:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser      UserRole = "USER"
	UserRoleApprover  UserRole = "APPROVER"
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleRegistrar UserRole = "REGISTRAR"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleApprover, UserRoleAdmin, UserRoleRegistrar:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

func (r UserRole) IsRegistrar() bool {
	return r == UserRoleRegistrar
}

// Action names a workflow operation. Values double as transition-log and
// metrics labels.
type Action string

const (
	ActionCreate                     Action = "create"
	ActionEdit                       Action = "edit"
	ActionSubmit                     Action = "submit"
	ActionApprove                    Action = "approve"
	ActionReject                     Action = "reject"
	ActionRequestRevision            Action = "request_revision"
	ActionResubmit                   Action = "resubmit"
	ActionAssignApprovers            Action = "assign_approvers"
	ActionApproveAsApprover          Action = "approve_as_approver"
	ActionRejectAsApprover           Action = "reject_as_approver"
	ActionRequestRevisionAsApprover  Action = "request_revision_as_approver"
	ActionAssignToRegistrar          Action = "assign_to_registrar"
	ActionApproveAsRegistrar         Action = "approve_as_registrar"
	ActionRejectAsRegistrar          Action = "reject_as_registrar"
	ActionRequestRevisionAsRegistrar Action = "request_revision_as_registrar"
)

func (a Action) String() string { return string(a) }

// IsApproverAction reports whether a is an individual approver's response.
func (a Action) IsApproverAction() bool {
	switch a {
	case ActionApproveAsApprover, ActionRejectAsApprover, ActionRequestRevisionAsApprover:
		return true
	}
	return false
}
