package workflow

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10000
	maxFieldLength       = 1000
	maxFieldValues       = 50
	maxReasonLength      = 2000

	defaultListLimit = 50
	maxListLimit     = 200
)

// CreateProposalInput holds the parameters for creating a draft proposal.
type CreateProposalInput struct {
	Title         string
	Description   string
	Type          domain.ProposalType
	Budget        *string
	Timeline      *string
	Justification *string
	Department    *string
	FieldValues   map[string]string
	AssignedTo    uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i CreateProposalInput) Validate() error {
	var errs []domain.FieldError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 200 characters"})
	}
	if len(i.Description) > maxDescriptionLength {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 10000 characters"})
	}
	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be BUDGET, TIMELINE or GENERIC"})
	}
	if i.AssignedTo == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "assigned_to", Message: "required"})
	}
	errs = append(errs, validateDetails(i.Budget, i.Timeline, i.Justification, i.Department, i.FieldValues)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateProposalInput holds the parameters for editing a proposal.
type UpdateProposalInput struct {
	ProposalID    uuid.UUID
	Title         *string
	Description   *string
	Type          *domain.ProposalType
	Budget        *string // nil = don't change; ptr("") = clear
	Timeline      *string
	Justification *string
	Department    *string
	FieldValues   map[string]string // nil = don't change
}

// Validate checks all fields and collects all errors.
func (i UpdateProposalInput) Validate() error {
	var errs []domain.FieldError

	if i.ProposalID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "proposal_id", Message: "required"})
	}
	if i.Title == nil && i.Description == nil && i.Type == nil && i.Budget == nil &&
		i.Timeline == nil && i.Justification == nil && i.Department == nil && i.FieldValues == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Title != nil {
		title := strings.TrimSpace(*i.Title)
		if title == "" {
			errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
		}
		if len(title) > maxTitleLength {
			errs = append(errs, domain.FieldError{Field: "title", Message: "max 200 characters"})
		}
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLength {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 10000 characters"})
	}
	if i.Type != nil && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be BUDGET, TIMELINE or GENERIC"})
	}
	errs = append(errs, validateDetails(i.Budget, i.Timeline, i.Justification, i.Department, i.FieldValues)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateDetails(budget, timeline, justification, department *string, fields map[string]string) []domain.FieldError {
	var errs []domain.FieldError
	for name, v := range map[string]*string{
		"budget":        budget,
		"timeline":      timeline,
		"justification": justification,
		"department":    department,
	} {
		if v != nil && len(*v) > maxFieldLength {
			errs = append(errs, domain.FieldError{Field: name, Message: "max 1000 characters"})
		}
	}
	if len(fields) > maxFieldValues {
		errs = append(errs, domain.FieldError{Field: "field_values", Message: "max 50 fields"})
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, domain.FieldError{Field: "field_values", Message: "field name required"})
		}
		if len(v) > maxFieldLength {
			errs = append(errs, domain.FieldError{Field: "field_values." + k, Message: "max 1000 characters"})
		}
	}
	return errs
}

// ProposalInput identifies the proposal for actions without a payload.
type ProposalInput struct {
	ProposalID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i ProposalInput) Validate() error {
	if i.ProposalID == uuid.Nil {
		return domain.NewValidationError("proposal_id", "required")
	}
	return nil
}

// CommentInput carries an optional comment with an approval.
type CommentInput struct {
	ProposalID uuid.UUID
	Comment    string
}

// Validate checks all fields and collects all errors.
func (i CommentInput) Validate() error {
	var errs []domain.FieldError
	if i.ProposalID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "proposal_id", Message: "required"})
	}
	if len(i.Comment) > maxReasonLength {
		errs = append(errs, domain.FieldError{Field: "comment", Message: "max 2000 characters"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ReasonInput carries the mandatory reason of a rejection or revision request.
type ReasonInput struct {
	ProposalID uuid.UUID
	Reason     string
}

// Validate checks all fields and collects all errors.
func (i ReasonInput) Validate() error {
	var errs []domain.FieldError
	if i.ProposalID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "proposal_id", Message: "required"})
	}
	reason := strings.TrimSpace(i.Reason)
	if reason == "" {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "required"})
	}
	if len(reason) > maxReasonLength {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "max 2000 characters"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// AssignApproversInput holds the approver set chosen by an administrator.
type AssignApproversInput struct {
	ProposalID uuid.UUID
	UserIDs    []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i AssignApproversInput) Validate() error {
	var errs []domain.FieldError
	if i.ProposalID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "proposal_id", Message: "required"})
	}
	if len(i.UserIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "user_ids", Message: "at least one approver required"})
	}
	seen := make(map[uuid.UUID]struct{}, len(i.UserIDs))
	for _, id := range i.UserIDs {
		if id == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "user_ids", Message: "invalid user id"})
			continue
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, domain.FieldError{Field: "user_ids", Message: "duplicate user id " + id.String()})
		}
		seen[id] = struct{}{}
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListProposalsInput holds filters for listing proposals.
type ListProposalsInput struct {
	Status          *domain.ProposalStatus
	CreatedBy       *uuid.UUID
	AssignedTo      *uuid.UUID
	PendingApprover *uuid.UUID
	Limit           int
	Offset          int
}

// Validate checks all fields and collects all errors.
func (i ListProposalsInput) Validate() error {
	var errs []domain.FieldError
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if i.Limit < 0 || i.Limit > maxListLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListUsersInput searches the user directory by name.
type ListUsersInput struct {
	Query string
	Limit int
}

// Validate checks all fields and collects all errors.
func (i ListUsersInput) Validate() error {
	if i.Limit < 0 || i.Limit > maxListLimit {
		return domain.NewValidationError("limit", "must be between 0 and 200")
	}
	return nil
}
