package status

import "fmt"

// Code identifies a workflow status.
type Code string

const (
	Draft                   Code = "draft"
	PendingInternalApproval Code = "pending_internal_approval"
	ApprovedInternal        Code = "approved_internal"
	PendingPublicApproval   Code = "pending_public_approval"
	Published               Code = "published"
	RequiresChanges         Code = "requires_changes"
	Rejected                Code = "rejected"
	Cancelled               Code = "cancelled"
)

// EventStatus describes one workflow state an event can hold.
type EventStatus struct {
	Code          Code   `json:"code"`
	DisplayName   string `json:"display_name"`
	IsPublic      bool   `json:"is_public"`
	WorkflowOrder *int   `json:"workflow_order,omitempty"` // nil for exception/terminal states
	Terminal      bool   `json:"terminal"`
}

// UnknownStatusError is returned when a code outside the registry is referenced.
type UnknownStatusError struct {
	Code Code
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status %q", e.Code)
}

// Registry is the fixed catalog of workflow statuses. Loaded once at startup,
// never mutated afterwards.
type Registry struct {
	ordered []EventStatus
	byCode  map[Code]EventStatus
}

func order(n int) *int { return &n }

// NewRegistry creates the registry with the fixed seed of workflow states.
func NewRegistry() *Registry {
	statuses := []EventStatus{
		{Code: Draft, DisplayName: "Draft", WorkflowOrder: order(1)},
		{Code: PendingInternalApproval, DisplayName: "Pending Internal Approval", WorkflowOrder: order(2)},
		{Code: ApprovedInternal, DisplayName: "Approved Internally", WorkflowOrder: order(3)},
		{Code: PendingPublicApproval, DisplayName: "Pending Public Approval", WorkflowOrder: order(4)},
		{Code: Published, DisplayName: "Published", IsPublic: true, WorkflowOrder: order(5)},
		{Code: RequiresChanges, DisplayName: "Requires Changes"},
		{Code: Rejected, DisplayName: "Rejected", Terminal: true},
		{Code: Cancelled, DisplayName: "Cancelled", Terminal: true},
	}

	byCode := make(map[Code]EventStatus, len(statuses))
	for _, s := range statuses {
		byCode[s.Code] = s
	}
	return &Registry{ordered: statuses, byCode: byCode}
}

// ByCode returns the status for a code.
func (r *Registry) ByCode(code Code) (EventStatus, error) {
	s, ok := r.byCode[code]
	if !ok {
		return EventStatus{}, &UnknownStatusError{Code: code}
	}
	return s, nil
}

// All returns the catalog in workflow order, exception and terminal states last.
func (r *Registry) All() []EventStatus {
	out := make([]EventStatus, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// IsTerminal reports whether a code names a terminal state. Unknown codes are
// not terminal.
func (r *Registry) IsTerminal(code Code) bool {
	s, ok := r.byCode[code]
	return ok && s.Terminal
}
