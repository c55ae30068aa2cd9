package workflows

import (
	"fmt"
	"unicode/utf8"

	"tourism-portal/events-portal-backend/internal/status"
)

// Action is a canonical workflow action requested by an actor.
type Action string

const (
	ActionApproveInternal Action = "approve_internal"
	ActionRequestPublic   Action = "request_public"
	ActionApprovePublic   Action = "approve_public"
	ActionRequestChanges  Action = "request_changes"
	ActionReject          Action = "reject"
)

// Role is the actor role a transition is requested under.
type Role string

const (
	RoleEntityAdmin   Role = "entity_admin"
	RoleEntityStaff   Role = "entity_staff"
	RolePlatformAdmin Role = "platform_admin"
	RoleOrganizer     Role = "organizer"
	RolePublic        Role = "public"
)

// Minimum reason lengths for transitions that require evidence.
const (
	MinReasonRequestChanges = 20
	MinReasonReject         = 10
)

// InvalidTransitionError is returned when an action is not allowed from the
// current state, including any action against a locked state.
type InvalidTransitionError struct {
	From   status.Code
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %q is not allowed from status %q", e.Action, e.From)
}

// UnauthorizedError is returned when the actor role lacks the capability for
// the requested action.
type UnauthorizedError struct {
	Role   Role
	Action Action
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("role %q may not perform action %q", e.Role, e.Action)
}

// ReasonTooShortError is returned when a transition requires a reason and the
// supplied one is below the minimum length.
type ReasonTooShortError struct {
	Min    int
	Actual int
}

func (e *ReasonTooShortError) Error() string {
	return fmt.Sprintf("reason requires at least %d characters, got %d", e.Min, e.Actual)
}

type rule struct {
	next      status.Code
	minReason int
}

// StateMachine enforces event status transitions. All methods are pure and
// safe for concurrent use.
type StateMachine struct {
	rules        map[status.Code]map[Action]rule
	locked       map[status.Code]bool
	capabilities map[Role]map[Action]bool
}

// NewStateMachine creates the state machine with the fixed transition table.
func NewStateMachine() *StateMachine {
	workflowActions := map[Action]bool{
		ActionApproveInternal: true,
		ActionRequestPublic:   true,
		ActionApprovePublic:   true,
		ActionRequestChanges:  true,
		ActionReject:          true,
	}
	return &StateMachine{
		rules: map[status.Code]map[Action]rule{
			status.Draft: {
				ActionApproveInternal: {next: status.ApprovedInternal},
				ActionRequestChanges:  {next: status.RequiresChanges, minReason: MinReasonRequestChanges},
				ActionReject:          {next: status.Rejected, minReason: MinReasonReject},
			},
			status.ApprovedInternal: {
				ActionRequestPublic: {next: status.PendingPublicApproval},
			},
			status.PendingPublicApproval: {
				ActionApprovePublic:  {next: status.Published},
				ActionRequestChanges: {next: status.RequiresChanges, minReason: MinReasonRequestChanges},
				ActionReject:         {next: status.Rejected, minReason: MinReasonReject},
			},
			status.RequiresChanges: {
				ActionApproveInternal: {next: status.ApprovedInternal},
				ActionRequestChanges:  {next: status.RequiresChanges, minReason: MinReasonRequestChanges},
				ActionReject:          {next: status.Rejected, minReason: MinReasonReject},
			},
		},
		locked: map[status.Code]bool{
			status.Published: true,
			status.Rejected:  true,
			status.Cancelled: true,
		},
		capabilities: map[Role]map[Action]bool{
			RoleEntityAdmin:   workflowActions,
			RoleEntityStaff:   workflowActions,
			RolePlatformAdmin: workflowActions,
		},
	}
}

// Decide resolves the next status for (current, action, role). The reason is
// validated here so callers never re-derive minimum lengths.
func (sm *StateMachine) Decide(current status.Code, action Action, role Role, reason string) (status.Code, error) {
	if sm.locked[current] {
		return "", &InvalidTransitionError{From: current, Action: action}
	}
	if !sm.capabilities[role][action] {
		return "", &UnauthorizedError{Role: role, Action: action}
	}
	r, ok := sm.rules[current][action]
	if !ok {
		return "", &InvalidTransitionError{From: current, Action: action}
	}
	// Minimums are in characters, not bytes; accented reasons count correctly.
	if runes := utf8.RuneCountInString(reason); r.minReason > 0 && runes < r.minReason {
		return "", &ReasonTooShortError{Min: r.minReason, Actual: runes}
	}
	return r.next, nil
}

// AllowedActions returns the actions a role may take from the given status.
func (sm *StateMachine) AllowedActions(current status.Code, role Role) []Action {
	if sm.locked[current] {
		return nil
	}
	order := []Action{ActionApproveInternal, ActionRequestPublic, ActionApprovePublic, ActionRequestChanges, ActionReject}
	var actions []Action
	for _, a := range order {
		if _, ok := sm.rules[current][a]; ok && sm.capabilities[role][a] {
			actions = append(actions, a)
		}
	}
	return actions
}

// CanManageWorkflow reports whether a role participates in the approval
// workflow at all. Non-privileged roles only ever see published events.
func CanManageWorkflow(role Role) bool {
	switch role {
	case RoleEntityAdmin, RoleEntityStaff, RolePlatformAdmin:
		return true
	default:
		return false
	}
}

// ParseAction validates a wire-level action string.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionApproveInternal, ActionRequestPublic, ActionApprovePublic, ActionRequestChanges, ActionReject:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// ParseRole maps a wire-level role string to a canonical role. Unknown roles
// map to the public (non-privileged) role rather than failing.
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleEntityAdmin, RoleEntityStaff, RolePlatformAdmin, RoleOrganizer:
		return r
	default:
		return RolePublic
	}
}
