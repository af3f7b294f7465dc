// Package authz holds the single rule table deciding which actor may perform
// which workflow transition. The guard is a pure function: no I/O, no clock,
// no database. Callers pass the freshly-read entity state and any ownership
// facts the guard cannot derive itself.
package authz

import (
	"fmt"

	"fintrack/internal/model"
)

// Action identifies one guarded workflow transition.
type Action string

const (
	ExpenseSubmit   Action = "expense.submit"
	ExpenseReview   Action = "expense.review"
	ExpenseApprove  Action = "expense.approve"
	ExpenseReject   Action = "expense.reject"
	ExpenseMarkPaid Action = "expense.mark_paid"
	ExpenseUpdate   Action = "expense.update"
	ExpenseDelete   Action = "expense.delete"

	POSubmit   Action = "purchase_order.submit"
	POApprove  Action = "purchase_order.approve"
	POReject   Action = "purchase_order.reject"
	POReceive  Action = "purchase_order.receive"
	POComplete Action = "purchase_order.complete"
	POCancel   Action = "purchase_order.cancel"
	POLink     Action = "purchase_order.link_expense"
)

// Facts carries ownership information the guard cannot derive from role and
// state alone.
type Facts struct {
	IsOwner bool // actor is the expense submitter / PO creator
}

type rule struct {
	fromStates    []string // allowed current states; nil with notFromStates set means "any state except"
	notFromStates []string
	roles         []string // allowed roles; nil means any authenticated role
	ownerOnly     bool
}

var rules = map[Action]rule{
	ExpenseSubmit:   {fromStates: []string{model.ExpenseStatusDraft, model.ExpenseStatusRejected}, ownerOnly: true},
	ExpenseReview:   {fromStates: []string{model.ExpenseStatusSubmitted}, roles: []string{model.RoleFinanceOfficer}},
	ExpenseApprove:  {fromStates: []string{model.ExpenseStatusUnderReview}, roles: []string{model.RoleProgramsManager}},
	ExpenseReject:   {fromStates: []string{model.ExpenseStatusUnderReview}, roles: []string{model.RoleProgramsManager}},
	ExpenseMarkPaid: {fromStates: []string{model.ExpenseStatusApproved}, roles: []string{model.RoleFinanceOfficer}},
	ExpenseUpdate:   {fromStates: []string{model.ExpenseStatusDraft, model.ExpenseStatusRejected}, ownerOnly: true},
	ExpenseDelete:   {fromStates: []string{model.ExpenseStatusDraft}, ownerOnly: true},

	POSubmit:   {fromStates: []string{model.POStatusDraft}, ownerOnly: true},
	POApprove:  {fromStates: []string{model.POStatusPending}, roles: []string{model.RoleProgramsManager}},
	POReject:   {fromStates: []string{model.POStatusPending}, roles: []string{model.RoleProgramsManager}},
	POReceive:  {fromStates: []string{model.POStatusApproved, model.POStatusPartiallyReceived}, roles: []string{model.RoleFinanceOfficer}},
	POComplete: {fromStates: []string{model.POStatusReceived}, roles: []string{model.RoleFinanceOfficer}},
	POCancel:   {notFromStates: []string{model.POStatusCompleted, model.POStatusCancelled}, roles: []string{model.RoleFinanceOfficer, model.RoleProgramsManager}},
	POLink:     {fromStates: []string{model.POStatusApproved, model.POStatusCompleted}, roles: []string{model.RoleFinanceOfficer, model.RoleProgramsManager}},
}

// CanTransition decides whether an actor with the given role may perform the
// action from the entity's current state. The state check runs first: an
// undefined transition yields ErrInvalidState even for a fully privileged
// actor. Role and ownership failures yield ErrForbidden. A nil return means
// the transition is allowed.
func CanTransition(role string, action Action, currentState string, facts Facts) error {
	r, ok := rules[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", model.ErrInvalidState, action)
	}

	if !stateAllowed(r, currentState) {
		return fmt.Errorf("%w: cannot %s from %s", model.ErrInvalidState, action, currentState)
	}

	if r.ownerOnly && !facts.IsOwner {
		return fmt.Errorf("%w: %s is restricted to the owner", model.ErrForbidden, action)
	}

	if len(r.roles) > 0 && !contains(r.roles, role) {
		return fmt.Errorf("%w: role %s may not %s", model.ErrForbidden, role, action)
	}

	return nil
}

func stateAllowed(r rule, state string) bool {
	if len(r.notFromStates) > 0 {
		return !contains(r.notFromStates, state)
	}
	return contains(r.fromStates, state)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
