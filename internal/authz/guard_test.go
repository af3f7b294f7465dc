package authz

import (
	"testing"

	"fintrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionExpenseWorkflow(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		action  Action
		state   string
		facts   Facts
		wantErr error
	}{
		{"owner submits draft", model.RoleProjectOfficer, ExpenseSubmit, model.ExpenseStatusDraft, Facts{IsOwner: true}, nil},
		{"owner resubmits rejected", model.RoleProjectOfficer, ExpenseSubmit, model.ExpenseStatusRejected, Facts{IsOwner: true}, nil},
		{"non-owner cannot submit", model.RoleFinanceOfficer, ExpenseSubmit, model.ExpenseStatusDraft, Facts{}, model.ErrForbidden},
		{"cannot submit a submitted expense", model.RoleProjectOfficer, ExpenseSubmit, model.ExpenseStatusSubmitted, Facts{IsOwner: true}, model.ErrInvalidState},

		{"finance officer reviews", model.RoleFinanceOfficer, ExpenseReview, model.ExpenseStatusSubmitted, Facts{}, nil},
		{"project officer cannot review", model.RoleProjectOfficer, ExpenseReview, model.ExpenseStatusSubmitted, Facts{}, model.ErrForbidden},
		{"cannot review a draft", model.RoleFinanceOfficer, ExpenseReview, model.ExpenseStatusDraft, Facts{}, model.ErrInvalidState},

		{"programs manager approves", model.RoleProgramsManager, ExpenseApprove, model.ExpenseStatusUnderReview, Facts{}, nil},
		{"finance officer cannot approve", model.RoleFinanceOfficer, ExpenseApprove, model.ExpenseStatusUnderReview, Facts{}, model.ErrForbidden},
		{"cannot approve before review", model.RoleProgramsManager, ExpenseApprove, model.ExpenseStatusSubmitted, Facts{}, model.ErrInvalidState},
		{"cannot approve twice", model.RoleProgramsManager, ExpenseApprove, model.ExpenseStatusApproved, Facts{}, model.ErrInvalidState},

		{"programs manager rejects", model.RoleProgramsManager, ExpenseReject, model.ExpenseStatusUnderReview, Facts{}, nil},
		{"auditor cannot reject", model.RoleAuditor, ExpenseReject, model.ExpenseStatusUnderReview, Facts{}, model.ErrForbidden},

		{"finance officer marks paid", model.RoleFinanceOfficer, ExpenseMarkPaid, model.ExpenseStatusApproved, Facts{}, nil},
		{"programs manager cannot mark paid", model.RoleProgramsManager, ExpenseMarkPaid, model.ExpenseStatusApproved, Facts{}, model.ErrForbidden},
		{"cannot pay an unapproved expense", model.RoleFinanceOfficer, ExpenseMarkPaid, model.ExpenseStatusUnderReview, Facts{}, model.ErrInvalidState},
		{"cannot pay twice", model.RoleFinanceOfficer, ExpenseMarkPaid, model.ExpenseStatusPaid, Facts{}, model.ErrInvalidState},

		{"owner edits draft", model.RoleProjectOfficer, ExpenseUpdate, model.ExpenseStatusDraft, Facts{IsOwner: true}, nil},
		{"owner edits rejected", model.RoleProjectOfficer, ExpenseUpdate, model.ExpenseStatusRejected, Facts{IsOwner: true}, nil},
		{"owner cannot edit submitted", model.RoleProjectOfficer, ExpenseUpdate, model.ExpenseStatusSubmitted, Facts{IsOwner: true}, model.ErrInvalidState},
		{"owner deletes draft", model.RoleProjectOfficer, ExpenseDelete, model.ExpenseStatusDraft, Facts{IsOwner: true}, nil},
		{"owner cannot delete rejected", model.RoleProjectOfficer, ExpenseDelete, model.ExpenseStatusRejected, Facts{IsOwner: true}, model.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.role, tt.action, tt.state, tt.facts)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCanTransitionPurchaseOrderWorkflow(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		action  Action
		state   string
		facts   Facts
		wantErr error
	}{
		{"owner submits draft", model.RoleProjectOfficer, POSubmit, model.POStatusDraft, Facts{IsOwner: true}, nil},
		{"non-owner cannot submit", model.RoleProgramsManager, POSubmit, model.POStatusDraft, Facts{}, model.ErrForbidden},
		{"cannot submit pending order", model.RoleProjectOfficer, POSubmit, model.POStatusPending, Facts{IsOwner: true}, model.ErrInvalidState},

		{"programs manager approves pending", model.RoleProgramsManager, POApprove, model.POStatusPending, Facts{}, nil},
		{"finance officer cannot approve", model.RoleFinanceOfficer, POApprove, model.POStatusPending, Facts{}, model.ErrForbidden},
		{"cannot approve a draft", model.RoleProgramsManager, POApprove, model.POStatusDraft, Facts{}, model.ErrInvalidState},
		{"programs manager rejects pending", model.RoleProgramsManager, POReject, model.POStatusPending, Facts{}, nil},

		{"finance officer receives approved", model.RoleFinanceOfficer, POReceive, model.POStatusApproved, Facts{}, nil},
		{"finance officer receives partially received", model.RoleFinanceOfficer, POReceive, model.POStatusPartiallyReceived, Facts{}, nil},
		{"cannot receive a draft", model.RoleFinanceOfficer, POReceive, model.POStatusDraft, Facts{}, model.ErrInvalidState},
		{"programs manager cannot receive", model.RoleProgramsManager, POReceive, model.POStatusApproved, Facts{}, model.ErrForbidden},

		{"finance officer completes received", model.RoleFinanceOfficer, POComplete, model.POStatusReceived, Facts{}, nil},
		{"cannot complete before full receipt", model.RoleFinanceOfficer, POComplete, model.POStatusPartiallyReceived, Facts{}, model.ErrInvalidState},

		{"cancel from draft", model.RoleFinanceOfficer, POCancel, model.POStatusDraft, Facts{}, nil},
		{"cancel from approved", model.RoleProgramsManager, POCancel, model.POStatusApproved, Facts{}, nil},
		{"cancel from partially received", model.RoleProgramsManager, POCancel, model.POStatusPartiallyReceived, Facts{}, nil},
		{"cannot cancel completed", model.RoleProgramsManager, POCancel, model.POStatusCompleted, Facts{}, model.ErrInvalidState},
		{"cannot cancel twice", model.RoleFinanceOfficer, POCancel, model.POStatusCancelled, Facts{}, model.ErrInvalidState},
		{"project officer cannot cancel", model.RoleProjectOfficer, POCancel, model.POStatusApproved, Facts{}, model.ErrForbidden},

		{"link expense to approved order", model.RoleFinanceOfficer, POLink, model.POStatusApproved, Facts{}, nil},
		{"link expense to completed order", model.RoleProgramsManager, POLink, model.POStatusCompleted, Facts{}, nil},
		{"cannot link to draft", model.RoleFinanceOfficer, POLink, model.POStatusDraft, Facts{}, model.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.role, tt.action, tt.state, tt.facts)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// The state check runs before the role check: a privileged actor attempting an
// undefined transition sees a state conflict, not a permission failure.
func TestCanTransitionStateCheckedBeforeRole(t *testing.T) {
	err := CanTransition(model.RoleAuditor, ExpenseApprove, model.ExpenseStatusDraft, Facts{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidState)
	assert.NotErrorIs(t, err, model.ErrForbidden)
}

func TestCanTransitionUnknownAction(t *testing.T) {
	err := CanTransition(model.RoleProgramsManager, Action("expense.frobnicate"), model.ExpenseStatusDraft, Facts{})
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

// Auditors hold no write actions anywhere in the rule table.
func TestAuditorIsReadOnly(t *testing.T) {
	for action, r := range rules {
		if len(r.roles) == 0 {
			continue
		}
		assert.NotContains(t, r.roles, model.RoleAuditor, "action %s", action)
	}
}
