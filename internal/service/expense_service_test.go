package service

import (
	"context"
	"testing"

	"fintrack/internal/event"
	"fintrack/internal/ledger"
	"fintrack/internal/model"
	"fintrack/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseFixture struct {
	svc         ExpenseService
	expenseRepo *fakeExpenseRepo
	approvals   *fakeApprovalRepo
	budgetRepo  *fakeBudgetRepo
	accountRepo *fakeAccountRepo
	cashFlows   *fakeCashFlowRepo
	audit       *fakeAuditRepo
	events      *capturePublisher

	project *model.Project
	item    *model.BudgetItem
	account *model.BankAccount

	officer Actor // submits and owns expenses
	finance Actor
	manager Actor
	auditor Actor
}

func newExpenseFixture(t *testing.T) *expenseFixture {
	t.Helper()

	f := &expenseFixture{
		project: &model.Project{ID: uuid.New(), Code: "WASH-2026", Name: "Clean Water Initiative", Status: model.ProjectStatusActive},
		item: &model.BudgetItem{
			ID:        uuid.New(),
			BudgetID:  uuid.New(),
			Category:  "Field Transport",
			Allocated: money.USD(500000),
			Spent:     money.Zero("USD"),
		},
		account: &model.BankAccount{
			ID:            uuid.New(),
			Name:          "Operating Account",
			AccountNumber: "001122334455",
			Balance:       money.USD(100000),
			IsActive:      true,
		},
		officer: Actor{ID: uuid.New(), Role: model.RoleProjectOfficer},
		finance: Actor{ID: uuid.New(), Role: model.RoleFinanceOfficer},
		manager: Actor{ID: uuid.New(), Role: model.RoleProgramsManager},
		auditor: Actor{ID: uuid.New(), Role: model.RoleAuditor},
	}

	f.expenseRepo = newFakeExpenseRepo()
	f.approvals = &fakeApprovalRepo{}
	f.budgetRepo = newFakeBudgetRepo(f.item)
	f.accountRepo = newFakeAccountRepo(f.account)
	f.cashFlows = &fakeCashFlowRepo{}
	f.audit = &fakeAuditRepo{}
	f.events = &capturePublisher{}

	f.svc = NewExpenseService(
		f.expenseRepo,
		f.approvals,
		f.budgetRepo,
		newFakeProjectRepo(f.project),
		f.audit,
		fakeTxManager{},
		ledger.NewBudgetLedger(f.budgetRepo, f.audit),
		ledger.NewCashLedger(f.accountRepo, f.cashFlows, f.audit),
		f.events,
	)
	return f
}

func (f *expenseFixture) createDraft(t *testing.T, amountMinor int64) ExpenseResponse {
	t.Helper()
	resp, err := f.svc.CreateExpense(context.Background(), f.officer, CreateExpenseRequest{
		AmountMinor:  amountMinor,
		Currency:     "USD",
		Description:  "Vehicle hire for site visits",
		Category:     "Field Transport",
		ProjectID:    f.project.ID.String(),
		BudgetItemID: f.item.ID.String(),
	})
	require.NoError(t, err)
	return resp
}

func TestExpenseLifecycle(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	created := f.createDraft(t, 75000)
	assert.Equal(t, model.ExpenseStatusDraft, created.Status)
	assert.Equal(t, "EXP-20260830-00001", created.ExpenseNo)
	assert.Equal(t, money.USD(75000), created.Amount)

	submitted, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusSubmitted, submitted.Status)

	reviewed, err := f.svc.ReviewExpense(ctx, created.ID, f.finance, ReviewExpenseRequest{Decision: "APPROVE"})
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusUnderReview, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, f.finance.ID.String(), *reviewed.ReviewedBy)

	approved, err := f.svc.ApproveExpense(ctx, created.ID, f.manager, "within budget")
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.manager.ID.String(), *approved.ApprovedBy)
	assert.Equal(t, money.USD(75000), f.budgetRepo.items[f.item.ID].Spent)

	paid, err := f.svc.MarkPaid(ctx, created.ID, f.finance, MarkPaidRequest{
		BankAccountID:    f.account.ID.String(),
		PaymentReference: "CHQ-1042",
		PaymentMethod:    "CHEQUE",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.PaymentReference)
	assert.Equal(t, "CHQ-1042", *paid.PaymentReference)

	// Payment debits the bank account and leaves an outflow entry linked back
	// to the expense.
	assert.Equal(t, money.USD(25000), f.accountRepo.accounts[f.account.ID].Balance)
	require.Len(t, f.cashFlows.entries, 1)
	entry := f.cashFlows.entries[0]
	assert.Equal(t, model.CashFlowOutflow, entry.Type)
	require.NotNil(t, entry.ExpenseID)
	assert.Equal(t, created.ID, entry.ExpenseID.String())

	// Spend posted exactly once, at approval.
	assert.Equal(t, money.USD(75000), f.budgetRepo.items[f.item.ID].Spent)

	assert.Equal(t, []string{
		event.ExpenseSubmitted,
		event.ExpenseReviewed,
		event.ExpenseApproved,
		event.ExpensePaid,
	}, f.events.types())

	history, err := f.svc.GetApprovalHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.ApprovalActionReviewed, history[0].Action)
	assert.Equal(t, model.ApprovalActionApproved, history[1].Action)
}

func TestCreateExpenseCurrencyMismatch(t *testing.T) {
	f := newExpenseFixture(t)

	_, err := f.svc.CreateExpense(context.Background(), f.officer, CreateExpenseRequest{
		AmountMinor:  10000,
		Currency:     "EUR",
		Category:     "Field Transport",
		ProjectID:    f.project.ID.String(),
		BudgetItemID: f.item.ID.String(),
	})
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "does not match budget item currency")
}

func TestCreateExpenseUnknownProject(t *testing.T) {
	f := newExpenseFixture(t)

	_, err := f.svc.CreateExpense(context.Background(), f.officer, CreateExpenseRequest{
		AmountMinor:  10000,
		Currency:     "USD",
		Category:     "Field Transport",
		ProjectID:    uuid.NewString(),
		BudgetItemID: f.item.ID.String(),
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateExpenseRejectsNonPositiveAmount(t *testing.T) {
	f := newExpenseFixture(t)

	_, err := f.svc.CreateExpense(context.Background(), f.officer, CreateExpenseRequest{
		AmountMinor:  0,
		Currency:     "USD",
		Category:     "Field Transport",
		ProjectID:    f.project.ID.String(),
		BudgetItemID: f.item.ID.String(),
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestSubmitExpenseNonOwnerForbidden(t *testing.T) {
	f := newExpenseFixture(t)
	created := f.createDraft(t, 10000)

	_, err := f.svc.SubmitExpense(context.Background(), created.ID, f.finance)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestReviewRejectionRequiresReason(t *testing.T) {
	f := newExpenseFixture(t)
	created := f.createDraft(t, 10000)
	_, err := f.svc.SubmitExpense(context.Background(), created.ID, f.officer)
	require.NoError(t, err)

	_, err = f.svc.ReviewExpense(context.Background(), created.ID, f.finance, ReviewExpenseRequest{Decision: "REJECT", Comments: "  "})
	require.ErrorIs(t, err, model.ErrValidation)

	// Unchanged: the empty-reason rejection never entered the transaction.
	got, err := f.svc.GetExpense(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusSubmitted, got.Status)
}

func TestRejectThenResubmit(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, 10000)

	_, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)
	rejected, err := f.svc.ReviewExpense(ctx, created.ID, f.finance, ReviewExpenseRequest{
		Decision: "REJECT",
		Comments: "missing receipts",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusRejected, rejected.Status)
	assert.Equal(t, "missing receipts", rejected.RejectionReason)

	// No spend posted on the rejected path.
	assert.True(t, f.budgetRepo.items[f.item.ID].Spent.IsZero())

	// The owner may amend and resubmit; resubmission clears the reason.
	_, err = f.svc.UpdateExpense(ctx, created.ID, f.officer, UpdateExpenseRequest{Description: "receipts attached"})
	require.NoError(t, err)
	resubmitted, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusSubmitted, resubmitted.Status)
	assert.Empty(t, resubmitted.RejectionReason)

	// The first rejection stays on the decision trail.
	history, err := f.svc.GetApprovalHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.ApprovalActionRejected, history[0].Action)
}

func TestApproveExpenseOutOfOrder(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, 10000)
	_, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)

	// Approval is only defined from UNDER_REVIEW; the state conflict wins
	// over any permission concern.
	_, err = f.svc.ApproveExpense(ctx, created.ID, f.manager, "")
	require.ErrorIs(t, err, model.ErrInvalidState)
	assert.True(t, f.budgetRepo.items[f.item.ID].Spent.IsZero())

	_, err = f.svc.ApproveExpense(ctx, created.ID, f.auditor, "")
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestApproveExpenseWrongRole(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, 10000)
	_, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)
	_, err = f.svc.ReviewExpense(ctx, created.ID, f.finance, ReviewExpenseRequest{Decision: "APPROVE"})
	require.NoError(t, err)

	_, err = f.svc.ApproveExpense(ctx, created.ID, f.finance, "")
	require.ErrorIs(t, err, model.ErrForbidden)
	assert.True(t, f.budgetRepo.items[f.item.ID].Spent.IsZero())
}

func TestApproveExpenseTwice(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, 10000)
	_, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)
	_, err = f.svc.ReviewExpense(ctx, created.ID, f.finance, ReviewExpenseRequest{Decision: "APPROVE"})
	require.NoError(t, err)
	_, err = f.svc.ApproveExpense(ctx, created.ID, f.manager, "")
	require.NoError(t, err)

	_, err = f.svc.ApproveExpense(ctx, created.ID, f.manager, "")
	require.ErrorIs(t, err, model.ErrInvalidState)

	// Second attempt posted nothing.
	assert.Equal(t, money.USD(10000), f.budgetRepo.items[f.item.ID].Spent)
}

// staleExpenseRepo serves a read that no longer matches the stored row,
// standing in for a transition racing past the guard.
type staleExpenseRepo struct {
	*fakeExpenseRepo
	staleStatus string
}

func (r *staleExpenseRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	expense, err := r.fakeExpenseRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	expense.Status = r.staleStatus
	return expense, nil
}

func TestApproveExpenseConcurrentConflict(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, 10000)
	_, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)

	stale := &staleExpenseRepo{fakeExpenseRepo: f.expenseRepo, staleStatus: model.ExpenseStatusUnderReview}
	svc := NewExpenseService(
		stale, f.approvals, f.budgetRepo, newFakeProjectRepo(f.project), f.audit,
		fakeTxManager{},
		ledger.NewBudgetLedger(f.budgetRepo, f.audit),
		ledger.NewCashLedger(f.accountRepo, f.cashFlows, f.audit),
		f.events,
	)

	// The guard passes on the stale read but the status-conditioned save
	// detects that the row moved on.
	_, err = svc.ApproveExpense(ctx, created.ID, f.manager, "")
	assert.ErrorIs(t, err, model.ErrConcurrentModification)
}

func TestMarkPaidInsufficientFunds(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, 150000) // more than the account holds
	_, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)
	_, err = f.svc.ReviewExpense(ctx, created.ID, f.finance, ReviewExpenseRequest{Decision: "APPROVE"})
	require.NoError(t, err)
	_, err = f.svc.ApproveExpense(ctx, created.ID, f.manager, "")
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(ctx, created.ID, f.finance, MarkPaidRequest{
		BankAccountID:    f.account.ID.String(),
		PaymentReference: "CHQ-1043",
		PaymentMethod:    "CHEQUE",
	})
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	// The expense stays APPROVED and nothing moved on the account.
	got, err := f.svc.GetExpense(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusApproved, got.Status)
	assert.Equal(t, money.USD(100000), f.accountRepo.accounts[f.account.ID].Balance)
	assert.Empty(t, f.cashFlows.entries)
}

func TestMarkPaidRequiresReferenceAndMethod(t *testing.T) {
	f := newExpenseFixture(t)
	created := f.createDraft(t, 10000)

	_, err := f.svc.MarkPaid(context.Background(), created.ID, f.finance, MarkPaidRequest{
		BankAccountID:    f.account.ID.String(),
		PaymentReference: " ",
		PaymentMethod:    "CHEQUE",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateExpenseAfterSubmitInvalid(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, 10000)
	_, err := f.svc.SubmitExpense(ctx, created.ID, f.officer)
	require.NoError(t, err)

	_, err = f.svc.UpdateExpense(ctx, created.ID, f.officer, UpdateExpenseRequest{Description: "too late"})
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestDeleteExpenseOnlyWhileDraft(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	draft := f.createDraft(t, 10000)
	require.NoError(t, f.svc.DeleteExpense(ctx, draft.ID, f.officer))
	_, err := f.svc.GetExpense(ctx, draft.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	submitted := f.createDraft(t, 10000)
	_, err = f.svc.SubmitExpense(ctx, submitted.ID, f.officer)
	require.NoError(t, err)
	err = f.svc.DeleteExpense(ctx, submitted.ID, f.officer)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}
