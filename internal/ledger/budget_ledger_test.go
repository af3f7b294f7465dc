package ledger

import (
	"context"
	"testing"

	"fintrack/internal/model"
	"fintrack/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(spentMinor int64) *model.BudgetItem {
	return &model.BudgetItem{
		ID:        uuid.New(),
		BudgetID:  uuid.New(),
		Category:  "Field Transport",
		Allocated: money.USD(500000),
		Spent:     money.USD(spentMinor),
	}
}

func TestBudgetLedgerPostSpend(t *testing.T) {
	item := newTestItem(10000)
	budgetRepo := newFakeBudgetRepo(item)
	auditRepo := &fakeAuditRepo{}
	ledger := NewBudgetLedger(budgetRepo, auditRepo)
	actor := uuid.New()

	newSpent, err := ledger.PostSpend(context.Background(), item.ID, money.USD(25050), actor)
	require.NoError(t, err)
	assert.Equal(t, money.USD(35050), newSpent)
	assert.Equal(t, money.USD(35050), budgetRepo.items[item.ID].Spent)

	require.Len(t, auditRepo.logs, 1)
	entry := auditRepo.logs[0]
	assert.Equal(t, model.ActionPostSpend, entry.Action)
	assert.Equal(t, item.ID.String(), entry.EntityID)
	assert.Equal(t, "Field Transport", entry.EntityName)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, actor, *entry.UserID)
	assert.Contains(t, entry.Details, `"spent_before":"100.00 USD"`)
	assert.Contains(t, entry.Details, `"spent_after":"350.50 USD"`)
}

func TestBudgetLedgerPostSpendExceedingAllocationIsAllowed(t *testing.T) {
	item := newTestItem(450000)
	budgetRepo := newFakeBudgetRepo(item)
	ledger := NewBudgetLedger(budgetRepo, &fakeAuditRepo{})

	newSpent, err := ledger.PostSpend(context.Background(), item.ID, money.USD(100000), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, money.USD(550000), newSpent)
	assert.True(t, newSpent.GreaterThanOrEqual(item.Allocated))
}

func TestBudgetLedgerPostSpendRejectsNonPositiveAmount(t *testing.T) {
	item := newTestItem(0)
	budgetRepo := newFakeBudgetRepo(item)
	ledger := NewBudgetLedger(budgetRepo, &fakeAuditRepo{})

	for _, minor := range []int64{0, -100} {
		_, err := ledger.PostSpend(context.Background(), item.ID, money.USD(minor), uuid.New())
		assert.ErrorIs(t, err, model.ErrValidation)
	}
	assert.True(t, budgetRepo.items[item.ID].Spent.IsZero())
}

func TestBudgetLedgerPostSpendRejectsCurrencyMismatch(t *testing.T) {
	item := newTestItem(10000)
	budgetRepo := newFakeBudgetRepo(item)
	ledger := NewBudgetLedger(budgetRepo, &fakeAuditRepo{})

	_, err := ledger.PostSpend(context.Background(), item.ID, money.New(10000, "EUR"), uuid.New())
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "EUR")
	assert.Equal(t, money.USD(10000), budgetRepo.items[item.ID].Spent)
}

func TestBudgetLedgerPostSpendUnknownItem(t *testing.T) {
	ledger := NewBudgetLedger(newFakeBudgetRepo(), &fakeAuditRepo{})

	_, err := ledger.PostSpend(context.Background(), uuid.New(), money.USD(100), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBudgetLedgerReverseSpend(t *testing.T) {
	item := newTestItem(35050)
	budgetRepo := newFakeBudgetRepo(item)
	auditRepo := &fakeAuditRepo{}
	ledger := NewBudgetLedger(budgetRepo, auditRepo)

	newSpent, err := ledger.ReverseSpend(context.Background(), item.ID, money.USD(25050), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, money.USD(10000), newSpent)
	assert.Equal(t, money.USD(10000), budgetRepo.items[item.ID].Spent)

	require.Len(t, auditRepo.logs, 1)
	assert.Equal(t, model.ActionReverseSpend, auditRepo.logs[0].Action)
}

func TestBudgetLedgerReverseSpendCannotGoNegative(t *testing.T) {
	item := newTestItem(10000)
	budgetRepo := newFakeBudgetRepo(item)
	auditRepo := &fakeAuditRepo{}
	ledger := NewBudgetLedger(budgetRepo, auditRepo)

	_, err := ledger.ReverseSpend(context.Background(), item.ID, money.USD(10001), uuid.New())
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "exceeds posted spend")
	assert.Equal(t, money.USD(10000), budgetRepo.items[item.ID].Spent)
	assert.Empty(t, auditRepo.logs)
}

func TestBudgetLedgerReverseSpendToZero(t *testing.T) {
	item := newTestItem(10000)
	budgetRepo := newFakeBudgetRepo(item)
	ledger := NewBudgetLedger(budgetRepo, &fakeAuditRepo{})

	newSpent, err := ledger.ReverseSpend(context.Background(), item.ID, money.USD(10000), uuid.New())
	require.NoError(t, err)
	assert.True(t, newSpent.IsZero())
}
