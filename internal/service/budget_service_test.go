package service

import (
	"context"
	"testing"

	"fintrack/internal/model"
	"fintrack/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBudgetWithItems(t *testing.T) {
	project := &model.Project{ID: uuid.New(), Code: "WASH-2026", Name: "Clean Water Initiative"}
	budgetRepo := newFakeBudgetRepo()
	svc := NewBudgetService(budgetRepo, newFakeProjectRepo(project), fakeTxManager{})

	resp, err := svc.CreateBudget(context.Background(), CreateBudgetRequest{
		ProjectID:  project.ID.String(),
		Name:       "FY2026 Operations",
		FiscalYear: 2026,
		Currency:   "USD",
		Items: []BudgetItemRequest{
			{Category: "Field Transport", AllocatedMinor: 500000},
			{Category: "Supplies", AllocatedMinor: 250000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2026, resp.FiscalYear)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, money.USD(500000), resp.Items[0].Allocated)
	assert.True(t, resp.Items[0].Spent.IsZero())
	assert.Equal(t, "0.00", resp.Items[0].Utilization)
}

func TestCreateBudgetUnknownProject(t *testing.T) {
	svc := NewBudgetService(newFakeBudgetRepo(), newFakeProjectRepo(), fakeTxManager{})

	_, err := svc.CreateBudget(context.Background(), CreateBudgetRequest{
		ProjectID:  uuid.NewString(),
		Name:       "FY2026 Operations",
		FiscalYear: 2026,
		Currency:   "USD",
		Items:      []BudgetItemRequest{{Category: "Supplies", AllocatedMinor: 100}},
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// Utilization may exceed 100 percent; over-allocation is reported, not blocked.
func TestBudgetUtilizationOverHundredPercent(t *testing.T) {
	item := &model.BudgetItem{
		ID:        uuid.New(),
		BudgetID:  uuid.New(),
		Category:  "Field Transport",
		Allocated: money.USD(100000),
		Spent:     money.USD(125000),
	}
	budgetRepo := newFakeBudgetRepo(item)
	budgetRepo.budgets[item.BudgetID] = &model.Budget{ID: item.BudgetID, ProjectID: uuid.New(), Name: "FY2026"}
	svc := NewBudgetService(budgetRepo, newFakeProjectRepo(), fakeTxManager{})

	resp, err := svc.GetBudget(context.Background(), item.BudgetID.String())
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "125.00", resp.Items[0].Utilization)
}

func TestUpdateItemAllocation(t *testing.T) {
	item := &model.BudgetItem{
		ID:        uuid.New(),
		BudgetID:  uuid.New(),
		Category:  "Supplies",
		Allocated: money.USD(100000),
		Spent:     money.USD(40000),
	}
	budgetRepo := newFakeBudgetRepo(item)
	svc := NewBudgetService(budgetRepo, newFakeProjectRepo(), fakeTxManager{})

	resp, err := svc.UpdateItemAllocation(context.Background(), item.ID.String(), 200000)
	require.NoError(t, err)
	assert.Equal(t, money.USD(200000), resp.Allocated)
	assert.Equal(t, "20.00", resp.Utilization)

	_, err = svc.UpdateItemAllocation(context.Background(), item.ID.String(), 0)
	assert.ErrorIs(t, err, model.ErrValidation)
}
