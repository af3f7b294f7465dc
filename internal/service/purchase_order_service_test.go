package service

import (
	"context"
	"testing"

	"fintrack/internal/event"
	"fintrack/internal/model"
	"fintrack/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poFixture struct {
	svc         PurchaseOrderService
	poRepo      *fakePORepo
	expenseRepo *fakeExpenseRepo
	audit       *fakeAuditRepo
	events      *capturePublisher

	vendor  *model.Vendor
	project *model.Project

	officer Actor
	finance Actor
	manager Actor
}

func newPOFixture(t *testing.T) *poFixture {
	t.Helper()

	f := &poFixture{
		vendor:  &model.Vendor{ID: uuid.New(), Name: "Acme Supplies Ltd"},
		project: &model.Project{ID: uuid.New(), Code: "WASH-2026", Name: "Clean Water Initiative", Status: model.ProjectStatusActive},
		officer: Actor{ID: uuid.New(), Role: model.RoleProjectOfficer},
		finance: Actor{ID: uuid.New(), Role: model.RoleFinanceOfficer},
		manager: Actor{ID: uuid.New(), Role: model.RoleProgramsManager},
	}

	f.poRepo = newFakePORepo()
	f.expenseRepo = newFakeExpenseRepo()
	f.audit = &fakeAuditRepo{}
	f.events = &capturePublisher{}

	f.svc = NewPurchaseOrderService(
		f.poRepo,
		f.expenseRepo,
		newFakeVendorRepo(f.vendor),
		newFakeProjectRepo(f.project),
		f.audit,
		fakeTxManager{},
		f.events,
	)
	return f
}

func (f *poFixture) createDraft(t *testing.T, taxRate string, items ...POItemRequest) POResponse {
	t.Helper()
	if len(items) == 0 {
		items = []POItemRequest{
			{Description: "Water filters", Quantity: 10, UnitPriceMinor: 12000},
		}
	}
	resp, err := f.svc.CreatePO(context.Background(), f.officer, CreatePORequest{
		VendorID:  f.vendor.ID.String(),
		ProjectID: f.project.ID.String(),
		Currency:  "USD",
		TaxRate:   taxRate,
		Items:     items,
	})
	require.NoError(t, err)
	return resp
}

func (f *poFixture) approved(t *testing.T, items ...POItemRequest) POResponse {
	t.Helper()
	ctx := context.Background()
	created := f.createDraft(t, "", items...)
	_, err := f.svc.SubmitPO(ctx, created.ID, f.officer)
	require.NoError(t, err)
	approved, err := f.svc.ApprovePO(ctx, created.ID, f.manager)
	require.NoError(t, err)
	return approved
}

func TestCreatePOComputesTotals(t *testing.T) {
	f := newPOFixture(t)

	created := f.createDraft(t, "0.16",
		POItemRequest{Description: "Water filters", Quantity: 10, UnitPriceMinor: 12345},
		POItemRequest{Description: "Spare membranes", Quantity: 3, UnitPriceMinor: 999},
	)

	assert.Equal(t, "PO-20260830-00001", created.PONo)
	assert.Equal(t, model.POStatusDraft, created.Status)
	// 10*123.45 + 3*9.99 = 1264.47; 16% tax is 202.3152, rounded 202.32.
	assert.Equal(t, money.USD(126447), created.Subtotal)
	assert.Equal(t, money.USD(20232), created.Tax)
	assert.Equal(t, money.USD(146679), created.Total)
	require.Len(t, created.Items, 2)
	assert.Equal(t, 0, created.Items[0].QuantityReceived)
}

func TestCreatePOZeroTaxByDefault(t *testing.T) {
	f := newPOFixture(t)

	created := f.createDraft(t, "")
	assert.Equal(t, money.USD(120000), created.Subtotal)
	assert.True(t, created.Tax.IsZero())
	assert.Equal(t, created.Subtotal, created.Total)
}

func TestCreatePOInvalidTaxRate(t *testing.T) {
	f := newPOFixture(t)

	for _, rate := range []string{"ten percent", "-0.05"} {
		_, err := f.svc.CreatePO(context.Background(), f.officer, CreatePORequest{
			VendorID:  f.vendor.ID.String(),
			ProjectID: f.project.ID.String(),
			Currency:  "USD",
			TaxRate:   rate,
			Items:     []POItemRequest{{Description: "Filters", Quantity: 1, UnitPriceMinor: 100}},
		})
		assert.ErrorIs(t, err, model.ErrValidation, "tax rate %q", rate)
	}
}

func TestCreatePOUnknownVendor(t *testing.T) {
	f := newPOFixture(t)

	_, err := f.svc.CreatePO(context.Background(), f.officer, CreatePORequest{
		VendorID:  uuid.NewString(),
		ProjectID: f.project.ID.String(),
		Currency:  "USD",
		Items:     []POItemRequest{{Description: "Filters", Quantity: 1, UnitPriceMinor: 100}},
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPOApprovalWorkflow(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()

	created := f.createDraft(t, "")

	submitted, err := f.svc.SubmitPO(ctx, created.ID, f.officer)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusPending, submitted.Status)

	approved, err := f.svc.ApprovePO(ctx, created.ID, f.manager)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusApproved, approved.Status)

	assert.Equal(t, []string{event.POSubmitted, event.POApproved}, f.events.types())
}

func TestSubmitPONonOwnerForbidden(t *testing.T) {
	f := newPOFixture(t)
	created := f.createDraft(t, "")

	_, err := f.svc.SubmitPO(context.Background(), created.ID, f.manager)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestRejectPORequiresReason(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, "")
	_, err := f.svc.SubmitPO(ctx, created.ID, f.officer)
	require.NoError(t, err)

	_, err = f.svc.RejectPO(ctx, created.ID, f.manager, "  ")
	assert.ErrorIs(t, err, model.ErrValidation)

	rejected, err := f.svc.RejectPO(ctx, created.ID, f.manager, "supplier not on approved list")
	require.NoError(t, err)
	assert.Equal(t, model.POStatusRejected, rejected.Status)
	assert.Equal(t, "supplier not on approved list", rejected.RejectionReason)
}

func TestReceiveItemsPartialThenFull(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	approved := f.approved(t, POItemRequest{Description: "Water filters", Quantity: 10, UnitPriceMinor: 12000})
	itemID := approved.Items[0].ID

	partial, err := f.svc.ReceiveItems(ctx, approved.ID, f.finance, ReceiveItemsRequest{
		Receipts: map[string]int{itemID: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, model.POStatusPartiallyReceived, partial.Status)
	assert.Equal(t, 6, partial.Items[0].QuantityReceived)

	full, err := f.svc.ReceiveItems(ctx, approved.ID, f.finance, ReceiveItemsRequest{
		Receipts: map[string]int{itemID: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, model.POStatusReceived, full.Status)
	assert.Equal(t, 10, full.Items[0].QuantityReceived)

	completed, err := f.svc.CompletePO(ctx, approved.ID, f.finance)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusCompleted, completed.Status)
}

func TestReceiveItemsOverReceiptAbortsWholeDelivery(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	approved := f.approved(t,
		POItemRequest{Description: "Water filters", Quantity: 10, UnitPriceMinor: 12000},
		POItemRequest{Description: "Spare membranes", Quantity: 5, UnitPriceMinor: 999},
	)
	filterID := approved.Items[0].ID
	membraneID := approved.Items[1].ID

	_, err := f.svc.ReceiveItems(ctx, approved.ID, f.finance, ReceiveItemsRequest{
		Receipts: map[string]int{filterID: 6},
	})
	require.NoError(t, err)

	// 6 + 5 exceeds the 10 ordered; the valid membrane line in the same call
	// must not be applied either.
	_, err = f.svc.ReceiveItems(ctx, approved.ID, f.finance, ReceiveItemsRequest{
		Receipts: map[string]int{filterID: 5, membraneID: 2},
	})
	require.ErrorIs(t, err, model.ErrOverReceipt)

	got, err := f.svc.GetPO(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusPartiallyReceived, got.Status)
	for _, item := range got.Items {
		switch item.ID {
		case filterID:
			assert.Equal(t, 6, item.QuantityReceived)
		case membraneID:
			assert.Equal(t, 0, item.QuantityReceived)
		}
	}
}

func TestReceiveItemsValidation(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	approved := f.approved(t)

	_, err := f.svc.ReceiveItems(ctx, approved.ID, f.finance, ReceiveItemsRequest{})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.ReceiveItems(ctx, approved.ID, f.finance, ReceiveItemsRequest{
		Receipts: map[string]int{approved.Items[0].ID: 0},
	})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.ReceiveItems(ctx, approved.ID, f.finance, ReceiveItemsRequest{
		Receipts: map[string]int{uuid.NewString(): 1},
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestReceiveItemsBeforeApprovalInvalid(t *testing.T) {
	f := newPOFixture(t)
	created := f.createDraft(t, "")

	_, err := f.svc.ReceiveItems(context.Background(), created.ID, f.finance, ReceiveItemsRequest{
		Receipts: map[string]int{created.Items[0].ID: 1},
	})
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestCompletePORequiresFullReceipt(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	approved := f.approved(t, POItemRequest{Description: "Water filters", Quantity: 10, UnitPriceMinor: 12000})

	_, err := f.svc.ReceiveItems(ctx, approved.ID, f.finance, ReceiveItemsRequest{
		Receipts: map[string]int{approved.Items[0].ID: 6},
	})
	require.NoError(t, err)

	_, err = f.svc.CompletePO(ctx, approved.ID, f.finance)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestCancelPO(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	approved := f.approved(t)

	cancelled, err := f.svc.CancelPO(ctx, approved.ID, f.manager, "programme descoped")
	require.NoError(t, err)
	assert.Equal(t, model.POStatusCancelled, cancelled.Status)

	_, err = f.svc.CancelPO(ctx, approved.ID, f.manager, "again")
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestUpdatePOOnlyWhileDraft(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()

	created := f.createDraft(t, "0.10")
	updated, err := f.svc.UpdatePO(ctx, created.ID, f.officer, UpdatePORequest{
		Items: []POItemRequest{{Description: "Water filters", Quantity: 20, UnitPriceMinor: 11000}},
	})
	require.NoError(t, err)
	assert.Equal(t, money.USD(220000), updated.Subtotal)
	assert.Equal(t, money.USD(22000), updated.Tax)

	_, err = f.svc.SubmitPO(ctx, created.ID, f.officer)
	require.NoError(t, err)
	_, err = f.svc.UpdatePO(ctx, created.ID, f.officer, UpdatePORequest{Note: "too late"})
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestLinkAndUnlinkExpense(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	approved := f.approved(t)
	poID := uuid.MustParse(approved.ID)

	expense := &model.Expense{
		ID:        uuid.New(),
		ExpenseNo: "EXP-20260830-00007",
		Amount:    money.USD(5000),
		Status:    model.ExpenseStatusDraft,
		ProjectID: f.project.ID,
	}
	require.NoError(t, f.expenseRepo.Create(ctx, expense))

	require.NoError(t, f.svc.LinkExpense(ctx, approved.ID, expense.ID.String(), f.finance))
	linked, err := f.expenseRepo.FindByID(ctx, expense.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.PurchaseOrderID)
	assert.Equal(t, poID, *linked.PurchaseOrderID)

	require.NoError(t, f.svc.UnlinkExpense(ctx, approved.ID, expense.ID.String(), f.finance))
	unlinked, err := f.expenseRepo.FindByID(ctx, expense.ID)
	require.NoError(t, err)
	assert.Nil(t, unlinked.PurchaseOrderID)

	// Unlinking an expense that is not linked is a validation failure.
	err = f.svc.UnlinkExpense(ctx, approved.ID, expense.ID.String(), f.finance)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestLinkExpenseProjectMismatch(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	approved := f.approved(t)

	expense := &model.Expense{
		ID:        uuid.New(),
		ExpenseNo: "EXP-20260830-00008",
		Amount:    money.USD(5000),
		Status:    model.ExpenseStatusDraft,
		ProjectID: uuid.New(), // different project
	}
	require.NoError(t, f.expenseRepo.Create(ctx, expense))

	err := f.svc.LinkExpense(ctx, approved.ID, expense.ID.String(), f.finance)
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "different projects")
}

func TestLinkExpenseRequiresLinkableState(t *testing.T) {
	f := newPOFixture(t)
	ctx := context.Background()
	created := f.createDraft(t, "")

	expense := &model.Expense{
		ID:        uuid.New(),
		ExpenseNo: "EXP-20260830-00009",
		Amount:    money.USD(5000),
		Status:    model.ExpenseStatusDraft,
		ProjectID: f.project.ID,
	}
	require.NoError(t, f.expenseRepo.Create(ctx, expense))

	err := f.svc.LinkExpense(ctx, created.ID, expense.ID.String(), f.finance)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}
