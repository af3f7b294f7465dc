package service

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/event"
	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/google/uuid"
)

// In-memory fakes backing the workflow service tests. Stores hand out copies
// so mutations only land through an explicit save, which is what lets
// SaveFromStatus exercise the optimistic status check. Unused interface
// methods panic via the embedded nil interface.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *capturePublisher) Publish(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fakeExpenseRepo struct {
	repository.ExpenseRepository
	expenses map[uuid.UUID]*model.Expense
	nextNo   int
}

func newFakeExpenseRepo(expenses ...*model.Expense) *fakeExpenseRepo {
	r := &fakeExpenseRepo{expenses: make(map[uuid.UUID]*model.Expense)}
	for _, e := range expenses {
		r.expenses[e.ID] = e
	}
	return r
}

func (r *fakeExpenseRepo) Create(_ context.Context, expense *model.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	copied := *expense
	r.expenses[expense.ID] = &copied
	return nil
}

func (r *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	expense, ok := r.expenses[id]
	if !ok {
		return nil, fmt.Errorf("%w: expense %s", model.ErrNotFound, id)
	}
	copied := *expense
	return &copied, nil
}

func (r *fakeExpenseRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeExpenseRepo) Save(_ context.Context, expense *model.Expense) error {
	copied := *expense
	r.expenses[expense.ID] = &copied
	return nil
}

func (r *fakeExpenseRepo) SaveFromStatus(_ context.Context, expense *model.Expense, fromStatus string) error {
	stored, ok := r.expenses[expense.ID]
	if !ok {
		return fmt.Errorf("%w: expense %s", model.ErrNotFound, expense.ID)
	}
	if stored.Status != fromStatus {
		return fmt.Errorf("%w: expense %s left %s", model.ErrConcurrentModification, expense.ExpenseNo, fromStatus)
	}
	copied := *expense
	r.expenses[expense.ID] = &copied
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.expenses, id)
	return nil
}

func (r *fakeExpenseRepo) NextExpenseNo(_ context.Context) (string, error) {
	r.nextNo++
	return fmt.Sprintf("EXP-20260830-%05d", r.nextNo), nil
}

type fakeApprovalRepo struct {
	repository.ExpenseApprovalRepository
	approvals []model.ExpenseApproval
}

func (r *fakeApprovalRepo) Append(_ context.Context, approval *model.ExpenseApproval) error {
	if approval.ID == uuid.Nil {
		approval.ID = uuid.New()
	}
	r.approvals = append(r.approvals, *approval)
	return nil
}

func (r *fakeApprovalRepo) ListByExpense(_ context.Context, expenseID uuid.UUID) ([]model.ExpenseApproval, error) {
	var result []model.ExpenseApproval
	for _, a := range r.approvals {
		if a.ExpenseID == expenseID {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeBudgetRepo struct {
	repository.BudgetRepository
	budgets map[uuid.UUID]*model.Budget
	items   map[uuid.UUID]*model.BudgetItem
}

func newFakeBudgetRepo(items ...*model.BudgetItem) *fakeBudgetRepo {
	r := &fakeBudgetRepo{
		budgets: make(map[uuid.UUID]*model.Budget),
		items:   make(map[uuid.UUID]*model.BudgetItem),
	}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeBudgetRepo) CreateBudget(_ context.Context, budget *model.Budget) error {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	copied := *budget
	r.budgets[budget.ID] = &copied
	return nil
}

func (r *fakeBudgetRepo) FindBudgetByID(_ context.Context, id uuid.UUID) (*model.Budget, error) {
	budget, ok := r.budgets[id]
	if !ok {
		return nil, fmt.Errorf("%w: budget %s", model.ErrNotFound, id)
	}
	copied := *budget
	copied.Items = nil
	for _, item := range r.items {
		if item.BudgetID == id {
			copied.Items = append(copied.Items, *item)
		}
	}
	return &copied, nil
}

func (r *fakeBudgetRepo) CreateItem(_ context.Context, item *model.BudgetItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeBudgetRepo) SaveItem(_ context.Context, item *model.BudgetItem) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeBudgetRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: budget item %s", model.ErrNotFound, id)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeBudgetRepo) FindItemByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	return r.FindItemByID(ctx, id)
}

func (r *fakeBudgetRepo) UpdateItemSpent(_ context.Context, id uuid.UUID, spent money.Money) error {
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("%w: budget item %s", model.ErrNotFound, id)
	}
	item.Spent = spent
	return nil
}

type fakeProjectRepo struct {
	repository.ProjectRepository
	projects map[uuid.UUID]*model.Project
}

func newFakeProjectRepo(projects ...*model.Project) *fakeProjectRepo {
	r := &fakeProjectRepo{projects: make(map[uuid.UUID]*model.Project)}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", model.ErrNotFound, id)
	}
	copied := *project
	return &copied, nil
}

type fakeVendorRepo struct {
	repository.VendorRepository
	vendors map[uuid.UUID]*model.Vendor
}

func newFakeVendorRepo(vendors ...*model.Vendor) *fakeVendorRepo {
	r := &fakeVendorRepo{vendors: make(map[uuid.UUID]*model.Vendor)}
	for _, v := range vendors {
		r.vendors[v.ID] = v
	}
	return r
}

func (r *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendor, error) {
	vendor, ok := r.vendors[id]
	if !ok {
		return nil, fmt.Errorf("%w: vendor %s", model.ErrNotFound, id)
	}
	copied := *vendor
	return &copied, nil
}

type fakeAuditRepo struct {
	repository.AuditRepository
	logs []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *fakeAuditRepo) actions() []string {
	result := make([]string, 0, len(r.logs))
	for _, l := range r.logs {
		result = append(result, l.Action)
	}
	return result
}

type fakeAccountRepo struct {
	repository.BankAccountRepository
	accounts map[uuid.UUID]*model.BankAccount
}

func newFakeAccountRepo(accounts ...*model.BankAccount) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: make(map[uuid.UUID]*model.BankAccount)}
	for _, account := range accounts {
		r.accounts[account.ID] = account
	}
	return r
}

func (r *fakeAccountRepo) Create(_ context.Context, account *model.BankAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*model.BankAccount, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: bank account %s", model.ErrNotFound, id)
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	account, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("%w: bank account %s", model.ErrNotFound, id)
	}
	account.IsActive = active
	return nil
}

func (r *fakeAccountRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.BankAccount, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: bank account %s", model.ErrNotFound, id)
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance money.Money) error {
	account, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("%w: bank account %s", model.ErrNotFound, id)
	}
	account.Balance = balance
	return nil
}

type fakeCashFlowRepo struct {
	repository.CashFlowRepository
	entries []model.CashFlow
}

func (r *fakeCashFlowRepo) Append(_ context.Context, entry *model.CashFlow) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeCashFlowRepo) List(_ context.Context, filter repository.CashFlowFilter) ([]model.CashFlow, int64, error) {
	var matched []model.CashFlow
	for i := len(r.entries) - 1; i >= 0; i-- { // newest first
		e := r.entries[i]
		if filter.BankAccountID != nil && e.BankAccountID != *filter.BankAccountID {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

type fakeDonorRepo struct {
	repository.DonorRepository
	donors map[uuid.UUID]*model.Donor
}

func newFakeDonorRepo(donors ...*model.Donor) *fakeDonorRepo {
	r := &fakeDonorRepo{donors: make(map[uuid.UUID]*model.Donor)}
	for _, d := range donors {
		r.donors[d.ID] = d
	}
	return r
}

func (r *fakeDonorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Donor, error) {
	donor, ok := r.donors[id]
	if !ok {
		return nil, fmt.Errorf("%w: donor %s", model.ErrNotFound, id)
	}
	copied := *donor
	return &copied, nil
}

type fakePORepo struct {
	repository.PurchaseOrderRepository
	pos    map[uuid.UUID]*model.PurchaseOrder
	nextNo int
}

func newFakePORepo(pos ...*model.PurchaseOrder) *fakePORepo {
	r := &fakePORepo{pos: make(map[uuid.UUID]*model.PurchaseOrder)}
	for _, po := range pos {
		r.pos[po.ID] = po
	}
	return r
}

func clonePO(po *model.PurchaseOrder) *model.PurchaseOrder {
	copied := *po
	copied.Items = make([]model.PurchaseOrderItem, len(po.Items))
	copy(copied.Items, po.Items)
	return &copied
}

func (r *fakePORepo) Create(_ context.Context, po *model.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	for i := range po.Items {
		if po.Items[i].ID == uuid.Nil {
			po.Items[i].ID = uuid.New()
		}
		po.Items[i].PurchaseOrderID = po.ID
	}
	r.pos[po.ID] = clonePO(po)
	return nil
}

func (r *fakePORepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.pos[id]
	if !ok {
		return nil, fmt.Errorf("%w: purchase order %s", model.ErrNotFound, id)
	}
	return clonePO(po), nil
}

func (r *fakePORepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePORepo) Save(_ context.Context, po *model.PurchaseOrder) error {
	r.pos[po.ID] = clonePO(po)
	return nil
}

func (r *fakePORepo) SaveFromStatus(_ context.Context, po *model.PurchaseOrder, fromStatus string) error {
	stored, ok := r.pos[po.ID]
	if !ok {
		return fmt.Errorf("%w: purchase order %s", model.ErrNotFound, po.ID)
	}
	if stored.Status != fromStatus {
		return fmt.Errorf("%w: purchase order %s left %s", model.ErrConcurrentModification, po.PONo, fromStatus)
	}
	r.pos[po.ID] = clonePO(po)
	return nil
}

func (r *fakePORepo) ReplaceItems(_ context.Context, poID uuid.UUID, items []model.PurchaseOrderItem) error {
	po, ok := r.pos[poID]
	if !ok {
		return fmt.Errorf("%w: purchase order %s", model.ErrNotFound, poID)
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].PurchaseOrderID = poID
	}
	po.Items = make([]model.PurchaseOrderItem, len(items))
	copy(po.Items, items)
	return nil
}

func (r *fakePORepo) SaveItem(_ context.Context, item *model.PurchaseOrderItem) error {
	po, ok := r.pos[item.PurchaseOrderID]
	if !ok {
		return fmt.Errorf("%w: purchase order %s", model.ErrNotFound, item.PurchaseOrderID)
	}
	for i := range po.Items {
		if po.Items[i].ID == item.ID {
			po.Items[i] = *item
			return nil
		}
	}
	return fmt.Errorf("%w: purchase order item %s", model.ErrNotFound, item.ID)
}

func (r *fakePORepo) NextPONo(_ context.Context) (string, error) {
	r.nextNo++
	return fmt.Sprintf("PO-20260830-%05d", r.nextNo), nil
}
