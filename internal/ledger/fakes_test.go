package ledger

import (
	"context"
	"fmt"

	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/google/uuid"
)

// In-memory fakes covering the repository methods the ledgers touch.
// Unimplemented interface methods panic via the embedded nil interface.

type fakeBudgetRepo struct {
	repository.BudgetRepository
	items map[uuid.UUID]*model.BudgetItem
}

func newFakeBudgetRepo(items ...*model.BudgetItem) *fakeBudgetRepo {
	r := &fakeBudgetRepo{items: make(map[uuid.UUID]*model.BudgetItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeBudgetRepo) FindItemByIDForUpdate(_ context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: budget item %s", model.ErrNotFound, id)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeBudgetRepo) UpdateItemSpent(_ context.Context, id uuid.UUID, spent money.Money) error {
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("%w: budget item %s", model.ErrNotFound, id)
	}
	item.Spent = spent
	return nil
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

type fakeAuditRepo struct {
	repository.AuditRepository
	logs []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.logs = append(r.logs, *entry)
	return nil
}
