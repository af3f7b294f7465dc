package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/google/uuid"
)

// Payment describes an outflow to post against a bank account.
type Payment struct {
	Amount    money.Money
	ExpenseID uuid.UUID
	ExpenseNo string
	ProjectID uuid.UUID
	Reference string
	ActorID   uuid.UUID
}

// Receipt describes an inflow (typically a donor disbursement).
type Receipt struct {
	Amount    money.Money
	DonorID   *uuid.UUID
	ProjectID *uuid.UUID
	Reference string
	Narrative string
	ActorID   uuid.UUID
}

// PostingResult reports the account state after a posting.
type PostingResult struct {
	NewBalance      money.Money
	CashFlowEntryID uuid.UUID
}

// CashLedger owns bank account balances and the append-only cash-flow trail.
// PostPayment enforces the non-negative balance invariant; PostReceipt has no
// floor. Both row-lock the account and run inside the caller's transaction.
type CashLedger interface {
	PostPayment(ctx context.Context, accountID uuid.UUID, p Payment) (PostingResult, error)
	PostReceipt(ctx context.Context, accountID uuid.UUID, r Receipt) (PostingResult, error)
}

type cashLedger struct {
	accountRepo  repository.BankAccountRepository
	cashFlowRepo repository.CashFlowRepository
	auditRepo    repository.AuditRepository
}

func NewCashLedger(accountRepo repository.BankAccountRepository, cashFlowRepo repository.CashFlowRepository, auditRepo repository.AuditRepository) CashLedger {
	return &cashLedger{accountRepo: accountRepo, cashFlowRepo: cashFlowRepo, auditRepo: auditRepo}
}

func (l *cashLedger) PostPayment(ctx context.Context, accountID uuid.UUID, p Payment) (PostingResult, error) {
	if !p.Amount.IsPositive() {
		return PostingResult{}, fmt.Errorf("%w: payment amount must be positive", model.ErrValidation)
	}

	account, err := l.accountRepo.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		return PostingResult{}, err
	}

	if !account.IsActive {
		return PostingResult{}, fmt.Errorf("%w: bank account %s is inactive", model.ErrValidation, account.AccountNumber)
	}
	if !account.Balance.SameCurrency(p.Amount) {
		return PostingResult{}, fmt.Errorf("%w: payment currency %s does not match account currency %s",
			model.ErrValidation, p.Amount.Currency, account.Balance.Currency)
	}
	if account.Balance.LessThan(p.Amount) {
		return PostingResult{}, fmt.Errorf("%w: account %s holds %s, payment is %s",
			model.ErrInsufficientFunds, account.AccountNumber, account.Balance, p.Amount)
	}

	before := account.Balance
	after := before.Sub(p.Amount)

	if err := l.accountRepo.UpdateBalance(ctx, accountID, after); err != nil {
		return PostingResult{}, fmt.Errorf("failed to update account balance: %w", err)
	}

	expenseID := p.ExpenseID
	projectID := p.ProjectID
	entry := model.CashFlow{
		Type:          model.CashFlowOutflow,
		Amount:        p.Amount,
		BankAccountID: accountID,
		ProjectID:     &projectID,
		ExpenseID:     &expenseID,
		Reference:     p.Reference,
		Description:   fmt.Sprintf("Payment for expense %s (%s)", p.ExpenseNo, p.Amount),
		BalanceBefore: before,
		BalanceAfter:  after,
		CreatedBy:     &p.ActorID,
	}
	if err := l.cashFlowRepo.Append(ctx, &entry); err != nil {
		return PostingResult{}, fmt.Errorf("failed to record cash flow: %w", err)
	}

	if err := l.audit(ctx, model.ActionPostPayment, account, &entry, p.ActorID); err != nil {
		return PostingResult{}, err
	}

	return PostingResult{NewBalance: after, CashFlowEntryID: entry.ID}, nil
}

func (l *cashLedger) PostReceipt(ctx context.Context, accountID uuid.UUID, r Receipt) (PostingResult, error) {
	if !r.Amount.IsPositive() {
		return PostingResult{}, fmt.Errorf("%w: receipt amount must be positive", model.ErrValidation)
	}

	account, err := l.accountRepo.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		return PostingResult{}, err
	}

	if !account.IsActive {
		return PostingResult{}, fmt.Errorf("%w: bank account %s is inactive", model.ErrValidation, account.AccountNumber)
	}
	if !account.Balance.SameCurrency(r.Amount) {
		return PostingResult{}, fmt.Errorf("%w: receipt currency %s does not match account currency %s",
			model.ErrValidation, r.Amount.Currency, account.Balance.Currency)
	}

	before := account.Balance
	after := before.Add(r.Amount)

	if err := l.accountRepo.UpdateBalance(ctx, accountID, after); err != nil {
		return PostingResult{}, fmt.Errorf("failed to update account balance: %w", err)
	}

	description := r.Narrative
	if description == "" {
		description = fmt.Sprintf("Receipt of %s", r.Amount)
	}

	entry := model.CashFlow{
		Type:          model.CashFlowInflow,
		Amount:        r.Amount,
		BankAccountID: accountID,
		ProjectID:     r.ProjectID,
		DonorID:       r.DonorID,
		Reference:     r.Reference,
		Description:   description,
		BalanceBefore: before,
		BalanceAfter:  after,
		CreatedBy:     &r.ActorID,
	}
	if err := l.cashFlowRepo.Append(ctx, &entry); err != nil {
		return PostingResult{}, fmt.Errorf("failed to record cash flow: %w", err)
	}

	if err := l.audit(ctx, model.ActionPostReceipt, account, &entry, r.ActorID); err != nil {
		return PostingResult{}, err
	}

	return PostingResult{NewBalance: after, CashFlowEntryID: entry.ID}, nil
}

func (l *cashLedger) audit(ctx context.Context, action string, account *model.BankAccount, entry *model.CashFlow, actorID uuid.UUID) error {
	details, _ := json.Marshal(map[string]interface{}{
		"bank_account_id": account.ID.String(),
		"amount":          entry.Amount.String(),
		"balance_before":  entry.BalanceBefore.String(),
		"balance_after":   entry.BalanceAfter.String(),
		"cash_flow_id":    entry.ID.String(),
	})
	audit := model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   account.ID.String(),
		EntityName: account.Name,
		Details:    string(details),
	}
	if err := l.auditRepo.Log(ctx, &audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
