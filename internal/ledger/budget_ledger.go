// Package ledger owns the bookkeeping that workflow transitions trigger:
// budget spend against allocation lines and cash movements against bank
// accounts. Ledgers run inside the caller's ambient transaction, row-lock the
// row they mutate, and never call back into workflows.
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

// BudgetLedger applies and reverses spend deltas on budget items. Spend posts
// exactly once, when an expense enters APPROVED; ReverseSpend exists for
// out-of-band corrections of approved expenses and is not part of the normal
// workflow.
type BudgetLedger interface {
	PostSpend(ctx context.Context, itemID uuid.UUID, amount money.Money, actorID uuid.UUID) (money.Money, error)
	ReverseSpend(ctx context.Context, itemID uuid.UUID, amount money.Money, actorID uuid.UUID) (money.Money, error)
}

type budgetLedger struct {
	budgetRepo repository.BudgetRepository
	auditRepo  repository.AuditRepository
}

func NewBudgetLedger(budgetRepo repository.BudgetRepository, auditRepo repository.AuditRepository) BudgetLedger {
	return &budgetLedger{budgetRepo: budgetRepo, auditRepo: auditRepo}
}

func (l *budgetLedger) PostSpend(ctx context.Context, itemID uuid.UUID, amount money.Money, actorID uuid.UUID) (money.Money, error) {
	return l.applyDelta(ctx, itemID, amount, actorID, model.ActionPostSpend, false)
}

func (l *budgetLedger) ReverseSpend(ctx context.Context, itemID uuid.UUID, amount money.Money, actorID uuid.UUID) (money.Money, error) {
	return l.applyDelta(ctx, itemID, amount, actorID, model.ActionReverseSpend, true)
}

func (l *budgetLedger) applyDelta(ctx context.Context, itemID uuid.UUID, amount money.Money, actorID uuid.UUID, action string, reverse bool) (money.Money, error) {
	if !amount.IsPositive() {
		return money.Money{}, fmt.Errorf("%w: spend amount must be positive", model.ErrValidation)
	}

	item, err := l.budgetRepo.FindItemByIDForUpdate(ctx, itemID)
	if err != nil {
		return money.Money{}, err
	}

	if !item.Spent.SameCurrency(amount) {
		return money.Money{}, fmt.Errorf("%w: amount currency %s does not match budget item currency %s",
			model.ErrValidation, amount.Currency, item.Spent.Currency)
	}

	before := item.Spent
	newSpent := before.Add(amount)
	if reverse {
		newSpent = before.Sub(amount)
		if newSpent.IsNegative() {
			return money.Money{}, fmt.Errorf("%w: reversal of %s exceeds posted spend %s",
				model.ErrValidation, amount, before)
		}
	}

	// No ceiling against the allocation: over-allocation is permitted and
	// only surfaced through utilization reporting.
	if err := l.budgetRepo.UpdateItemSpent(ctx, itemID, newSpent); err != nil {
		return money.Money{}, fmt.Errorf("failed to update budget item spent: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"budget_item_id": itemID.String(),
		"amount":         amount.String(),
		"spent_before":   before.String(),
		"spent_after":    newSpent.String(),
	})
	audit := model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   itemID.String(),
		EntityName: item.Category,
		Details:    string(details),
	}
	if err := l.auditRepo.Log(ctx, &audit); err != nil {
		return money.Money{}, fmt.Errorf("failed to write audit log: %w", err)
	}

	return newSpent, nil
}
