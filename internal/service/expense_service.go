package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/authz"
	"fintrack/internal/event"
	"fintrack/internal/ledger"
	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateExpenseRequest struct {
	AmountMinor     int64  `json:"amount_minor" binding:"required,gt=0"` // integer minor units, never a float
	Currency        string `json:"currency" binding:"required,len=3"`
	Description     string `json:"description"`
	Category        string `json:"category" binding:"required"`
	ProjectID       string `json:"project_id" binding:"required"`
	BudgetItemID    string `json:"budget_item_id" binding:"required"`
	PurchaseOrderID string `json:"purchase_order_id"`
}

type UpdateExpenseRequest struct {
	AmountMinor  int64  `json:"amount_minor" binding:"omitempty,gt=0"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	BudgetItemID string `json:"budget_item_id"`
}

type ReviewExpenseRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Comments string `json:"comments"` // required when Decision is REJECT
}

type MarkPaidRequest struct {
	BankAccountID    string `json:"bank_account_id" binding:"required"`
	PaymentReference string `json:"payment_reference" binding:"required"`
	PaymentMethod    string `json:"payment_method" binding:"required"`
}

type ExpenseResponse struct {
	ID               string       `json:"id"`
	ExpenseNo        string       `json:"expense_no"`
	Amount           money.Money  `json:"amount"`
	Description      string       `json:"description"`
	Category         string       `json:"category"`
	Status           string       `json:"status"`
	ProjectID        string       `json:"project_id"`
	BudgetItemID     string       `json:"budget_item_id"`
	SubmittedBy      string       `json:"submitted_by"`
	ReviewedBy       *string      `json:"reviewed_by"`
	ApprovedBy       *string      `json:"approved_by"`
	PaidBy           *string      `json:"paid_by"`
	RejectionReason  string       `json:"rejection_reason,omitempty"`
	BankAccountID    *string      `json:"bank_account_id"`
	PaymentReference *string      `json:"payment_reference"`
	PaymentMethod    *string      `json:"payment_method"`
	PaidAt           *string      `json:"paid_at"`
	PurchaseOrderID  *string      `json:"purchase_order_id"`
	CreatedAt        string       `json:"created_at"`
	UpdatedAt        string       `json:"updated_at"`
}

type ExpenseApprovalResponse struct {
	ID        string `json:"id"`
	ExpenseID string `json:"expense_id"`
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name,omitempty"`
	Action    string `json:"action"`
	Comments  string `json:"comments"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

// ExpenseService orchestrates the expense approval state machine. Every
// transition re-reads the expense under a row lock, asks the authorization
// guard against that freshly-read state, applies ledger effects in the same
// transaction, and appends the decision trail.
type ExpenseService interface {
	CreateExpense(ctx context.Context, actor Actor, req CreateExpenseRequest) (ExpenseResponse, error)
	UpdateExpense(ctx context.Context, id string, actor Actor, req UpdateExpenseRequest) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string, actor Actor) error
	SubmitExpense(ctx context.Context, id string, actor Actor) (ExpenseResponse, error)
	ReviewExpense(ctx context.Context, id string, actor Actor, req ReviewExpenseRequest) (ExpenseResponse, error)
	ApproveExpense(ctx context.Context, id string, actor Actor, comments string) (ExpenseResponse, error)
	RejectExpense(ctx context.Context, id string, actor Actor, reason string) (ExpenseResponse, error)
	MarkPaid(ctx context.Context, id string, actor Actor, req MarkPaidRequest) (ExpenseResponse, error)
	GetExpense(ctx context.Context, id string) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]ExpenseResponse, int64, error)
	GetApprovalHistory(ctx context.Context, id string) ([]ExpenseApprovalResponse, error)
}

type expenseService struct {
	expenseRepo  repository.ExpenseRepository
	approvalRepo repository.ExpenseApprovalRepository
	budgetRepo   repository.BudgetRepository
	projectRepo  repository.ProjectRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	budgetLedger ledger.BudgetLedger
	cashLedger   ledger.CashLedger
	events       event.Publisher
}

func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	approvalRepo repository.ExpenseApprovalRepository,
	budgetRepo repository.BudgetRepository,
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	budgetLedger ledger.BudgetLedger,
	cashLedger ledger.CashLedger,
	events event.Publisher,
) ExpenseService {
	return &expenseService{
		expenseRepo:  expenseRepo,
		approvalRepo: approvalRepo,
		budgetRepo:   budgetRepo,
		projectRepo:  projectRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		budgetLedger: budgetLedger,
		cashLedger:   cashLedger,
		events:       events,
	}
}

// --- Implementation ---

func (s *expenseService) CreateExpense(ctx context.Context, actor Actor, req CreateExpenseRequest) (ExpenseResponse, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid project_id", model.ErrValidation)
	}
	budgetItemID, err := uuid.Parse(req.BudgetItemID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid budget_item_id", model.ErrValidation)
	}

	amount := money.New(req.AmountMinor, req.Currency)
	if !amount.IsPositive() {
		return ExpenseResponse{}, fmt.Errorf("%w: amount must be greater than 0", model.ErrValidation)
	}

	var poID *uuid.UUID
	if req.PurchaseOrderID != "" {
		parsed, parseErr := uuid.Parse(req.PurchaseOrderID)
		if parseErr != nil {
			return ExpenseResponse{}, fmt.Errorf("%w: invalid purchase_order_id", model.ErrValidation)
		}
		poID = &parsed
	}

	var expense model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.projectRepo.FindByID(txCtx, projectID); findErr != nil {
			return findErr
		}

		item, findErr := s.budgetRepo.FindItemByID(txCtx, budgetItemID)
		if findErr != nil {
			return findErr
		}
		if !item.Allocated.SameCurrency(amount) {
			return fmt.Errorf("%w: expense currency %s does not match budget item currency %s",
				model.ErrValidation, amount.Currency, item.Allocated.Currency)
		}

		expenseNo, noErr := s.expenseRepo.NextExpenseNo(txCtx)
		if noErr != nil {
			return fmt.Errorf("failed to generate expense number: %w", noErr)
		}

		expense = model.Expense{
			ExpenseNo:       expenseNo,
			Amount:          amount,
			Description:     req.Description,
			Category:        req.Category,
			Status:          model.ExpenseStatusDraft,
			ProjectID:       projectID,
			BudgetItemID:    budgetItemID,
			SubmittedBy:     actor.ID,
			PurchaseOrderID: poID,
		}
		if createErr := s.expenseRepo.Create(txCtx, &expense); createErr != nil {
			return fmt.Errorf("failed to create expense: %w", createErr)
		}

		return s.audit(txCtx, actor, model.ActionCreateExpense, &expense, map[string]interface{}{
			"amount": amount.String(),
		})
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	return toExpenseResponse(expense), nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id string, actor Actor, req UpdateExpenseRequest) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.ExpenseUpdate, expense.Status,
			authz.Facts{IsOwner: expense.SubmittedBy == actor.ID}); guardErr != nil {
			return guardErr
		}

		if req.AmountMinor > 0 {
			updated := money.New(req.AmountMinor, expense.Amount.Currency)
			expense.Amount = updated
		}
		if req.Description != "" {
			expense.Description = req.Description
		}
		if req.Category != "" {
			expense.Category = req.Category
		}
		if req.BudgetItemID != "" {
			itemID, parseErr := uuid.Parse(req.BudgetItemID)
			if parseErr != nil {
				return fmt.Errorf("%w: invalid budget_item_id", model.ErrValidation)
			}
			item, itemErr := s.budgetRepo.FindItemByID(txCtx, itemID)
			if itemErr != nil {
				return itemErr
			}
			if !item.Allocated.SameCurrency(expense.Amount) {
				return fmt.Errorf("%w: expense currency %s does not match budget item currency %s",
					model.ErrValidation, expense.Amount.Currency, item.Allocated.Currency)
			}
			expense.BudgetItemID = itemID
		}

		if saveErr := s.expenseRepo.Save(txCtx, expense); saveErr != nil {
			return fmt.Errorf("failed to update expense: %w", saveErr)
		}

		return s.audit(txCtx, actor, model.ActionUpdateExpense, expense, nil)
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	return toExpenseResponse(*expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string, actor Actor) error {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		expense, findErr := s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.ExpenseDelete, expense.Status,
			authz.Facts{IsOwner: expense.SubmittedBy == actor.ID}); guardErr != nil {
			return guardErr
		}

		if delErr := s.expenseRepo.Delete(txCtx, expenseID); delErr != nil {
			return fmt.Errorf("failed to delete expense: %w", delErr)
		}

		return s.audit(txCtx, actor, model.ActionDeleteExpense, expense, nil)
	})
}

func (s *expenseService) SubmitExpense(ctx context.Context, id string, actor Actor) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.ExpenseSubmit, expense.Status,
			authz.Facts{IsOwner: expense.SubmittedBy == actor.ID}); guardErr != nil {
			return guardErr
		}

		fromStatus := expense.Status
		expense.Status = model.ExpenseStatusSubmitted
		expense.RejectionReason = ""

		if saveErr := s.expenseRepo.SaveFromStatus(txCtx, expense, fromStatus); saveErr != nil {
			return saveErr
		}

		// Resubmission is not itself a decision; no approval record here.
		return s.audit(txCtx, actor, model.ActionSubmitExpense, expense, map[string]interface{}{
			"from": fromStatus,
		})
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	s.publish(event.ExpenseSubmitted, expense, actor, nil)
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) ReviewExpense(ctx context.Context, id string, actor Actor, req ReviewExpenseRequest) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}

	approve := req.Decision == "APPROVE"
	if !approve && strings.TrimSpace(req.Comments) == "" {
		return ExpenseResponse{}, fmt.Errorf("%w: a rejection requires a non-empty reason", model.ErrValidation)
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.ExpenseReview, expense.Status, authz.Facts{}); guardErr != nil {
			return guardErr
		}

		fromStatus := expense.Status
		actorID := actor.ID
		expense.ReviewedBy = &actorID

		action := model.ApprovalActionReviewed
		if approve {
			expense.Status = model.ExpenseStatusUnderReview
		} else {
			expense.Status = model.ExpenseStatusRejected
			expense.RejectionReason = req.Comments
			action = model.ApprovalActionRejected
		}

		if saveErr := s.expenseRepo.SaveFromStatus(txCtx, expense, fromStatus); saveErr != nil {
			return saveErr
		}

		if appendErr := s.appendDecision(txCtx, expense.ID, actor.ID, action, req.Comments); appendErr != nil {
			return appendErr
		}

		return s.audit(txCtx, actor, model.ActionReviewExpense, expense, map[string]interface{}{
			"decision": req.Decision,
		})
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	if approve {
		s.publish(event.ExpenseReviewed, expense, actor, nil)
	} else {
		s.publish(event.ExpenseRejected, expense, actor, map[string]interface{}{"reason": req.Comments})
	}
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) ApproveExpense(ctx context.Context, id string, actor Actor, comments string) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.ExpenseApprove, expense.Status, authz.Facts{}); guardErr != nil {
			return guardErr
		}

		// Spend posts exactly once, here. Approved -> Paid touches the cash
		// ledger only.
		if _, postErr := s.budgetLedger.PostSpend(txCtx, expense.BudgetItemID, expense.Amount, actor.ID); postErr != nil {
			return postErr
		}

		fromStatus := expense.Status
		actorID := actor.ID
		expense.Status = model.ExpenseStatusApproved
		expense.ApprovedBy = &actorID

		if saveErr := s.expenseRepo.SaveFromStatus(txCtx, expense, fromStatus); saveErr != nil {
			return saveErr
		}

		if appendErr := s.appendDecision(txCtx, expense.ID, actor.ID, model.ApprovalActionApproved, comments); appendErr != nil {
			return appendErr
		}

		return s.audit(txCtx, actor, model.ActionApproveExpense, expense, map[string]interface{}{
			"amount": expense.Amount.String(),
		})
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	s.publish(event.ExpenseApproved, expense, actor, nil)
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) RejectExpense(ctx context.Context, id string, actor Actor, reason string) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}
	if strings.TrimSpace(reason) == "" {
		return ExpenseResponse{}, fmt.Errorf("%w: a rejection requires a non-empty reason", model.ErrValidation)
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.ExpenseReject, expense.Status, authz.Facts{}); guardErr != nil {
			return guardErr
		}

		fromStatus := expense.Status
		expense.Status = model.ExpenseStatusRejected
		expense.RejectionReason = reason

		if saveErr := s.expenseRepo.SaveFromStatus(txCtx, expense, fromStatus); saveErr != nil {
			return saveErr
		}

		if appendErr := s.appendDecision(txCtx, expense.ID, actor.ID, model.ApprovalActionRejected, reason); appendErr != nil {
			return appendErr
		}

		return s.audit(txCtx, actor, model.ActionRejectExpense, expense, map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	s.publish(event.ExpenseRejected, expense, actor, map[string]interface{}{"reason": reason})
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) MarkPaid(ctx context.Context, id string, actor Actor, req MarkPaidRequest) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}
	bankAccountID, err := uuid.Parse(req.BankAccountID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid bank_account_id", model.ErrValidation)
	}
	if strings.TrimSpace(req.PaymentReference) == "" || strings.TrimSpace(req.PaymentMethod) == "" {
		return ExpenseResponse{}, fmt.Errorf("%w: payment reference and method are required", model.ErrValidation)
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.ExpenseMarkPaid, expense.Status, authz.Facts{}); guardErr != nil {
			return guardErr
		}

		// Entity lock is already held; the cash ledger locks the account row
		// next. On InsufficientFunds the transaction rolls back and the
		// expense stays Approved.
		_, payErr := s.cashLedger.PostPayment(txCtx, bankAccountID, ledger.Payment{
			Amount:    expense.Amount,
			ExpenseID: expense.ID,
			ExpenseNo: expense.ExpenseNo,
			ProjectID: expense.ProjectID,
			Reference: req.PaymentReference,
			ActorID:   actor.ID,
		})
		if payErr != nil {
			return payErr
		}

		fromStatus := expense.Status
		now := time.Now()
		actorID := actor.ID
		reference := req.PaymentReference
		method := req.PaymentMethod
		expense.Status = model.ExpenseStatusPaid
		expense.PaidBy = &actorID
		expense.BankAccountID = &bankAccountID
		expense.PaymentReference = &reference
		expense.PaymentMethod = &method
		expense.PaidAt = &now

		if saveErr := s.expenseRepo.SaveFromStatus(txCtx, expense, fromStatus); saveErr != nil {
			return saveErr
		}

		return s.audit(txCtx, actor, model.ActionPayExpense, expense, map[string]interface{}{
			"bank_account_id":   req.BankAccountID,
			"payment_reference": req.PaymentReference,
			"payment_method":    req.PaymentMethod,
		})
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	s.publish(event.ExpensePaid, expense, actor, map[string]interface{}{
		"bank_account_id": req.BankAccountID,
	})
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) GetExpense(ctx context.Context, id string) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return ExpenseResponse{}, err
	}
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]ExpenseResponse, int64, error) {
	expenses, total, err := s.expenseRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, toExpenseResponse(e))
	}
	return result, total, nil
}

func (s *expenseService) GetApprovalHistory(ctx context.Context, id string) ([]ExpenseApprovalResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}

	approvals, err := s.approvalRepo.ListByExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	result := make([]ExpenseApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		resp := ExpenseApprovalResponse{
			ID:        a.ID.String(),
			ExpenseID: a.ExpenseID.String(),
			ActorID:   a.ActorID.String(),
			Action:    a.Action,
			Comments:  a.Comments,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
		if a.Actor != nil {
			resp.ActorName = a.Actor.Username
		}
		result = append(result, resp)
	}
	return result, nil
}

// --- Helpers ---

func (s *expenseService) appendDecision(ctx context.Context, expenseID, actorID uuid.UUID, action, comments string) error {
	approval := model.ExpenseApproval{
		ExpenseID: expenseID,
		ActorID:   actorID,
		Action:    action,
		Comments:  comments,
	}
	if err := s.approvalRepo.Append(ctx, &approval); err != nil {
		return fmt.Errorf("failed to record approval decision: %w", err)
	}
	return nil
}

func (s *expenseService) audit(ctx context.Context, actor Actor, action string, expense *model.Expense, extra map[string]interface{}) error {
	payload := map[string]interface{}{
		"expense_no": expense.ExpenseNo,
		"status":     expense.Status,
	}
	for k, v := range extra {
		payload[k] = v
	}
	details, _ := json.Marshal(payload)

	actorID := actor.ID
	entry := model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   expense.ID.String(),
		EntityName: expense.ExpenseNo,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *expenseService) publish(eventType string, expense *model.Expense, actor Actor, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(event.Event{
		Type:     eventType,
		EntityID: expense.ID,
		ActorID:  actor.ID,
		Data:     data,
	})
}

func toExpenseResponse(e model.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:              e.ID.String(),
		ExpenseNo:       e.ExpenseNo,
		Amount:          e.Amount,
		Description:     e.Description,
		Category:        e.Category,
		Status:          e.Status,
		ProjectID:       e.ProjectID.String(),
		BudgetItemID:    e.BudgetItemID.String(),
		SubmittedBy:     e.SubmittedBy.String(),
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
	if e.ReviewedBy != nil {
		v := e.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if e.ApprovedBy != nil {
		v := e.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if e.PaidBy != nil {
		v := e.PaidBy.String()
		resp.PaidBy = &v
	}
	if e.BankAccountID != nil {
		v := e.BankAccountID.String()
		resp.BankAccountID = &v
	}
	resp.PaymentReference = e.PaymentReference
	resp.PaymentMethod = e.PaymentMethod
	if e.PaidAt != nil {
		v := e.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	if e.PurchaseOrderID != nil {
		v := e.PurchaseOrderID.String()
		resp.PurchaseOrderID = &v
	}
	return resp
}
