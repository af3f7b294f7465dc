package repository

import (
	"context"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseApprovalRepository appends and reads the immutable decision trail.
// There is deliberately no update or delete.
type ExpenseApprovalRepository interface {
	Append(ctx context.Context, approval *model.ExpenseApproval) error
	ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]model.ExpenseApproval, error)
}

type expenseApprovalRepository struct {
	db *gorm.DB
}

func NewExpenseApprovalRepository(db *gorm.DB) ExpenseApprovalRepository {
	return &expenseApprovalRepository{db: db}
}

func (r *expenseApprovalRepository) Append(ctx context.Context, approval *model.ExpenseApproval) error {
	return GetDB(ctx, r.db).Create(approval).Error
}

func (r *expenseApprovalRepository) ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]model.ExpenseApproval, error) {
	var approvals []model.ExpenseApproval
	if err := GetDB(ctx, r.db).
		Preload("Actor").
		Where("expense_id = ?", expenseID).
		Order("created_at ASC").
		Find(&approvals).Error; err != nil {
		return nil, err
	}
	return approvals, nil
}
