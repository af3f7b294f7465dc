package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	ProjectID   *uuid.UUID
	Status      string
	SubmittedBy *uuid.UUID
	Page        int
	Limit       int
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	// FindByIDForUpdate row-locks the expense for the duration of the ambient
	// transaction. Workflow transitions always read through this.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	Save(ctx context.Context, expense *model.Expense) error
	// SaveFromStatus persists the expense only if its row still holds
	// fromStatus, surfacing ErrConcurrentModification otherwise.
	SaveFromStatus(ctx context.Context, expense *model.Expense, fromStatus string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error)
	// NextExpenseNo issues the next EXP-YYYYMMDD-NNNNN number. Must run
	// inside a transaction; an advisory lock serializes concurrent issuers.
	NextExpenseNo(ctx context.Context) (string, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: expense %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&expense, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: expense %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) Save(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) SaveFromStatus(ctx context.Context, expense *model.Expense, fromStatus string) error {
	res := GetDB(ctx, r.db).
		Model(&model.Expense{}).
		Where("id = ? AND status = ?", expense.ID, fromStatus).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(expense)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: expense %s left %s while the transition was in flight",
			model.ErrConcurrentModification, expense.ID, fromStatus)
	}
	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Expense{}).Error
}

func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error) {
	db := GetDB(ctx, r.db)

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.ProjectID != nil {
			q = q.Where("project_id = ?", *filter.ProjectID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.SubmittedBy != nil {
			q = q.Where("submitted_by = ?", *filter.SubmittedBy)
		}
		return q
	}

	var total int64
	if err := apply(db.Model(&model.Expense{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	var expenses []model.Expense
	if err := apply(db.Model(&model.Expense{})).
		Preload("Submitter").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) NextExpenseNo(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	today := time.Now().Format("20060102")
	prefix := "EXP-" + today + "-"

	// Advisory lock prevents concurrent issuers from counting the same gap.
	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var count int64
	if err := db.Model(&model.Expense{}).
		Unscoped().
		Where("expense_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}
