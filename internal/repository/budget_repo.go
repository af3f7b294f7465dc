package repository

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/model"
	"fintrack/pkg/money"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BudgetRepository interface {
	CreateBudget(ctx context.Context, budget *model.Budget) error
	FindBudgetByID(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	ListBudgets(ctx context.Context, projectID *uuid.UUID, page, limit int) ([]model.Budget, int64, error)

	CreateItem(ctx context.Context, item *model.BudgetItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error)
	// FindItemByIDForUpdate row-locks the budget item; spend bookkeeping is a
	// serialized read-modify-write per item.
	FindItemByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error)
	UpdateItemSpent(ctx context.Context, id uuid.UUID, spent money.Money) error
	SaveItem(ctx context.Context, item *model.BudgetItem) error
}

type budgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) CreateBudget(ctx context.Context, budget *model.Budget) error {
	return GetDB(ctx, r.db).Create(budget).Error
}

func (r *budgetRepository) FindBudgetByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var budget model.Budget
	if err := GetDB(ctx, r.db).Preload("Items").First(&budget, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: budget %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) ListBudgets(ctx context.Context, projectID *uuid.UUID, page, limit int) ([]model.Budget, int64, error) {
	db := GetDB(ctx, r.db)
	query := db.Model(&model.Budget{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var budgets []model.Budget
	fetch := db.Preload("Items")
	if projectID != nil {
		fetch = fetch.Where("project_id = ?", *projectID)
	}
	if err := fetch.Order("created_at DESC").Offset(offset).Limit(limit).Find(&budgets).Error; err != nil {
		return nil, 0, err
	}

	return budgets, total, nil
}

func (r *budgetRepository) CreateItem(ctx context.Context, item *model.BudgetItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *budgetRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	var item model.BudgetItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: budget item %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

func (r *budgetRepository) FindItemByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	var item model.BudgetItem
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: budget item %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

func (r *budgetRepository) UpdateItemSpent(ctx context.Context, id uuid.UUID, spent money.Money) error {
	return GetDB(ctx, r.db).
		Model(&model.BudgetItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"spent_amount":   spent.Amount,
			"spent_currency": spent.Currency,
		}).Error
}

func (r *budgetRepository) SaveItem(ctx context.Context, item *model.BudgetItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}
