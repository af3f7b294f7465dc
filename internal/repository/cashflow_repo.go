package repository

import (
	"context"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CashFlowFilter narrows cash-flow listings.
type CashFlowFilter struct {
	BankAccountID *uuid.UUID
	ProjectID     *uuid.UUID
	Type          string
	Page          int
	Limit         int
}

// CashFlowRepository appends and reads the immutable cash ledger. Entries are
// never updated; corrections are new offsetting entries.
type CashFlowRepository interface {
	Append(ctx context.Context, entry *model.CashFlow) error
	List(ctx context.Context, filter CashFlowFilter) ([]model.CashFlow, int64, error)
}

type cashFlowRepository struct {
	db *gorm.DB
}

func NewCashFlowRepository(db *gorm.DB) CashFlowRepository {
	return &cashFlowRepository{db: db}
}

func (r *cashFlowRepository) Append(ctx context.Context, entry *model.CashFlow) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *cashFlowRepository) List(ctx context.Context, filter CashFlowFilter) ([]model.CashFlow, int64, error) {
	db := GetDB(ctx, r.db)

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.BankAccountID != nil {
			q = q.Where("bank_account_id = ?", *filter.BankAccountID)
		}
		if filter.ProjectID != nil {
			q = q.Where("project_id = ?", *filter.ProjectID)
		}
		if filter.Type != "" {
			q = q.Where("type = ?", filter.Type)
		}
		return q
	}

	var total int64
	if err := apply(db.Model(&model.CashFlow{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	var entries []model.CashFlow
	if err := apply(db.Model(&model.CashFlow{})).
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
