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

type BankAccountRepository interface {
	Create(ctx context.Context, account *model.BankAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error)
	// FindByIDForUpdate row-locks the account; balance changes are a
	// serialized read-modify-write per account.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BankAccount, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, page, limit int) ([]model.BankAccount, int64, error)
}

type bankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) Create(ctx context.Context, account *model.BankAccount) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *bankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error) {
	var account model.BankAccount
	if err := GetDB(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bank account %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BankAccount, error) {
	var account model.BankAccount
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bank account %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money) error {
	return GetDB(ctx, r.db).
		Model(&model.BankAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance_amount":   balance.Amount,
			"balance_currency": balance.Currency,
		}).Error
}

func (r *bankAccountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := GetDB(ctx, r.db).
		Model(&model.BankAccount{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: bank account %s", model.ErrNotFound, id)
	}
	return nil
}

func (r *bankAccountRepository) List(ctx context.Context, page, limit int) ([]model.BankAccount, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.BankAccount{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var accounts []model.BankAccount
	if err := db.Order("created_at ASC").Offset(offset).Limit(limit).Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}
