package repository

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonorRepository interface {
	Create(ctx context.Context, donor *model.Donor) error
	Update(ctx context.Context, donor *model.Donor) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Donor, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Donor, int64, error)
}

type donorRepository struct {
	db *gorm.DB
}

func NewDonorRepository(db *gorm.DB) DonorRepository {
	return &donorRepository{db: db}
}

func (r *donorRepository) Create(ctx context.Context, donor *model.Donor) error {
	return GetDB(ctx, r.db).Create(donor).Error
}

func (r *donorRepository) Update(ctx context.Context, donor *model.Donor) error {
	return GetDB(ctx, r.db).Save(donor).Error
}

func (r *donorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Donor{}).Error
}

func (r *donorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Donor, error) {
	var donor model.Donor
	if err := GetDB(ctx, r.db).First(&donor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: donor %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) List(ctx context.Context, search string, page, limit int) ([]model.Donor, int64, error) {
	db := GetDB(ctx, r.db)
	query := db.Model(&model.Donor{})
	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var donors []model.Donor
	fetch := db.Model(&model.Donor{})
	if search != "" {
		fetch = fetch.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := fetch.Order("name ASC").Offset(offset).Limit(limit).Find(&donors).Error; err != nil {
		return nil, 0, err
	}

	return donors, total, nil
}
