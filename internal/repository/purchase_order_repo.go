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

// PurchaseOrderFilter narrows purchase order listings.
type PurchaseOrderFilter struct {
	ProjectID *uuid.UUID
	VendorID  *uuid.UUID
	Status    string
	Page      int
	Limit     int
}

type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	// FindByIDForUpdate row-locks the PO and loads its items; receive calls
	// serialize on this lock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	Save(ctx context.Context, po *model.PurchaseOrder) error
	// SaveFromStatus persists the PO only if its row still holds fromStatus,
	// surfacing ErrConcurrentModification otherwise.
	SaveFromStatus(ctx context.Context, po *model.PurchaseOrder, fromStatus string) error
	ReplaceItems(ctx context.Context, poID uuid.UUID, items []model.PurchaseOrderItem) error
	SaveItem(ctx context.Context, item *model.PurchaseOrderItem) error
	List(ctx context.Context, filter PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error)
	// NextPONo issues the next PO-YYYYMMDD-NNNNN number. Must run inside a
	// transaction; an advisory lock serializes concurrent issuers.
	NextPONo(ctx context.Context) (string, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(po).Error
}

func (r *purchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Vendor").First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase order %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	db := GetDB(ctx, r.db)

	var po model.PurchaseOrder
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&po, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase order %s", model.ErrNotFound, id)
		}
		return nil, err
	}

	// Items load after the parent lock is held.
	if err := db.Where("purchase_order_id = ?", id).Order("created_at").Find(&po.Items).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) Save(ctx context.Context, po *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Omit("Items", "Vendor", "Project").Save(po).Error
}

func (r *purchaseOrderRepository) SaveFromStatus(ctx context.Context, po *model.PurchaseOrder, fromStatus string) error {
	res := GetDB(ctx, r.db).
		Model(&model.PurchaseOrder{}).
		Where("id = ? AND status = ?", po.ID, fromStatus).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(po)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: purchase order %s left %s while the transition was in flight",
			model.ErrConcurrentModification, po.ID, fromStatus)
	}
	return nil
}

func (r *purchaseOrderRepository) ReplaceItems(ctx context.Context, poID uuid.UUID, items []model.PurchaseOrderItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("purchase_order_id = ?", poID).Delete(&model.PurchaseOrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].PurchaseOrderID = poID
	}
	return db.Create(&items).Error
}

func (r *purchaseOrderRepository) SaveItem(ctx context.Context, item *model.PurchaseOrderItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *purchaseOrderRepository) List(ctx context.Context, filter PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error) {
	db := GetDB(ctx, r.db)

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.ProjectID != nil {
			q = q.Where("project_id = ?", *filter.ProjectID)
		}
		if filter.VendorID != nil {
			q = q.Where("vendor_id = ?", *filter.VendorID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := apply(db.Model(&model.PurchaseOrder{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	var pos []model.PurchaseOrder
	if err := apply(db.Model(&model.PurchaseOrder{})).
		Preload("Items").
		Preload("Vendor").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	return pos, total, nil
}

func (r *purchaseOrderRepository) NextPONo(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	today := time.Now().Format("20060102")
	prefix := "PO-" + today + "-"

	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var count int64
	if err := db.Model(&model.PurchaseOrder{}).
		Unscoped().
		Where("po_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}
