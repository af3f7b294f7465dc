package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/pkg/money"
)

// PurchaseOrderStatus enum constants
const (
	POStatusDraft             = "DRAFT"
	POStatusPending           = "PENDING"
	POStatusApproved          = "APPROVED"
	POStatusRejected          = "REJECTED"
	POStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	POStatusReceived          = "RECEIVED"
	POStatusCompleted         = "COMPLETED"
	POStatusCancelled         = "CANCELLED"
)

// Vendor represents a supplier purchase orders are placed against.
type Vendor struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	ContactPerson string         `gorm:"type:varchar(255)" json:"contact_person"`
	Email         string         `gorm:"type:varchar(255)" json:"email"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone"`
	Address       string         `gorm:"type:text" json:"address"`
	TaxCode       *string        `gorm:"type:varchar(50)" json:"tax_code"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PurchaseOrder represents a procurement request. Totals are recomputed from
// the line items whenever they change while the PO is still DRAFT.
type PurchaseOrder struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PONo      string              `gorm:"column:po_no;type:varchar(30);uniqueIndex;not null" json:"po_no"`
	VendorID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor    *Vendor             `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ProjectID uuid.UUID           `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project            `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Status    string              `gorm:"type:varchar(30);not null;default:'DRAFT';index" json:"status"`
	Items     []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`

	TaxRate  decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"tax_rate"` // e.g. 0.10 for 10%
	Subtotal money.Money     `gorm:"embedded;embeddedPrefix:subtotal_" json:"subtotal"`
	Tax      money.Money     `gorm:"embedded;embeddedPrefix:tax_" json:"tax"`
	Total    money.Money     `gorm:"embedded;embeddedPrefix:total_" json:"total"`

	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	SubmittedBy     *uuid.UUID `gorm:"type:uuid" json:"submitted_by"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	RejectedBy      *uuid.UUID `gorm:"type:uuid" json:"rejected_by"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`

	Note      string         `gorm:"type:text" json:"note"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PurchaseOrderItem is one ordered line. QuantityReceived accumulates across
// receive calls and may never exceed Quantity.
type PurchaseOrderItem struct {
	ID               uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseOrderID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	Description      string      `gorm:"type:varchar(255);not null" json:"description"`
	Quantity         int         `gorm:"type:int;not null" json:"quantity"`
	QuantityReceived int         `gorm:"type:int;not null;default:0" json:"quantity_received"`
	UnitPrice        money.Money `gorm:"embedded;embeddedPrefix:unit_price_" json:"unit_price"`
	CreatedAt        time.Time   `json:"created_at"`
}

// FullyReceived reports whether every unit on this line has arrived.
func (i *PurchaseOrderItem) FullyReceived() bool {
	return i.QuantityReceived >= i.Quantity
}
