package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fintrack/pkg/money"
)

// ExpenseStatus enum constants
const (
	ExpenseStatusDraft       = "DRAFT"
	ExpenseStatusSubmitted   = "SUBMITTED"
	ExpenseStatusUnderReview = "UNDER_REVIEW"
	ExpenseStatusApproved    = "APPROVED"
	ExpenseStatusRejected    = "REJECTED"
	ExpenseStatusPaid        = "PAID"
)

// ExpenseApprovalAction enum constants
const (
	ApprovalActionReviewed = "REVIEWED"
	ApprovalActionApproved = "APPROVED"
	ApprovalActionRejected = "REJECTED"
)

// Expense represents a spend request moving through the approval workflow.
// Mutated only through workflow transitions; soft-deletable only while DRAFT.
type Expense struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExpenseNo    string      `gorm:"type:varchar(30);uniqueIndex;not null" json:"expense_no"`
	Amount       money.Money `gorm:"embedded;embeddedPrefix:amount_" json:"amount"` // always > 0
	Description  string      `gorm:"type:text" json:"description"`
	Category     string      `gorm:"type:varchar(100);not null" json:"category"`
	Status       string      `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	ProjectID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"project_id"`
	Project      *Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BudgetItemID uuid.UUID   `gorm:"type:uuid;not null;index" json:"budget_item_id"`
	BudgetItem   *BudgetItem `gorm:"foreignKey:BudgetItemID" json:"budget_item,omitempty"`

	SubmittedBy uuid.UUID  `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Submitter   *User      `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	Reviewer    *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	Approver    *User      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	PaidBy      *uuid.UUID `gorm:"type:uuid" json:"paid_by"`

	RejectionReason string `gorm:"type:text" json:"rejection_reason"` // required when REJECTED

	// Payment fields: all-or-nothing, set only on markPaid.
	BankAccountID    *uuid.UUID `gorm:"type:uuid;index" json:"bank_account_id"`
	PaymentReference *string    `gorm:"type:varchar(100)" json:"payment_reference"`
	PaymentMethod    *string    `gorm:"type:varchar(50)" json:"payment_method"`
	PaidAt           *time.Time `json:"paid_at"`

	PurchaseOrderID *uuid.UUID `gorm:"type:uuid;index" json:"purchase_order_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Editable reports whether the expense may still be updated by its submitter.
func (e *Expense) Editable() bool {
	return e.Status == ExpenseStatusDraft || e.Status == ExpenseStatusRejected
}

// ExpenseApproval is the append-only decision record: one row per review,
// approval or rejection. Never mutated or deleted.
type ExpenseApproval struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExpenseID uuid.UUID `gorm:"type:uuid;not null;index" json:"expense_id"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`
	Actor     *User     `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Action    string    `gorm:"type:varchar(20);not null" json:"action"` // REVIEWED, APPROVED, REJECTED
	Comments  string    `gorm:"type:text" json:"comments"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
