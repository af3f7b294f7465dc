package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateExpense  = "CREATE_EXPENSE"
	ActionUpdateExpense  = "UPDATE_EXPENSE"
	ActionDeleteExpense  = "DELETE_EXPENSE"
	ActionSubmitExpense  = "SUBMIT_EXPENSE"
	ActionReviewExpense  = "REVIEW_EXPENSE"
	ActionApproveExpense = "APPROVE_EXPENSE"
	ActionRejectExpense  = "REJECT_EXPENSE"
	ActionPayExpense     = "PAY_EXPENSE"

	ActionCreatePO   = "CREATE_PURCHASE_ORDER"
	ActionUpdatePO   = "UPDATE_PURCHASE_ORDER"
	ActionSubmitPO   = "SUBMIT_PURCHASE_ORDER"
	ActionApprovePO  = "APPROVE_PURCHASE_ORDER"
	ActionRejectPO   = "REJECT_PURCHASE_ORDER"
	ActionReceivePO  = "RECEIVE_PURCHASE_ORDER"
	ActionCompletePO = "COMPLETE_PURCHASE_ORDER"
	ActionCancelPO   = "CANCEL_PURCHASE_ORDER"
	ActionLinkPO     = "LINK_PURCHASE_ORDER_EXPENSE"
	ActionUnlinkPO   = "UNLINK_PURCHASE_ORDER_EXPENSE"

	ActionPostSpend    = "POST_BUDGET_SPEND"
	ActionReverseSpend = "REVERSE_BUDGET_SPEND"
	ActionPostPayment  = "POST_PAYMENT"
	ActionPostReceipt  = "POST_RECEIPT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated bot
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
