package model

import (
	"time"

	"github.com/google/uuid"

	"fintrack/pkg/money"
)

// CashFlowType enum constants
const (
	CashFlowInflow  = "INFLOW"
	CashFlowOutflow = "OUTFLOW"
)

// BankAccount holds an organisation account balance. The balance is mutated
// only by the cash ledger and must never go negative from a payment posting.
type BankAccount struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string      `gorm:"type:varchar(255);not null" json:"name"`
	AccountNumber string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"account_number"`
	BankName      string      `gorm:"type:varchar(255)" json:"bank_name"`
	Balance       money.Money `gorm:"embedded;embeddedPrefix:balance_" json:"balance"`
	IsActive      bool        `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CashFlow is an append-only ledger entry recorded once per posted payment or
// receipt. Never mutated; a reversal is a new offsetting entry.
type CashFlow struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type          string       `gorm:"type:varchar(10);not null;index" json:"type"` // INFLOW, OUTFLOW
	Amount        money.Money  `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	BankAccountID uuid.UUID    `gorm:"type:uuid;not null;index" json:"bank_account_id"`
	BankAccount   *BankAccount `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`

	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	ExpenseID *uuid.UUID `gorm:"type:uuid;index" json:"expense_id"`
	DonorID   *uuid.UUID `gorm:"type:uuid;index" json:"donor_id"`

	Reference   string `gorm:"type:varchar(100)" json:"reference"`
	Description string `gorm:"type:text" json:"description"`

	BalanceBefore money.Money `gorm:"embedded;embeddedPrefix:balance_before_" json:"balance_before"`
	BalanceAfter  money.Money `gorm:"embedded;embeddedPrefix:balance_after_" json:"balance_after"`

	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}
