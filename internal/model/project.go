package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fintrack/pkg/money"
)

// ProjectStatus enum constants
const (
	ProjectStatusActive    = "ACTIVE"
	ProjectStatusCompleted = "COMPLETED"
	ProjectStatusOnHold    = "ON_HOLD"
)

// Project represents a funded programme that expenses, purchase orders and
// budgets attach to.
type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	DonorID     *uuid.UUID     `gorm:"type:uuid;index" json:"donor_id"`
	Donor       *Donor         `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Donor represents a funding source. Donor disbursements are recorded as
// cash-flow inflows by the cash ledger.
type Donor struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	ContactPerson string         `gorm:"type:varchar(255)" json:"contact_person"`
	Email         string         `gorm:"type:varchar(255)" json:"email"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Budget groups the budget items of one project. Allocation bookkeeping
// happens per item; the budget row itself is descriptive.
type Budget struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project     `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	FiscalYear  int          `gorm:"not null" json:"fiscal_year"`
	Description string       `gorm:"type:text" json:"description"`
	Items       []BudgetItem `gorm:"foreignKey:BudgetID" json:"items,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BudgetItem carries the allocation/spend pair for one budget line. Spent is
// mutated only by the budget ledger, under a row lock, when an expense enters
// Approved (add) or an approved expense is voided out-of-band (subtract).
// Spend is not capped at the allocation; over-allocation surfaces through
// utilization reporting only.
type BudgetItem struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BudgetID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"budget_id"`
	Category  string      `gorm:"type:varchar(100);not null" json:"category"`
	Allocated money.Money `gorm:"embedded;embeddedPrefix:allocated_" json:"allocated"`
	Spent     money.Money `gorm:"embedded;embeddedPrefix:spent_" json:"spent"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
