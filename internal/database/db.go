package database

import (
	"log"

	"fintrack/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Donor{},
		&model.Project{},
		&model.Budget{},
		&model.BudgetItem{},
		&model.Expense{},
		&model.ExpenseApproval{},
		&model.Vendor{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.BankAccount{},
		&model.CashFlow{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
