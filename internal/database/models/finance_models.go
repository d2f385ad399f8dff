package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// CategoryProjectExpense marks manual transactions attributable to a project.
const CategoryProjectExpense = "project_expense"

// Transaction is a manually recorded income or expense entry. ProjectID links
// project expenses to their project; the older description-contains matching
// is still honored behind config.FinanceConfig.LegacyProjectExpenseMatch.
type Transaction struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        string          `gorm:"type:varchar(16);not null;index" json:"type"`
	Category    string          `gorm:"type:varchar(64);not null;index" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date        *time.Time      `gorm:"not null;index" json:"date"`
	Description string          `gorm:"type:text" json:"description"`
	Reference   string          `gorm:"type:varchar(64)" json:"reference"`
	ProjectID   *int64          `gorm:"index" json:"project_id"`
	CreatedBy   int64           `gorm:"not null" json:"created_by"`
	CreatedAt   *time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TaxRate is a passthrough configuration row; nothing in the reporting core
// derives from it.
type TaxRate struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"uniqueIndex;not null" json:"name"`
	Rate      decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"rate"`
	Region    string          `gorm:"type:varchar(64)" json:"region"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	CreatedAt *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type BankAccount struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	AccountNumber string     `gorm:"type:varchar(34);uniqueIndex;not null" json:"account_number"`
	BankName      string     `gorm:"type:varchar(128)" json:"bank_name"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CreatedAt     *time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Bank transaction types
const (
	BankDeposit    = "deposit"
	BankWithdrawal = "withdrawal"
)

type BankTransaction struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	BankAccountID int64           `gorm:"index;not null" json:"bank_account_id"`
	Type          string          `gorm:"type:varchar(16);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date          *time.Time      `gorm:"not null;index" json:"date"`
	Description   string          `gorm:"type:text" json:"description"`
	Reference     string          `gorm:"type:varchar(64)" json:"reference"`
	CreatedAt     *time.Time      `gorm:"autoCreateTime" json:"created_at"`

	BankAccount BankAccount `gorm:"foreignKey:BankAccountID" json:"-"`
}
