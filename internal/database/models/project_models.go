package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project statuses
const (
	ProjectPending    = "pending"
	ProjectAccepted   = "accepted"
	ProjectInProgress = "in_progress"
	ProjectTesting    = "testing"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

type Project struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string          `gorm:"not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Status        string          `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	ClientID      int64           `gorm:"index;not null" json:"client_id"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"estimated_cost"`
	StartDate     *time.Time      `json:"start_date"`
	Deadline      *time.Time      `json:"deadline"`
	CreatedAt     *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Client   User      `gorm:"foreignKey:ClientID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:ProjectID" json:"-"`
}

// Invoice statuses
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

type Invoice struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber string          `gorm:"uniqueIndex;not null" json:"invoice_number"`
	ProjectID     int64           `gorm:"index;not null" json:"project_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status        string          `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	DueDate       *time.Time      `json:"due_date"`
	PaidAt        *time.Time      `json:"paid_at"`
	CreatedAt     *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Payments []Payment `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

type Payment struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID   int64           `gorm:"index;not null" json:"invoice_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaymentDate *time.Time      `gorm:"not null" json:"payment_date"`
	Method      string          `gorm:"type:varchar(32)" json:"method"`
	Reference   string          `gorm:"type:varchar(64)" json:"reference"`
	CreatedAt   *time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// Labour allocation statuses
const (
	AllocationActive    = "active"
	AllocationCompleted = "completed"
)

type LabourAllocation struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID int64      `gorm:"index;not null" json:"employee_id"`
	ProjectID  int64      `gorm:"index;not null" json:"project_id"`
	StartDate  *time.Time `gorm:"not null" json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Status     string     `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	CreatedAt  *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Employee Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}
