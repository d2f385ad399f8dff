package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order statuses
const (
	POOpen      = "open"
	POPartial   = "partially_billed"
	POBilled    = "billed"
	POCancelled = "cancelled"
)

// Vendor bill statuses
const (
	BillUnpaid  = "unpaid"
	BillPartial = "partially_paid"
	BillPaid    = "paid"
)

type Vendor struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	ContactName string     `gorm:"type:varchar(128)" json:"contact_name"`
	Email       string     `gorm:"type:varchar(128)" json:"email"`
	Phone       string     `gorm:"type:varchar(32)" json:"phone"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrder struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string          `gorm:"uniqueIndex;not null" json:"order_number"`
	VendorID    int64           `gorm:"index;not null" json:"vendor_id"`
	ProjectID   *int64          `gorm:"index" json:"project_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	Status      string          `gorm:"type:varchar(24);not null;default:'open';index" json:"status"`
	OrderDate   *time.Time      `json:"order_date"`
	CreatedAt   *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Vendor      Vendor       `gorm:"foreignKey:VendorID" json:"-"`
	VendorBills []VendorBill `gorm:"foreignKey:PurchaseOrderID" json:"vendor_bills,omitempty"`
}

type VendorBill struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	BillNumber      string          `gorm:"uniqueIndex;not null" json:"bill_number"`
	VendorID        int64           `gorm:"index;not null" json:"vendor_id"`
	PurchaseOrderID *int64          `gorm:"index" json:"purchase_order_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status          string          `gorm:"type:varchar(24);not null;default:'unpaid';index" json:"status"`
	BillDate        *time.Time      `json:"bill_date"`
	DueDate         *time.Time      `json:"due_date"`
	CreatedAt       *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Vendor         Vendor          `gorm:"foreignKey:VendorID" json:"-"`
	VendorPayments []VendorPayment `gorm:"foreignKey:VendorBillID" json:"vendor_payments,omitempty"`
}

type VendorPayment struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorBillID int64           `gorm:"index;not null" json:"vendor_bill_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaymentDate  *time.Time      `gorm:"not null" json:"payment_date"`
	Method       string          `gorm:"type:varchar(32)" json:"method"`
	Reference    string          `gorm:"type:varchar(64)" json:"reference"`
	CreatedAt    *time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
