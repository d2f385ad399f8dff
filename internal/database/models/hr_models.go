package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceHalfDay = "half_day"
	AttendanceAbsent  = "absent"
)

// Employee statuses
const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

// Payroll statuses
const (
	PayrollDraft     = "draft"
	PayrollProcessed = "processed"
	PayrollPaid      = "paid"
)

type Employee struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeCode   string          `gorm:"uniqueIndex;not null" json:"employee_code"`
	Name           string          `gorm:"not null" json:"name"`
	Role           string          `gorm:"type:varchar(64)" json:"role"`
	SkillType      string          `gorm:"type:varchar(32)" json:"skill_type"`
	EmploymentType string          `gorm:"type:varchar(32)" json:"employment_type"`
	BasicSalary    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"basic_salary"`
	OvertimeRate   decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"overtime_rate"`
	Status         string          `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	CreatedAt      *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type Attendance struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID    int64      `gorm:"index;not null" json:"employee_id"`
	ProjectID     *int64     `gorm:"index" json:"project_id"`
	Date          *time.Time `gorm:"not null;index" json:"date"`
	Status        string     `gorm:"type:varchar(16);not null" json:"status"`
	OvertimeHours float64    `gorm:"default:0" json:"overtime_hours"`
	CreatedAt     *time.Time `gorm:"autoCreateTime" json:"created_at"`

	Employee Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

type Payroll struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Month       string          `gorm:"type:varchar(7);uniqueIndex;not null" json:"month"` // YYYY-MM
	Status      string          `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"total_amount"`
	CreatedAt   *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Lines []PayrollLine `gorm:"foreignKey:PayrollID" json:"lines,omitempty"`
}

type PayrollLine struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	PayrollID   int64           `gorm:"index;not null" json:"payroll_id"`
	EmployeeID  int64           `gorm:"index;not null" json:"employee_id"`
	BasePay     decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"base_pay"`
	OvertimePay decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"overtime_pay"`
	Deductions  decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"deductions"`
	TotalPay    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_pay"`
	CreatedAt   *time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Employee Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}
