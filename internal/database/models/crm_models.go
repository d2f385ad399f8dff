package models

import "time"

// User roles
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleClient = "client"
)

type User struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Name      string     `gorm:"not null" json:"name"`
	Role      string     `gorm:"type:varchar(16);not null;default:'client'" json:"role"`
	Company   string     `gorm:"type:varchar(128)" json:"company"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Enquiry is an inbound sales lead captured from the client portal.
type Enquiry struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID    *int64     `gorm:"index" json:"client_id"`
	ContactName string     `gorm:"not null" json:"contact_name"`
	Email       string     `gorm:"not null" json:"email"`
	Phone       string     `json:"phone"`
	Subject     string     `gorm:"not null" json:"subject"`
	Details     string     `gorm:"type:text" json:"details"`
	Status      string     `gorm:"type:varchar(16);not null;default:'new';index" json:"status"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Support request statuses
const (
	SupportOpen       = "open"
	SupportInProgress = "in_progress"
	SupportOverdue    = "overdue"
	SupportClosed     = "closed"
)

type SupportRequest struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID  int64      `gorm:"index;not null" json:"client_id"`
	ProjectID *int64     `gorm:"index" json:"project_id"`
	Subject   string     `gorm:"not null" json:"subject"`
	Details   string     `gorm:"type:text" json:"details"`
	Status    string     `gorm:"type:varchar(16);not null;default:'open';index" json:"status"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Meeting request statuses
const (
	MeetingPending   = "pending"
	MeetingConfirmed = "confirmed"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"
)

type MeetingRequest struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID    int64      `gorm:"index;not null" json:"client_id"`
	Purpose     string     `gorm:"not null" json:"purpose"`
	RequestedAt *time.Time `json:"requested_at"`
	Status      string     `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
