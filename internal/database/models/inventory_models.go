package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory transaction types
const (
	InventoryIssueToProject = "issue_to_project"
	InventoryStockIn        = "stock_in"
	InventoryScrap          = "scrap"
	InventoryWastage        = "wastage"
	InventoryReturn         = "return"
)

type InventoryItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemCode     string          `gorm:"uniqueIndex;not null" json:"item_code"`
	Name         string          `gorm:"not null" json:"name"`
	Category     string          `gorm:"type:varchar(64)" json:"category"`
	Unit         string          `gorm:"type:varchar(16)" json:"unit"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"cost_price"`
	CurrentStock float64         `gorm:"default:0" json:"current_stock"`
	MinStock     float64         `gorm:"default:0" json:"min_stock"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type InventoryTransaction struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID      int64      `gorm:"index;not null" json:"item_id"`
	ProjectID   *int64     `gorm:"index" json:"project_id"`
	Type        string     `gorm:"type:varchar(24);not null;index" json:"type"`
	Quantity    float64    `gorm:"not null" json:"quantity"`
	Date        *time.Time `gorm:"not null;index" json:"date"`
	ReferenceNo string     `gorm:"type:varchar(64)" json:"reference_no"`
	Notes       string     `gorm:"type:text" json:"notes"`
	CreatedBy   int64      `gorm:"not null" json:"created_by"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at"`

	Item InventoryItem `gorm:"foreignKey:ItemID" json:"-"`
}
