package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"structa-system/internal/database/models"
	"structa-system/internal/middleware"
)

const (
	inventoryCacheKey = "structa:inventory_items"
	inventoryCacheTTL = 5 * time.Minute
)

type InventoryHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewInventoryHandler(db *gorm.DB, rdb *redis.Client) *InventoryHandler {
	return &InventoryHandler{db: db, redis: rdb}
}

type CreateItemRequest struct {
	ItemCode  string  `json:"item_code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	CostPrice string  `json:"cost_price" binding:"required"`
	MinStock  float64 `json:"min_stock,omitempty"`
}

type CreateInventoryTxnRequest struct {
	ItemID      int64   `json:"item_id" binding:"required"`
	ProjectID   *int64  `json:"project_id,omitempty"`
	Type        string  `json:"type" binding:"required,oneof=issue_to_project stock_in scrap wastage return"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Date        *string `json:"date,omitempty"`
	ReferenceNo string  `json:"reference_no,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// ListItems serves the item register from redis when a fresh copy exists; the
// cache drops on every item or movement write.
func (h *InventoryHandler) ListItems(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.redis.Get(ctx, inventoryCacheKey).Result(); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	var items []models.InventoryItem
	if err := h.db.WithContext(ctx).Where("is_active = ?", true).Order("item_code asc").Find(&items).Error; err != nil {
		abortInternal(c, "inventory_handler.go", "ListItems", "find", err)
		return
	}

	resp := successResponse("Items retrieved", items)
	if payload, err := json.Marshal(resp); err == nil {
		h.redis.Set(ctx, inventoryCacheKey, payload, inventoryCacheTTL)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("item_code, name and cost_price are required"))
		return
	}

	costPrice, err := parseAmount(req.CostPrice)
	if err != nil || costPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, errorResponse("cost_price must be a non-negative decimal number"))
		return
	}

	ctx := c.Request.Context()
	item := models.InventoryItem{
		ItemCode:  req.ItemCode,
		Name:      req.Name,
		Category:  req.Category,
		Unit:      req.Unit,
		CostPrice: costPrice,
		MinStock:  req.MinStock,
		IsActive:  true,
	}
	if err := h.db.WithContext(ctx).Create(&item).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Item code already exists"))
		return
	}

	h.redis.Del(ctx, inventoryCacheKey)

	c.JSON(http.StatusCreated, successResponse("Item created", item))
}

func (h *InventoryHandler) ListInventoryTransactions(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Item").Model(&models.InventoryTransaction{})
	if raw := c.Query("item_id"); raw != "" {
		q = q.Where("item_id = ?", raw)
	}
	if raw := c.Query("project_id"); raw != "" {
		q = q.Where("project_id = ?", raw)
	}
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}

	var txns []models.InventoryTransaction
	if err := q.Order("date desc, id desc").Limit(500).Find(&txns).Error; err != nil {
		abortInternal(c, "inventory_handler.go", "ListInventoryTransactions", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Inventory transactions retrieved", txns))
}

// stockDelta maps a movement type onto its effect on the item's stock level.
func stockDelta(txnType string, quantity float64) float64 {
	switch txnType {
	case models.InventoryStockIn, models.InventoryReturn:
		return quantity
	default: // issue_to_project, scrap, wastage
		return -quantity
	}
}

// CreateInventoryTransaction records a stock movement and adjusts the item's
// current stock inside one database transaction. Outbound movements beyond
// the available quantity are rejected.
func (h *InventoryHandler) CreateInventoryTransaction(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	var req CreateInventoryTxnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("item_id, a valid type and a positive quantity are required"))
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	ctx := c.Request.Context()
	if req.ProjectID != nil {
		var project models.Project
		if err := h.db.WithContext(ctx).First(&project, *req.ProjectID).Error; err != nil {
			abortNotFound(c, "Project")
			return
		}
	}

	txn := models.InventoryTransaction{
		ItemID:      req.ItemID,
		ProjectID:   req.ProjectID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Date:        &date,
		ReferenceNo: req.ReferenceNo,
		Notes:       req.Notes,
		CreatedBy:   claims.UserId,
	}

	var insufficient bool
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, req.ItemID).Error; err != nil {
			return err
		}
		delta := stockDelta(req.Type, req.Quantity)
		if item.CurrentStock+delta < 0 {
			insufficient = true
			return gorm.ErrInvalidData
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		return tx.Model(&item).Update("current_stock", item.CurrentStock+delta).Error
	})
	if err == gorm.ErrRecordNotFound {
		abortNotFound(c, "Item")
		return
	}
	if insufficient {
		c.JSON(http.StatusBadRequest, errorResponse("Insufficient stock for this movement"))
		return
	}
	if err != nil {
		abortInternal(c, "inventory_handler.go", "CreateInventoryTransaction", "apply movement", err)
		return
	}

	h.redis.Del(ctx, inventoryCacheKey)

	c.JSON(http.StatusCreated, successResponse("Inventory transaction recorded", txn))
}
