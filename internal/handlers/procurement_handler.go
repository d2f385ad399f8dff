package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"structa-system/internal/database/models"
)

type ProcurementHandler struct {
	db *gorm.DB
}

func NewProcurementHandler(db *gorm.DB) *ProcurementHandler {
	return &ProcurementHandler{db: db}
}

type CreateVendorRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name,omitempty"`
	Email       string `json:"email,omitempty" binding:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
}

type CreatePurchaseOrderRequest struct {
	OrderNumber string  `json:"order_number" binding:"required"`
	VendorID    int64   `json:"vendor_id" binding:"required"`
	ProjectID   *int64  `json:"project_id,omitempty"`
	TotalAmount string  `json:"total_amount" binding:"required"`
	OrderDate   *string `json:"order_date,omitempty"`
}

type CreateVendorBillRequest struct {
	BillNumber      string  `json:"bill_number" binding:"required"`
	VendorID        int64   `json:"vendor_id" binding:"required"`
	PurchaseOrderID *int64  `json:"purchase_order_id,omitempty"`
	Amount          string  `json:"amount" binding:"required"`
	BillDate        *string `json:"bill_date,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
}

type RecordVendorPaymentRequest struct {
	Amount      string  `json:"amount" binding:"required"`
	PaymentDate *string `json:"payment_date,omitempty"`
	Method      string  `json:"method,omitempty"`
	Reference   string  `json:"reference,omitempty"`
}

func (h *ProcurementHandler) ListVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := h.db.WithContext(c.Request.Context()).Order("name asc").Find(&vendors).Error; err != nil {
		abortInternal(c, "procurement_handler.go", "ListVendors", "find", err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Vendors retrieved", vendors))
}

func (h *ProcurementHandler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("name is required"))
		return
	}

	vendor := models.Vendor{
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		IsActive:    true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&vendor).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Vendor name already exists"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Vendor created", vendor))
}

func (h *ProcurementHandler) ListPurchaseOrders(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Vendor").Model(&models.PurchaseOrder{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if raw := c.Query("vendor_id"); raw != "" {
		q = q.Where("vendor_id = ?", raw)
	}

	var orders []models.PurchaseOrder
	if err := q.Order("order_date desc, id desc").Find(&orders).Error; err != nil {
		abortInternal(c, "procurement_handler.go", "ListPurchaseOrders", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Purchase orders retrieved", orders))
}

func (h *ProcurementHandler) CreatePurchaseOrder(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("order_number, vendor_id and total_amount are required"))
		return
	}

	amount, err := parseAmount(req.TotalAmount)
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, errorResponse("total_amount must be a positive decimal number"))
		return
	}

	ctx := c.Request.Context()
	var vendor models.Vendor
	if err := h.db.WithContext(ctx).First(&vendor, req.VendorID).Error; err != nil {
		abortNotFound(c, "Vendor")
		return
	}
	if req.ProjectID != nil {
		var project models.Project
		if err := h.db.WithContext(ctx).First(&project, *req.ProjectID).Error; err != nil {
			abortNotFound(c, "Project")
			return
		}
	}

	order := models.PurchaseOrder{
		OrderNumber: req.OrderNumber,
		VendorID:    req.VendorID,
		ProjectID:   req.ProjectID,
		TotalAmount: amount,
		Status:      models.POOpen,
	}
	if req.OrderDate != nil {
		if t, err := time.Parse("2006-01-02", *req.OrderDate); err == nil {
			order.OrderDate = &t
		}
	} else {
		now := time.Now().UTC()
		order.OrderDate = &now
	}
	if err := h.db.WithContext(ctx).Create(&order).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Order number already exists"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Purchase order created", order))
}

func (h *ProcurementHandler) ListVendorBills(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Preload("Vendor").Preload("VendorPayments").
		Model(&models.VendorBill{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var bills []models.VendorBill
	if err := q.Order("bill_date desc, id desc").Find(&bills).Error; err != nil {
		abortInternal(c, "procurement_handler.go", "ListVendorBills", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Vendor bills retrieved", bills))
}

// CreateVendorBill registers a bill against a vendor and, when it closes out
// the order's total, rolls the purchase order status forward.
func (h *ProcurementHandler) CreateVendorBill(c *gin.Context) {
	var req CreateVendorBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bill_number, vendor_id and amount are required"))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, errorResponse("amount must be a positive decimal number"))
		return
	}

	ctx := c.Request.Context()
	var vendor models.Vendor
	if err := h.db.WithContext(ctx).First(&vendor, req.VendorID).Error; err != nil {
		abortNotFound(c, "Vendor")
		return
	}

	bill := models.VendorBill{
		BillNumber:      req.BillNumber,
		VendorID:        req.VendorID,
		PurchaseOrderID: req.PurchaseOrderID,
		Amount:          amount,
		Status:          models.BillUnpaid,
	}
	if req.BillDate != nil {
		if t, err := time.Parse("2006-01-02", *req.BillDate); err == nil {
			bill.BillDate = &t
		}
	} else {
		now := time.Now().UTC()
		bill.BillDate = &now
	}
	if req.DueDate != nil {
		if t, err := time.Parse("2006-01-02", *req.DueDate); err == nil {
			bill.DueDate = &t
		}
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.PurchaseOrderID != nil {
			var order models.PurchaseOrder
			if err := tx.Preload("VendorBills").First(&order, *req.PurchaseOrderID).Error; err != nil {
				return err
			}
			billed := amount
			for _, b := range order.VendorBills {
				billed = billed.Add(b.Amount)
			}
			status := models.POPartial
			if billed.GreaterThanOrEqual(order.TotalAmount) {
				status = models.POBilled
			}
			if err := tx.Model(&order).Update("status", status).Error; err != nil {
				return err
			}
		}
		return tx.Create(&bill).Error
	})
	if err == gorm.ErrRecordNotFound {
		abortNotFound(c, "Purchase order")
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Failed to create vendor bill"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Vendor bill created", bill))
}

// RecordVendorPayment applies a payment to a bill and moves its status to
// partially_paid or paid depending on the running total.
func (h *ProcurementHandler) RecordVendorPayment(c *gin.Context) {
	billID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RecordVendorPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("amount is required"))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, errorResponse("amount must be a positive decimal number"))
		return
	}

	paymentDate := time.Now().UTC()
	if req.PaymentDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("payment_date must be YYYY-MM-DD"))
			return
		}
		paymentDate = parsed
	}

	payment := models.VendorPayment{
		VendorBillID: billID,
		Amount:       amount,
		PaymentDate:  &paymentDate,
		Method:       req.Method,
		Reference:    req.Reference,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var bill models.VendorBill
		if err := tx.Preload("VendorPayments").First(&bill, billID).Error; err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		paid := amount
		for _, p := range bill.VendorPayments {
			paid = paid.Add(p.Amount)
		}
		status := models.BillPartial
		if paid.GreaterThanOrEqual(bill.Amount) {
			status = models.BillPaid
		}
		return tx.Model(&bill).Update("status", status).Error
	})
	if err == gorm.ErrRecordNotFound {
		abortNotFound(c, "Vendor bill")
		return
	}
	if err != nil {
		abortInternal(c, "procurement_handler.go", "RecordVendorPayment", "apply payment", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Payment recorded", payment))
}
