package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"structa-system/internal/database/models"
	"structa-system/internal/middleware"
)

type BillingHandler struct {
	db *gorm.DB
}

func NewBillingHandler(db *gorm.DB) *BillingHandler {
	return &BillingHandler{db: db}
}

type CreateInvoiceRequest struct {
	InvoiceNumber string  `json:"invoice_number" binding:"required"`
	ProjectID     int64   `json:"project_id" binding:"required"`
	Amount        string  `json:"amount" binding:"required"`
	DueDate       *string `json:"due_date,omitempty"`
}

type RecordPaymentRequest struct {
	Amount      string  `json:"amount" binding:"required"`
	PaymentDate *string `json:"payment_date,omitempty"`
	Method      string  `json:"method,omitempty"`
	Reference   string  `json:"reference,omitempty"`
}

// ListInvoices scopes to the caller's own projects unless they are
// back-office.
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	q := h.db.WithContext(c.Request.Context()).Preload("Payments").Model(&models.Invoice{})
	if !claims.IsAdmin() {
		q = q.Where("project_id IN (?)",
			h.db.Model(&models.Project{}).Select("id").Where("client_id = ?", claims.UserId))
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if raw := c.Query("project_id"); raw != "" {
		q = q.Where("project_id = ?", raw)
	}

	var invoices []models.Invoice
	if err := q.Order("created_at desc").Find(&invoices).Error; err != nil {
		abortInternal(c, "billing_handler.go", "ListInvoices", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Invoices retrieved", invoices))
}

func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invoice_number, project_id and amount are required"))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, errorResponse("amount must be a positive decimal number"))
		return
	}

	ctx := c.Request.Context()
	var project models.Project
	if err := h.db.WithContext(ctx).First(&project, req.ProjectID).Error; err != nil {
		abortNotFound(c, "Project")
		return
	}

	invoice := models.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		ProjectID:     req.ProjectID,
		Amount:        amount,
		Status:        models.InvoicePending,
	}
	if req.DueDate != nil {
		if t, err := time.Parse("2006-01-02", *req.DueDate); err == nil {
			invoice.DueDate = &t
		}
	}
	if err := h.db.WithContext(ctx).Create(&invoice).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invoice number already exists"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Invoice created", invoice))
}

// RecordPayment applies a payment against an invoice and marks the invoice
// paid once the running total covers its amount.
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	invoiceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RecordPaymentRequest
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

	payment := models.Payment{
		InvoiceID:   invoiceID,
		Amount:      amount,
		PaymentDate: &paymentDate,
		Method:      req.Method,
		Reference:   req.Reference,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.Preload("Payments").First(&invoice, invoiceID).Error; err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		paid := amount
		for _, p := range invoice.Payments {
			paid = paid.Add(p.Amount)
		}
		if paid.GreaterThanOrEqual(invoice.Amount) {
			return tx.Model(&invoice).Updates(map[string]interface{}{
				"status":  models.InvoicePaid,
				"paid_at": paymentDate,
			}).Error
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		abortNotFound(c, "Invoice")
		return
	}
	if err != nil {
		abortInternal(c, "billing_handler.go", "RecordPayment", "apply payment", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Payment recorded", payment))
}
