package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"structa-system/config"
	"structa-system/internal/database/models"
	"structa-system/internal/middleware"
	"structa-system/internal/reports"
)

const (
	taxRatesCacheKey = "structa:tax_rates"
	taxRatesCacheTTL = 10 * time.Minute
)

type FinanceHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewFinanceHandler(db *gorm.DB, rdb *redis.Client) *FinanceHandler {
	return &FinanceHandler{db: db, redis: rdb}
}

type PostLedgerEntryRequest struct {
	Type        string  `json:"type,omitempty"` // income | expense; inferred from sign when empty
	Category    string  `json:"category" binding:"required"`
	Amount      string  `json:"amount" binding:"required"`
	Date        *string `json:"date,omitempty"`
	Description string  `json:"description,omitempty"`
	ProjectID   *int64  `json:"project_id,omitempty"`
}

type CreateTaxRateRequest struct {
	Name   string `json:"name" binding:"required"`
	Rate   string `json:"rate" binding:"required"`
	Region string `json:"region,omitempty"`
}

type ledgerQuery struct {
	startDate *time.Time
	endDate   *time.Time
	projectID *int64
	category  string
}

// firstQuery returns the first non-empty value among the given parameter
// names. The ledger filter names are camelCase; the snake_case spellings are
// accepted for symmetry with the rest of the surface.
func firstQuery(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

func parseLedgerQuery(c *gin.Context) (ledgerQuery, bool) {
	var q ledgerQuery
	if raw := firstQuery(c, "startDate", "start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("startDate must be YYYY-MM-DD"))
			return q, false
		}
		q.startDate = &t
	}
	if raw := firstQuery(c, "endDate", "end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("endDate must be YYYY-MM-DD"))
			return q, false
		}
		// inclusive day
		end := t.Add(24*time.Hour - time.Nanosecond)
		q.endDate = &end
	}
	if raw := firstQuery(c, "projectId", "project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, errorResponse("projectId must be a positive integer"))
			return q, false
		}
		q.projectID = &id
	}
	q.category = c.Query("category")
	return q, true
}

// loadLedgerInput gathers every source set the ledger assembles from. When a
// project filter is present, payrolls and bank movements are left out: neither
// carries a project dimension.
func (h *FinanceHandler) loadLedgerInput(c *gin.Context, q ledgerQuery) (reports.LedgerInput, error) {
	ctx := c.Request.Context()
	var in reports.LedgerInput

	invoices := h.db.WithContext(ctx).Preload("Payments")
	bills := h.db.WithContext(ctx).Preload("Vendor").Preload("VendorPayments")
	inventory := h.db.WithContext(ctx).Preload("Item")
	transactions := h.db.WithContext(ctx).Model(&models.Transaction{})
	if q.projectID != nil {
		invoices = invoices.Where("project_id = ?", *q.projectID)
		bills = bills.Where("purchase_order_id IN (?)",
			h.db.Model(&models.PurchaseOrder{}).Select("id").Where("project_id = ?", *q.projectID))
		inventory = inventory.Where("project_id = ?", *q.projectID)
		transactions = transactions.Where("project_id = ?", *q.projectID)
	}

	if err := invoices.Find(&in.Invoices).Error; err != nil {
		return in, err
	}
	if err := bills.Find(&in.VendorBills).Error; err != nil {
		return in, err
	}
	if err := inventory.Find(&in.InventoryTxns).Error; err != nil {
		return in, err
	}
	if err := transactions.Find(&in.Transactions).Error; err != nil {
		return in, err
	}
	if q.projectID == nil {
		if err := h.db.WithContext(ctx).Preload("Lines.Employee").Find(&in.Payrolls).Error; err != nil {
			return in, err
		}
		if err := h.db.WithContext(ctx).Preload("BankAccount").Find(&in.BankTxns).Error; err != nil {
			return in, err
		}
	}
	return in, nil
}

// GetGeneralLedger assembles the double-entry view across all business
// documents and returns entries newest first with debit/credit totals.
func (h *FinanceHandler) GetGeneralLedger(c *gin.Context) {
	q, ok := parseLedgerQuery(c)
	if !ok {
		return
	}

	in, err := h.loadLedgerInput(c, q)
	if err != nil {
		abortInternal(c, "finance_handler.go", "GetGeneralLedger", "load sources", err)
		return
	}

	entries, summary := reports.AssembleLedger(in, reports.LedgerFilter{
		StartDate: q.startDate,
		EndDate:   q.endDate,
		Category:  q.category,
	})

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"summary": summary,
	})
}

// ExportGeneralLedger writes the same ledger view as an xlsx workbook.
func (h *FinanceHandler) ExportGeneralLedger(c *gin.Context) {
	q, ok := parseLedgerQuery(c)
	if !ok {
		return
	}

	in, err := h.loadLedgerInput(c, q)
	if err != nil {
		abortInternal(c, "finance_handler.go", "ExportGeneralLedger", "load sources", err)
		return
	}

	entries, summary := reports.AssembleLedger(in, reports.LedgerFilter{
		StartDate: q.startDate,
		EndDate:   q.endDate,
		Category:  q.category,
	})

	f := excelize.NewFile()
	defer f.Close()

	sheet := "General Ledger"
	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{
		"ID", "Date", "Type", "Account", "Description", "Reference", "Entity", "Debit", "Credit", "Status",
	}); err != nil {
		abortInternal(c, "finance_handler.go", "ExportGeneralLedger", "header row", err)
		return
	}
	for i, e := range entries {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			e.ID, e.Date.Format("2006-01-02"), e.Type, e.Account, e.Description,
			e.Reference, e.Entity, e.Debit, e.Credit, e.Status,
		}); err != nil {
			abortInternal(c, "finance_handler.go", "ExportGeneralLedger", "entry row", err)
			return
		}
	}
	totalsRow := len(entries) + 3
	_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", totalsRow), &[]interface{}{
		"Totals", "", "", "", "", "", "", summary.TotalDebits, summary.TotalCredits, "",
	})

	filename := fmt.Sprintf("general-ledger-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		// headers already sent, can only note the failure
		config.LogError(config.GetLogger(), "finance_handler.go", "ExportGeneralLedger", "stream workbook", nil, err)
	}
}

// PostLedgerEntry records a manual income or expense transaction. When type
// is omitted it is inferred from the amount's sign; the stored amount is
// always positive.
func (h *FinanceHandler) PostLedgerEntry(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	var req PostLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("category and amount are required"))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil || amount.IsZero() {
		c.JSON(http.StatusBadRequest, errorResponse("amount must be a non-zero decimal number"))
		return
	}

	txnType := req.Type
	switch txnType {
	case models.TransactionIncome, models.TransactionExpense:
	case "":
		if amount.IsNegative() {
			txnType = models.TransactionExpense
		} else {
			txnType = models.TransactionIncome
		}
	default:
		c.JSON(http.StatusBadRequest, errorResponse("type must be income or expense"))
		return
	}
	amount = amount.Abs()

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

	txn := models.Transaction{
		Type:        txnType,
		Category:    req.Category,
		Amount:      amount,
		Date:        &date,
		Description: req.Description,
		Reference:   "TXN-" + uuid.NewString(),
		ProjectID:   req.ProjectID,
		CreatedBy:   claims.UserId,
	}
	if err := h.db.WithContext(ctx).Create(&txn).Error; err != nil {
		abortInternal(c, "finance_handler.go", "PostLedgerEntry", "insert", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"transaction_id": txn.ID,
		"message":        "Ledger entry posted",
	})
}

func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Transaction{})
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}

	var transactions []models.Transaction
	if err := q.Order("date desc, id desc").Limit(500).Find(&transactions).Error; err != nil {
		abortInternal(c, "finance_handler.go", "ListTransactions", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Transactions retrieved", transactions))
}

// ListTaxRates serves from redis when a fresh copy exists; rates change
// rarely and the list is read on every quote form.
func (h *FinanceHandler) ListTaxRates(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.redis.Get(ctx, taxRatesCacheKey).Result(); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	var rates []models.TaxRate
	if err := h.db.WithContext(ctx).Where("is_active = ?", true).Order("name asc").Find(&rates).Error; err != nil {
		abortInternal(c, "finance_handler.go", "ListTaxRates", "find", err)
		return
	}

	resp := successResponse("Tax rates retrieved", rates)
	if payload, err := json.Marshal(resp); err == nil {
		h.redis.Set(ctx, taxRatesCacheKey, payload, taxRatesCacheTTL)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) CreateTaxRate(c *gin.Context) {
	var req CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("name and rate are required"))
		return
	}

	rate, err := parseAmount(req.Rate)
	if err != nil || rate.IsNegative() {
		c.JSON(http.StatusBadRequest, errorResponse("rate must be a non-negative decimal number"))
		return
	}

	ctx := c.Request.Context()
	taxRate := models.TaxRate{
		Name:     req.Name,
		Rate:     rate,
		Region:   req.Region,
		IsActive: true,
	}
	if err := h.db.WithContext(ctx).Create(&taxRate).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Tax rate name already exists"))
		return
	}

	h.redis.Del(ctx, taxRatesCacheKey)

	c.JSON(http.StatusCreated, successResponse("Tax rate created", taxRate))
}
