package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"structa-system/internal/database/models"
	"structa-system/internal/reports"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// GetExecutiveSummary fans out all thirteen source queries concurrently and
// feeds them into the read-only rollup. Current month scoping (attendance and
// payroll) is derived from the server clock in UTC.
func (h *DashboardHandler) GetExecutiveSummary(c *gin.Context) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthKey := fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))

	in := reports.ExecutiveInput{Now: now}
	var payrolls []models.Payroll

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error { return h.db.WithContext(gctx).Find(&in.Projects).Error })
	g.Go(func() error { return h.db.WithContext(gctx).Preload("Payments").Find(&in.Invoices).Error })
	g.Go(func() error { return h.db.WithContext(gctx).Find(&in.Transactions).Error })
	g.Go(func() error { return h.db.WithContext(gctx).Preload("VendorPayments").Find(&in.VendorBills).Error })
	g.Go(func() error { return h.db.WithContext(gctx).Find(&in.Vendors).Error })
	g.Go(func() error { return h.db.WithContext(gctx).Preload("Vendor").Find(&in.PurchaseOrders).Error })
	g.Go(func() error { return h.db.WithContext(gctx).Find(&in.Employees).Error })
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("status = ?", models.AllocationActive).Find(&in.Allocations).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("date >= ?", monthStart).Find(&in.MonthAttendance).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("month = ?", monthKey).Limit(1).Find(&payrolls).Error
	})
	g.Go(func() error { return h.db.WithContext(gctx).Find(&in.Items).Error })
	g.Go(func() error { return h.db.WithContext(gctx).Find(&in.SupportRequests).Error })
	g.Go(func() error { return h.db.WithContext(gctx).Find(&in.MeetingRequests).Error })
	if err := g.Wait(); err != nil {
		abortInternal(c, "dashboard_handler.go", "GetExecutiveSummary", "fan-out", err)
		return
	}

	if len(payrolls) > 0 {
		in.CurrentPayroll = &payrolls[0]
	}

	c.JSON(http.StatusOK, reports.BuildExecutiveSummary(in))
}
