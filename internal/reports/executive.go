package reports

import (
	"sort"
	"time"

	"structa-system/internal/database/models"
)

// AttendanceBaselineDays is the expected-working-days figure used for the HR
// attendance rate. It intentionally differs from PayrollDivisorDays; the two
// policies come from different departments and must not be unified.
const AttendanceBaselineDays = 20.0

const trendWindow = 30 * 24 * time.Hour

// Alert severities
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type Alert struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

type ProjectMetrics struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	TotalRevenue float64        `json:"total_revenue"`
	TotalPaid    float64        `json:"total_paid"`
	// Pending is the uncollected dollar figure (total_revenue - total_paid),
	// the surviving contract of this field.
	Pending float64 `json:"pending"`
}

type FinancialMetrics struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpense  float64 `json:"total_expense"`
	NetProfit     float64 `json:"net_profit"`
	ProfitMargin  string  `json:"profit_margin"`
	CashFlow      float64 `json:"cash_flow"`
	OutstandingAR float64 `json:"outstanding_ar"`
	OutstandingAP float64 `json:"outstanding_ap"`
}

type HRMetrics struct {
	TotalEmployees  int    `json:"total_employees"`
	ActiveEmployees int    `json:"active_employees"`
	UtilizationRate string `json:"utilization_rate"`
	PayrollMonth    string `json:"payroll_month"`
	PayrollStatus   string `json:"payroll_status"`
	AttendanceRate  string `json:"attendance_rate"`
}

type InventoryMetrics struct {
	LowStockCount int      `json:"low_stock_count"`
	CriticalCount int      `json:"critical_count"`
	TotalValue    float64  `json:"total_value"`
	AtRiskItems   []string `json:"at_risk_items"`
}

type ProcurementMetrics struct {
	VendorCount           int      `json:"vendor_count"`
	PurchaseOrderCount    int      `json:"purchase_order_count"`
	PurchaseOrderValue    float64  `json:"purchase_order_value"`
	OpenOrders            int      `json:"open_orders"`
	PendingVendorPayments float64  `json:"pending_vendor_payments"`
	TopVendors            []string `json:"top_vendors"`
}

type OperationalMetrics struct {
	OpenSupportRequests    int `json:"open_support_requests"`
	OverdueSupportRequests int `json:"overdue_support_requests"`
	PendingMeetings        int `json:"pending_meetings"`
	CompletedMeetings      int `json:"completed_meetings"`
}

type TrendMetrics struct {
	NewProjects  int     `json:"new_projects"`
	Revenue      float64 `json:"revenue"`
	Expense      float64 `json:"expense"`
	NewEmployees int     `json:"new_employees"`
	NewVendors   int     `json:"new_vendors"`
}

type ExecutiveSummary struct {
	Timestamp   time.Time          `json:"timestamp"`
	Projects    ProjectMetrics     `json:"projects"`
	Financials  FinancialMetrics   `json:"financials"`
	HR          HRMetrics          `json:"hr"`
	Inventory   InventoryMetrics   `json:"inventory"`
	Procurement ProcurementMetrics `json:"procurement"`
	Operations  OperationalMetrics `json:"operations"`
	Trends      TrendMetrics       `json:"trends"`
	Alerts      []Alert            `json:"alerts"`
}

type ExecutiveInput struct {
	Projects        []models.Project
	Invoices        []models.Invoice // Payments preloaded
	Transactions    []models.Transaction
	VendorBills     []models.VendorBill // VendorPayments preloaded
	Vendors         []models.Vendor
	PurchaseOrders  []models.PurchaseOrder // Vendor preloaded
	Employees       []models.Employee
	Allocations     []models.LabourAllocation
	MonthAttendance []models.Attendance // current month only
	CurrentPayroll  *models.Payroll
	Items           []models.InventoryItem
	SupportRequests []models.SupportRequest
	MeetingRequests []models.MeetingRequest
	Now             time.Time
}

// BuildExecutiveSummary rolls every module up into one dashboard snapshot.
// Read-only and idempotent: the same input always yields the same metrics.
func BuildExecutiveSummary(in ExecutiveInput) ExecutiveSummary {
	out := ExecutiveSummary{Timestamp: in.Now}
	windowStart := in.Now.Add(-trendWindow)

	// Projects
	out.Projects.ByStatus = make(map[string]int)
	out.Projects.Total = len(in.Projects)
	for _, p := range in.Projects {
		out.Projects.ByStatus[p.Status]++
		if p.CreatedAt != nil && p.CreatedAt.After(windowStart) {
			out.Trends.NewProjects++
		}
	}

	totalPaid := 0.0
	for _, inv := range in.Invoices {
		amount := inv.Amount.InexactFloat64()
		out.Projects.TotalRevenue += amount
		for _, p := range inv.Payments {
			totalPaid += p.Amount.InexactFloat64()
		}
		if inv.CreatedAt != nil && inv.CreatedAt.After(windowStart) {
			out.Trends.Revenue += amount
		}
	}
	out.Projects.TotalPaid = totalPaid
	out.Projects.Pending = out.Projects.TotalRevenue - totalPaid

	// Financials
	manualIncome := 0.0
	manualExpense := 0.0
	for _, t := range in.Transactions {
		amount := t.Amount.InexactFloat64()
		switch t.Type {
		case models.TransactionIncome:
			manualIncome += amount
		case models.TransactionExpense:
			manualExpense += amount
			if t.CreatedAt != nil && t.CreatedAt.After(windowStart) {
				out.Trends.Expense += amount
			}
		}
	}

	billTotal := 0.0
	vendorPaid := 0.0
	for _, bill := range in.VendorBills {
		amount := bill.Amount.InexactFloat64()
		billTotal += amount
		for _, vp := range bill.VendorPayments {
			vendorPaid += vp.Amount.InexactFloat64()
		}
		if bill.CreatedAt != nil && bill.CreatedAt.After(windowStart) {
			out.Trends.Expense += amount
		}
	}

	out.Financials.TotalIncome = manualIncome + totalPaid
	out.Financials.TotalExpense = manualExpense + billTotal
	out.Financials.NetProfit = out.Financials.TotalIncome - out.Financials.TotalExpense
	out.Financials.ProfitMargin = "0.00%"
	if out.Financials.TotalIncome != 0 {
		out.Financials.ProfitMargin = formatPercent(out.Financials.NetProfit / out.Financials.TotalIncome * 100)
	}
	out.Financials.CashFlow = totalPaid - vendorPaid
	out.Financials.OutstandingAR = out.Projects.TotalRevenue - totalPaid
	out.Financials.OutstandingAP = billTotal - vendorPaid

	// HR
	out.HR.TotalEmployees = len(in.Employees)
	for _, e := range in.Employees {
		if e.Status == models.EmployeeActive {
			out.HR.ActiveEmployees++
		}
		if e.CreatedAt != nil && e.CreatedAt.After(windowStart) {
			out.Trends.NewEmployees++
		}
	}

	allocated := make(map[int64]bool)
	for _, a := range in.Allocations {
		if a.Status == models.AllocationActive {
			allocated[a.EmployeeID] = true
		}
	}
	utilization := 0.0
	out.HR.UtilizationRate = "0.00%"
	if len(in.Employees) > 0 {
		utilization = float64(len(allocated)) / float64(len(in.Employees)) * 100
		out.HR.UtilizationRate = formatPercent(utilization)
	}

	if in.CurrentPayroll != nil {
		out.HR.PayrollMonth = in.CurrentPayroll.Month
		out.HR.PayrollStatus = in.CurrentPayroll.Status
	}

	presentCount := 0
	for _, att := range in.MonthAttendance {
		if att.Status == models.AttendancePresent {
			presentCount++
		}
	}
	out.HR.AttendanceRate = "0.00%"
	if len(in.Employees) > 0 {
		rate := float64(presentCount) / (float64(len(in.Employees)) * AttendanceBaselineDays) * 100
		out.HR.AttendanceRate = formatPercent(rate)
	}

	// Inventory
	out.Inventory.AtRiskItems = []string{}
	for _, item := range in.Items {
		out.Inventory.TotalValue += item.CostPrice.InexactFloat64() * item.CurrentStock
		if item.CurrentStock == 0 {
			out.Inventory.CriticalCount++
		}
		if item.MinStock > 0 && item.CurrentStock < item.MinStock {
			out.Inventory.LowStockCount++
			if len(out.Inventory.AtRiskItems) < 5 {
				out.Inventory.AtRiskItems = append(out.Inventory.AtRiskItems, item.Name)
			}
		}
	}

	// Procurement
	out.Procurement.VendorCount = len(in.Vendors)
	for _, v := range in.Vendors {
		if v.CreatedAt != nil && v.CreatedAt.After(windowStart) {
			out.Trends.NewVendors++
		}
	}
	out.Procurement.PurchaseOrderCount = len(in.PurchaseOrders)
	spendByVendor := make(map[int64]float64)
	vendorNames := make(map[int64]string)
	for _, po := range in.PurchaseOrders {
		amount := po.TotalAmount.InexactFloat64()
		out.Procurement.PurchaseOrderValue += amount
		if po.Status == models.POOpen {
			out.Procurement.OpenOrders++
		}
		spendByVendor[po.VendorID] += amount
		vendorNames[po.VendorID] = po.Vendor.Name
	}
	out.Procurement.PendingVendorPayments = billTotal - vendorPaid
	out.Procurement.TopVendors = topVendorsBySpend(spendByVendor, vendorNames, 5)

	// Operations
	for _, sr := range in.SupportRequests {
		switch sr.Status {
		case models.SupportOpen, models.SupportInProgress:
			out.Operations.OpenSupportRequests++
		case models.SupportOverdue:
			out.Operations.OverdueSupportRequests++
		}
	}
	for _, mr := range in.MeetingRequests {
		switch mr.Status {
		case models.MeetingPending:
			out.Operations.PendingMeetings++
		case models.MeetingCompleted:
			out.Operations.CompletedMeetings++
		}
	}

	out.Alerts = evaluateAlerts(out, utilization)
	return out
}

// evaluateAlerts runs the fixed rule set against the computed metrics. Rules
// are independent; every rule is evaluated on every call.
func evaluateAlerts(s ExecutiveSummary, utilization float64) []Alert {
	alerts := []Alert{}

	if s.Inventory.LowStockCount > 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Message:  "Items below minimum stock",
			Action:   "Review reorder levels and raise purchase orders",
		})
	}
	if s.Financials.NetProfit < 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityCritical,
			Message:  "Operating at loss",
			Action:   "Review costs and outstanding invoices",
		})
	}
	if s.Projects.TotalRevenue > 0 && s.Financials.OutstandingAR > 0.2*s.Projects.TotalRevenue {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Message:  "High outstanding receivables",
			Action:   "Chase overdue invoices",
		})
	}
	if s.HR.TotalEmployees > 0 && utilization < 60 {
		alerts = append(alerts, Alert{
			Severity: SeverityInfo,
			Message:  "Low workforce utilization",
			Action:   "Review project allocations",
		})
	}

	return alerts
}

// topVendorsBySpend ranks vendors by aggregate purchase-order value.
func topVendorsBySpend(spend map[int64]float64, names map[int64]string, limit int) []string {
	ids := make([]int64, 0, len(spend))
	for id := range spend {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if spend[ids[i]] != spend[ids[j]] {
			return spend[ids[i]] > spend[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, names[id])
	}
	return out
}
