package reports

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"structa-system/internal/database/models"
)

func fixtureExecutiveInput() ExecutiveInput {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	return ExecutiveInput{
		Now: now,
		Projects: []models.Project{
			{ID: 1, Status: models.ProjectInProgress, CreatedAt: day(20)},
			{ID: 2, Status: models.ProjectPending, CreatedAt: timePtr(now.AddDate(0, -6, 0))},
			{ID: 3, Status: models.ProjectCompleted, CreatedAt: timePtr(now.AddDate(0, -3, 0))},
		},
		Invoices: []models.Invoice{
			{
				ID: 1, ProjectID: 1, Amount: decimal.NewFromInt(1000), CreatedAt: day(20),
				Payments: []models.Payment{{Amount: decimal.NewFromInt(600), PaymentDate: day(22)}},
			},
			{ID: 2, ProjectID: 3, Amount: decimal.NewFromInt(500), CreatedAt: timePtr(now.AddDate(0, -2, 0))},
		},
		Transactions: []models.Transaction{
			{ID: 1, Type: models.TransactionIncome, Amount: decimal.NewFromInt(200), Date: day(15), CreatedAt: day(15)},
			{ID: 2, Type: models.TransactionExpense, Amount: decimal.NewFromInt(150), Date: day(16), CreatedAt: day(16)},
		},
		VendorBills: []models.VendorBill{
			{
				ID: 1, Amount: decimal.NewFromInt(400), CreatedAt: day(18),
				VendorPayments: []models.VendorPayment{{Amount: decimal.NewFromInt(250), PaymentDate: day(19)}},
			},
		},
		Vendors: []models.Vendor{
			{ID: 1, Name: "Apex Steels", CreatedAt: timePtr(now.AddDate(-1, 0, 0))},
			{ID: 2, Name: "Borealis Fabrication", CreatedAt: day(25)},
			{ID: 3, Name: "Crest Alloys", CreatedAt: timePtr(now.AddDate(-1, 0, 0))},
		},
		PurchaseOrders: []models.PurchaseOrder{
			{ID: 1, VendorID: 2, TotalAmount: decimal.NewFromInt(900), Status: models.POOpen, Vendor: models.Vendor{Name: "Borealis Fabrication"}},
			{ID: 2, VendorID: 1, TotalAmount: decimal.NewFromInt(300), Status: models.POBilled, Vendor: models.Vendor{Name: "Apex Steels"}},
			{ID: 3, VendorID: 3, TotalAmount: decimal.NewFromInt(500), Status: models.POOpen, Vendor: models.Vendor{Name: "Crest Alloys"}},
		},
		Employees: []models.Employee{
			{ID: 1, Status: models.EmployeeActive, CreatedAt: timePtr(now.AddDate(-2, 0, 0))},
			{ID: 2, Status: models.EmployeeActive, CreatedAt: day(28)},
		},
		Allocations: []models.LabourAllocation{
			{EmployeeID: 1, ProjectID: 1, Status: models.AllocationActive},
		},
		MonthAttendance: []models.Attendance{
			{EmployeeID: 1, Status: models.AttendancePresent, Date: day(2)},
			{EmployeeID: 1, Status: models.AttendancePresent, Date: day(3)},
			{EmployeeID: 2, Status: models.AttendanceHalfDay, Date: day(2)},
			{EmployeeID: 2, Status: models.AttendanceAbsent, Date: day(3)},
		},
		CurrentPayroll: &models.Payroll{Month: "2026-03", Status: models.PayrollProcessed},
		Items: []models.InventoryItem{
			{ID: 1, Name: "Steel plate", CostPrice: decimal.NewFromInt(25), CurrentStock: 4, MinStock: 10},
			{ID: 2, Name: "Rebar", CostPrice: decimal.NewFromInt(5), CurrentStock: 0, MinStock: 0},
			{ID: 3, Name: "Bolts", CostPrice: decimal.NewFromInt(1), CurrentStock: 500, MinStock: 100},
		},
		SupportRequests: []models.SupportRequest{
			{Status: models.SupportOpen},
			{Status: models.SupportOverdue},
			{Status: models.SupportClosed},
		},
		MeetingRequests: []models.MeetingRequest{
			{Status: models.MeetingPending},
			{Status: models.MeetingCompleted},
		},
	}
}

func TestBuildExecutiveSummary_Metrics(t *testing.T) {
	got := BuildExecutiveSummary(fixtureExecutiveInput())

	if got.Projects.Total != 3 || got.Projects.ByStatus[models.ProjectInProgress] != 1 {
		t.Errorf("project counts wrong: %+v", got.Projects)
	}
	if !almostEqual(got.Projects.TotalRevenue, 1500) || !almostEqual(got.Projects.TotalPaid, 600) {
		t.Errorf("revenue/paid = %v/%v, want 1500/600", got.Projects.TotalRevenue, got.Projects.TotalPaid)
	}
	// pending carries the dollar figure, not a status count
	if !almostEqual(got.Projects.Pending, 900) {
		t.Errorf("pending = %v, want 900", got.Projects.Pending)
	}

	// income 200 manual + 600 paid; expense 150 manual + 400 bills
	if !almostEqual(got.Financials.TotalIncome, 800) || !almostEqual(got.Financials.TotalExpense, 550) {
		t.Errorf("income/expense = %v/%v", got.Financials.TotalIncome, got.Financials.TotalExpense)
	}
	if !almostEqual(got.Financials.NetProfit, 250) {
		t.Errorf("net profit = %v, want 250", got.Financials.NetProfit)
	}
	if got.Financials.ProfitMargin != "31.25%" {
		t.Errorf("profit margin = %q, want 31.25%%", got.Financials.ProfitMargin)
	}
	if !almostEqual(got.Financials.CashFlow, 350) {
		t.Errorf("cash flow = %v, want 350", got.Financials.CashFlow)
	}
	if !almostEqual(got.Financials.OutstandingAR, 900) || !almostEqual(got.Financials.OutstandingAP, 150) {
		t.Errorf("AR/AP = %v/%v, want 900/150", got.Financials.OutstandingAR, got.Financials.OutstandingAP)
	}

	// 1 allocated of 2 employees
	if got.HR.UtilizationRate != "50.00%" {
		t.Errorf("utilization = %q, want 50.00%%", got.HR.UtilizationRate)
	}
	// 2 present rows / (2 employees x 20 days)
	if got.HR.AttendanceRate != "5.00%" {
		t.Errorf("attendance rate = %q, want 5.00%%", got.HR.AttendanceRate)
	}
	if got.HR.PayrollMonth != "2026-03" || got.HR.PayrollStatus != models.PayrollProcessed {
		t.Errorf("payroll = %q/%q", got.HR.PayrollMonth, got.HR.PayrollStatus)
	}

	if got.Inventory.LowStockCount != 1 || got.Inventory.CriticalCount != 1 {
		t.Errorf("inventory counts = %+v", got.Inventory)
	}
	// 25x4 + 5x0 + 1x500
	if !almostEqual(got.Inventory.TotalValue, 600) {
		t.Errorf("inventory value = %v, want 600", got.Inventory.TotalValue)
	}
	if len(got.Inventory.AtRiskItems) != 1 || got.Inventory.AtRiskItems[0] != "Steel plate" {
		t.Errorf("at-risk items = %v", got.Inventory.AtRiskItems)
	}

	if got.Procurement.OpenOrders != 2 || !almostEqual(got.Procurement.PurchaseOrderValue, 1700) {
		t.Errorf("procurement = %+v", got.Procurement)
	}

	if got.Operations.OpenSupportRequests != 1 || got.Operations.OverdueSupportRequests != 1 {
		t.Errorf("support counts = %+v", got.Operations)
	}
	if got.Operations.PendingMeetings != 1 || got.Operations.CompletedMeetings != 1 {
		t.Errorf("meeting counts = %+v", got.Operations)
	}

	if got.Trends.NewProjects != 1 || got.Trends.NewEmployees != 1 || got.Trends.NewVendors != 1 {
		t.Errorf("trends = %+v", got.Trends)
	}
	if !almostEqual(got.Trends.Revenue, 1000) || !almostEqual(got.Trends.Expense, 550) {
		t.Errorf("trend revenue/expense = %v/%v, want 1000/550", got.Trends.Revenue, got.Trends.Expense)
	}
}

func TestBuildExecutiveSummary_Idempotent(t *testing.T) {
	in := fixtureExecutiveInput()
	first := BuildExecutiveSummary(in)
	second := BuildExecutiveSummary(in)

	first.Timestamp = time.Time{}
	second.Timestamp = time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("summary not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBuildExecutiveSummary_NetLossAlert(t *testing.T) {
	in := ExecutiveInput{
		Now: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Transactions: []models.Transaction{
			{Type: models.TransactionExpense, Amount: decimal.NewFromInt(1000), Date: day(1)},
		},
	}
	got := BuildExecutiveSummary(in)

	criticals := 0
	for _, a := range got.Alerts {
		if a.Severity == SeverityCritical {
			criticals++
			if a.Message != "Operating at loss" {
				t.Errorf("critical alert message = %q", a.Message)
			}
		}
	}
	if criticals != 1 {
		t.Errorf("got %d critical alerts, want exactly 1", criticals)
	}
}

func TestBuildExecutiveSummary_AlertRules(t *testing.T) {
	got := BuildExecutiveSummary(fixtureExecutiveInput())

	bySeverity := make(map[string][]string)
	for _, a := range got.Alerts {
		bySeverity[a.Severity] = append(bySeverity[a.Severity], a.Message)
	}

	// profitable fixture: no critical alert
	if len(bySeverity[SeverityCritical]) != 0 {
		t.Errorf("unexpected critical alerts: %v", bySeverity[SeverityCritical])
	}
	// low stock and AR at 60% of revenue both warn
	if len(bySeverity[SeverityWarning]) != 2 {
		t.Errorf("warning alerts = %v, want low-stock and receivables", bySeverity[SeverityWarning])
	}
	// utilization 50% < 60% is informational
	if len(bySeverity[SeverityInfo]) != 1 {
		t.Errorf("info alerts = %v, want low utilization", bySeverity[SeverityInfo])
	}
}

func TestBuildExecutiveSummary_TopVendorsRankedBySpend(t *testing.T) {
	got := BuildExecutiveSummary(fixtureExecutiveInput())

	want := []string{"Borealis Fabrication", "Crest Alloys", "Apex Steels"}
	if !reflect.DeepEqual(got.Procurement.TopVendors, want) {
		t.Errorf("top vendors = %v, want %v (ranked by PO spend)", got.Procurement.TopVendors, want)
	}
}
