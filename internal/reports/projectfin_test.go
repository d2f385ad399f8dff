package reports

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"structa-system/internal/database/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func day(n int) *time.Time {
	return timePtr(time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func fixtureProjectInput() ProjectFinancialsInput {
	projectID := int64(7)
	return ProjectFinancialsInput{
		Project: models.Project{
			ID:            projectID,
			Title:         "Warehouse gantry",
			Status:        models.ProjectInProgress,
			ClientID:      3,
			EstimatedCost: decimal.NewFromInt(1000),
		},
		Invoices: []models.Invoice{
			{
				ID: 1, ProjectID: projectID, InvoiceNumber: "INV-001",
				Amount: decimal.NewFromInt(2000),
				Payments: []models.Payment{
					{ID: 1, InvoiceID: 1, Amount: decimal.NewFromInt(800), PaymentDate: day(10)},
				},
			},
		},
		Attendance: []models.Attendance{
			{EmployeeID: 1, Status: models.AttendancePresent, Date: day(1)},
			{EmployeeID: 1, Status: models.AttendancePresent, Date: day(2)},
			{EmployeeID: 1, Status: models.AttendanceHalfDay, Date: day(3), OvertimeHours: 3},
		},
		Employees: map[int64]models.Employee{
			1: {
				ID: 1, Name: "Welder A",
				BasicSalary:  decimal.NewFromInt(2600),
				OvertimeRate: decimal.NewFromInt(5),
			},
		},
		InventoryTxns: []models.InventoryTransaction{
			{
				ID: 1, Type: models.InventoryIssueToProject, Quantity: 4, Date: day(5),
				Item: models.InventoryItem{Name: "Steel plate", CostPrice: decimal.NewFromInt(25)},
			},
		},
		PurchaseOrders: []models.PurchaseOrder{
			{
				ID: 1, TotalAmount: decimal.NewFromInt(500),
				VendorBills: []models.VendorBill{
					{
						ID: 1, Amount: decimal.NewFromInt(500),
						VendorPayments: []models.VendorPayment{
							{ID: 1, Amount: decimal.NewFromInt(200), PaymentDate: day(12)},
						},
					},
				},
			},
		},
		Transactions: []models.Transaction{
			{
				ID: 1, Type: models.TransactionExpense,
				Category: models.CategoryProjectExpense,
				Amount:   decimal.NewFromInt(50),
				Date:     day(8), ProjectID: &projectID,
			},
		},
	}
}

func TestBuildProjectFinancials(t *testing.T) {
	got := BuildProjectFinancials(fixtureProjectInput())

	// labour: 2.5 weighted days x 100 daily rate + 3h x 5 overtime
	if !almostEqual(got.Costs.Labour, 265) {
		t.Errorf("labour = %v, want 265", got.Costs.Labour)
	}
	if !almostEqual(got.Costs.Inventory, 100) {
		t.Errorf("inventory = %v, want 100", got.Costs.Inventory)
	}
	if !almostEqual(got.Costs.Vendor.Billed, 500) || !almostEqual(got.Costs.Vendor.Paid, 200) {
		t.Errorf("vendor = %+v, want billed 500 paid 200", got.Costs.Vendor)
	}
	if !almostEqual(got.Costs.Other, 50) {
		t.Errorf("other = %v, want 50", got.Costs.Other)
	}

	if !almostEqual(got.Revenue.Invoiced, 2000) || !almostEqual(got.Revenue.Paid, 800) {
		t.Errorf("revenue = %+v", got.Revenue)
	}
	if !almostEqual(got.Revenue.Pending, 1200) || got.Revenue.PendingNegative {
		t.Errorf("pending = %v (negative=%v), want 1200", got.Revenue.Pending, got.Revenue.PendingNegative)
	}

	if !almostEqual(got.Profitability.GrossProfit, 2000-915) {
		t.Errorf("gross profit = %v, want 1085", got.Profitability.GrossProfit)
	}
	if got.Profitability.GrossProfitMargin != "54.25%" {
		t.Errorf("margin = %q, want 54.25%%", got.Profitability.GrossProfitMargin)
	}
	// cash profit: 800 paid - (265 + 100 + 200 + 50)
	if !almostEqual(got.Profitability.CashProfit, 185) {
		t.Errorf("cash profit = %v, want 185", got.Profitability.CashProfit)
	}
	if got.Profitability.ROI != "118.58%" {
		t.Errorf("roi = %q, want 118.58%%", got.Profitability.ROI)
	}

	if !almostEqual(got.EstimatedVsActual.Variance, 1000-915) {
		t.Errorf("variance = %v, want 85", got.EstimatedVsActual.Variance)
	}
}

func TestBuildProjectFinancials_CostConservation(t *testing.T) {
	got := BuildProjectFinancials(fixtureProjectInput())

	sum := got.Costs.Labour + got.Costs.Inventory + got.Costs.Vendor.Billed + got.Costs.Other
	if !almostEqual(got.Costs.Total, sum) {
		t.Errorf("total costs = %v, component sum = %v", got.Costs.Total, sum)
	}
}

func TestBuildProjectFinancials_ZeroInvoiced(t *testing.T) {
	got := BuildProjectFinancials(ProjectFinancialsInput{
		Project: models.Project{ID: 1, Title: "Empty"},
	})

	if got.Profitability.GrossProfitMargin != "0.00%" {
		t.Errorf("margin = %q, want 0.00%% for zero invoiced", got.Profitability.GrossProfitMargin)
	}
	if got.Profitability.ROI != "N/A" {
		t.Errorf("roi = %q, want N/A for zero costs", got.Profitability.ROI)
	}
	if got.CostBreakdown.Labour != "0.00%" {
		t.Errorf("labour share = %q, want 0.00%%", got.CostBreakdown.Labour)
	}
}

func TestBuildProjectFinancials_StockInExcluded(t *testing.T) {
	in := ProjectFinancialsInput{
		Project: models.Project{ID: 1},
		InventoryTxns: []models.InventoryTransaction{
			{Type: models.InventoryStockIn, Quantity: 10, Item: models.InventoryItem{CostPrice: decimal.NewFromInt(25)}},
		},
	}
	if got := BuildProjectFinancials(in); !almostEqual(got.Costs.Inventory, 0) {
		t.Errorf("stock_in contributed %v to inventory cost, want 0", got.Costs.Inventory)
	}

	in.InventoryTxns[0].Type = models.InventoryIssueToProject
	if got := BuildProjectFinancials(in); !almostEqual(got.Costs.Inventory, 250) {
		t.Errorf("issue_to_project contributed %v, want 250", got.Costs.Inventory)
	}
}

func TestBuildProjectFinancials_NegativePendingFlagged(t *testing.T) {
	got := BuildProjectFinancials(ProjectFinancialsInput{
		Project: models.Project{ID: 1},
		Invoices: []models.Invoice{
			{
				ID: 1, Amount: decimal.NewFromInt(100),
				Payments: []models.Payment{{Amount: decimal.NewFromInt(150), PaymentDate: day(1)}},
			},
		},
	})
	if !got.Revenue.PendingNegative {
		t.Error("overpaid project not flagged as negative pending")
	}
}

func TestBuildProjectFinancials_LegacyDescriptionMatch(t *testing.T) {
	base := ProjectFinancialsInput{
		Project: models.Project{ID: 42},
		Transactions: []models.Transaction{
			{
				Type:        models.TransactionExpense,
				Category:    models.CategoryProjectExpense,
				Amount:      decimal.NewFromInt(75),
				Description: "Crane hire for project 42",
			},
		},
	}

	if got := BuildProjectFinancials(base); !almostEqual(got.Costs.Other, 0) {
		t.Errorf("unlinked transaction attributed without legacy flag: %v", got.Costs.Other)
	}

	base.LegacyDescriptionMatch = true
	if got := BuildProjectFinancials(base); !almostEqual(got.Costs.Other, 75) {
		t.Errorf("legacy match skipped description-linked transaction: %v", got.Costs.Other)
	}
}
