package reports

import (
	"fmt"
	"strconv"
	"strings"

	"structa-system/internal/database/models"
)

// PayrollDivisorDays is the working-days-per-month convention used to derive
// an employee's daily rate from their monthly salary. Deliberately distinct
// from AttendanceBaselineDays; both are long-standing business policy.
const PayrollDivisorDays = 26.0

type ProjectFinancialsInput struct {
	Project        models.Project
	Invoices       []models.Invoice // Payments preloaded
	Attendance     []models.Attendance
	Employees      map[int64]models.Employee
	InventoryTxns  []models.InventoryTransaction // Item preloaded
	PurchaseOrders []models.PurchaseOrder        // VendorBills.VendorPayments preloaded
	Transactions   []models.Transaction          // project_expense candidates

	// LegacyDescriptionMatch additionally attributes transactions whose
	// description mentions the project id, mirroring the replaced system.
	LegacyDescriptionMatch bool
}

type ProjectSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type Revenue struct {
	Invoiced        float64 `json:"invoiced"`
	Paid            float64 `json:"paid"`
	Pending         float64 `json:"pending"`
	PendingNegative bool    `json:"pending_negative"`
}

type VendorCost struct {
	Billed  float64 `json:"billed"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
}

type Costs struct {
	Labour    float64    `json:"labour"`
	Inventory float64    `json:"inventory"`
	Vendor    VendorCost `json:"vendor"`
	Other     float64    `json:"other"`
	Total     float64    `json:"total"`
}

type Profitability struct {
	GrossProfit       float64 `json:"gross_profit"`
	GrossProfitMargin string  `json:"gross_profit_margin"`
	CashProfit        float64 `json:"cash_profit"`
	ROI               string  `json:"roi"`
}

type CostBreakdown struct {
	Labour    string `json:"labour"`
	Inventory string `json:"inventory"`
	Vendor    string `json:"vendor"`
	Other     string `json:"other"`
}

type EstimatedVsActual struct {
	Estimated       float64 `json:"estimated"`
	Actual          float64 `json:"actual"`
	Variance        float64 `json:"variance"`
	VariancePercent string  `json:"variance_percent"`
}

type ProjectFinancials struct {
	Project           ProjectSummary    `json:"project"`
	Revenue           Revenue           `json:"revenue"`
	Costs             Costs             `json:"costs"`
	Profitability     Profitability     `json:"profitability"`
	CostBreakdown     CostBreakdown     `json:"cost_breakdown"`
	EstimatedVsActual EstimatedVsActual `json:"estimated_vs_actual"`
}

// BuildProjectFinancials computes a single project's profitability report.
// Pure: all records are fetched by the caller.
func BuildProjectFinancials(in ProjectFinancialsInput) ProjectFinancials {
	invoiced := 0.0
	paid := 0.0
	for _, inv := range in.Invoices {
		invoiced += inv.Amount.InexactFloat64()
		for _, p := range inv.Payments {
			paid += p.Amount.InexactFloat64()
		}
	}
	pending := invoiced - paid

	labour := 0.0
	for _, att := range in.Attendance {
		emp, ok := in.Employees[att.EmployeeID]
		if !ok {
			continue
		}
		labour += attendanceCost(emp, att)
	}

	inventory := 0.0
	for _, txn := range in.InventoryTxns {
		if txnBearsProjectCost(txn.Type) {
			inventory += txn.Item.CostPrice.InexactFloat64() * txn.Quantity
		}
	}

	vendorBilled := 0.0
	vendorPaid := 0.0
	for _, po := range in.PurchaseOrders {
		vendorBilled += po.TotalAmount.InexactFloat64()
		for _, bill := range po.VendorBills {
			for _, vp := range bill.VendorPayments {
				vendorPaid += vp.Amount.InexactFloat64()
			}
		}
	}

	other := 0.0
	projectTag := strconv.FormatInt(in.Project.ID, 10)
	for _, t := range in.Transactions {
		if t.Type != models.TransactionExpense || t.Category != models.CategoryProjectExpense {
			continue
		}
		linked := t.ProjectID != nil && *t.ProjectID == in.Project.ID
		if !linked && in.LegacyDescriptionMatch {
			linked = strings.Contains(t.Description, projectTag)
		}
		if linked {
			other += t.Amount.InexactFloat64()
		}
	}

	totalCosts := labour + inventory + vendorBilled + other
	grossProfit := invoiced - totalCosts
	cashProfit := paid - (labour + inventory + vendorPaid + other)

	margin := "0.00%"
	if invoiced != 0 {
		margin = formatPercent(grossProfit / invoiced * 100)
	}

	roi := "N/A"
	if totalCosts != 0 {
		roi = formatPercent(grossProfit / totalCosts * 100)
	}

	breakdown := CostBreakdown{
		Labour:    costShare(labour, totalCosts),
		Inventory: costShare(inventory, totalCosts),
		Vendor:    costShare(vendorBilled, totalCosts),
		Other:     costShare(other, totalCosts),
	}

	estimated := in.Project.EstimatedCost.InexactFloat64()
	variance := estimated - totalCosts
	variancePct := "N/A"
	if estimated != 0 {
		variancePct = formatPercent(variance / estimated * 100)
	}

	return ProjectFinancials{
		Project: ProjectSummary{
			ID:     in.Project.ID,
			Title:  in.Project.Title,
			Status: in.Project.Status,
		},
		Revenue: Revenue{
			Invoiced:        invoiced,
			Paid:            paid,
			Pending:         pending,
			PendingNegative: pending < 0,
		},
		Costs: Costs{
			Labour:    labour,
			Inventory: inventory,
			Vendor: VendorCost{
				Billed:  vendorBilled,
				Paid:    vendorPaid,
				Pending: vendorBilled - vendorPaid,
			},
			Other: other,
			Total: totalCosts,
		},
		Profitability: Profitability{
			GrossProfit:       grossProfit,
			GrossProfitMargin: margin,
			CashProfit:        cashProfit,
			ROI:               roi,
		},
		CostBreakdown: breakdown,
		EstimatedVsActual: EstimatedVsActual{
			Estimated:       estimated,
			Actual:          totalCosts,
			Variance:        variance,
			VariancePercent: variancePct,
		},
	}
}

// attendanceCost prices one attendance row: the weighted daily rate plus
// overtime. The same weighting backs the team report, so per-employee costs
// always sum to the project labour figure.
func attendanceCost(emp models.Employee, att models.Attendance) float64 {
	dailyRate := emp.BasicSalary.InexactFloat64() / PayrollDivisorDays
	cost := attendanceWeight(att.Status) * dailyRate
	cost += att.OvertimeHours * emp.OvertimeRate.InexactFloat64()
	return cost
}

func attendanceWeight(status string) float64 {
	switch status {
	case models.AttendancePresent:
		return 1
	case models.AttendanceHalfDay:
		return 0.5
	default:
		return 0
	}
}

// txnBearsProjectCost reports whether an inventory movement type contributes
// to project cost. Stock receipts and returns do not.
func txnBearsProjectCost(txnType string) bool {
	switch txnType {
	case models.InventoryIssueToProject, models.InventoryScrap, models.InventoryWastage:
		return true
	default:
		return false
	}
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func costShare(part, total float64) string {
	if total == 0 {
		return "0.00%"
	}
	return formatPercent(part / total * 100)
}
