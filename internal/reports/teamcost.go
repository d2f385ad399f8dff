package reports

import (
	"time"

	"structa-system/internal/database/models"
)

type TeamMemberCost struct {
	EmployeeID    int64      `json:"employee_id"`
	EmployeeCode  string     `json:"employee_code"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Allocation    string     `json:"allocation_status"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	WorkDays      float64    `json:"work_days"`
	OvertimeHours float64    `json:"overtime_hours"`
	DailyRate     float64    `json:"daily_rate"`
	RegularPay    float64    `json:"regular_pay"`
	OvertimePay   float64    `json:"overtime_pay"`
	TotalCost     float64    `json:"total_cost"`
}

type TeamSummary struct {
	TeamSize           int     `json:"team_size"`
	TotalLabourCost    float64 `json:"total_labour_cost"`
	TotalWorkDays      float64 `json:"total_work_days"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AvgCostPerDay      float64 `json:"avg_cost_per_day"`
}

// BuildTeamCosts computes the per-employee cost breakdown for a project from
// its labour allocations and project-scoped attendance rows. An employee with
// several allocations on the same project is reported once; their attendance
// is never counted twice.
func BuildTeamCosts(allocations []models.LabourAllocation, attendance []models.Attendance) ([]TeamMemberCost, TeamSummary) {
	byEmployee := make(map[int64][]models.Attendance)
	for _, att := range attendance {
		byEmployee[att.EmployeeID] = append(byEmployee[att.EmployeeID], att)
	}

	seen := make(map[int64]bool)
	members := make([]TeamMemberCost, 0, len(allocations))
	var summary TeamSummary

	for _, alloc := range allocations {
		if seen[alloc.EmployeeID] {
			continue
		}
		seen[alloc.EmployeeID] = true

		emp := alloc.Employee
		dailyRate := emp.BasicSalary.InexactFloat64() / PayrollDivisorDays

		workDays := 0.0
		overtimeHours := 0.0
		for _, att := range byEmployee[alloc.EmployeeID] {
			workDays += attendanceWeight(att.Status)
			overtimeHours += att.OvertimeHours
		}

		regularPay := workDays * dailyRate
		overtimePay := overtimeHours * emp.OvertimeRate.InexactFloat64()
		totalCost := regularPay + overtimePay

		members = append(members, TeamMemberCost{
			EmployeeID:    emp.ID,
			EmployeeCode:  emp.EmployeeCode,
			Name:          emp.Name,
			Role:          emp.Role,
			Allocation:    alloc.Status,
			StartDate:     alloc.StartDate,
			EndDate:       alloc.EndDate,
			WorkDays:      workDays,
			OvertimeHours: overtimeHours,
			DailyRate:     dailyRate,
			RegularPay:    regularPay,
			OvertimePay:   overtimePay,
			TotalCost:     totalCost,
		})

		summary.TotalLabourCost += totalCost
		summary.TotalWorkDays += workDays
		summary.TotalOvertimeHours += overtimeHours
	}

	summary.TeamSize = len(members)
	if summary.TotalWorkDays != 0 {
		summary.AvgCostPerDay = summary.TotalLabourCost / summary.TotalWorkDays
	}

	return members, summary
}
