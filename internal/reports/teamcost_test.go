package reports

import (
	"testing"

	"github.com/shopspring/decimal"

	"structa-system/internal/database/models"
)

func welder() models.Employee {
	return models.Employee{
		ID:           1,
		EmployeeCode: "EMP-001",
		Name:         "Welder A",
		BasicSalary:  decimal.NewFromInt(2600),
		OvertimeRate: decimal.NewFromInt(5),
	}
}

func TestBuildTeamCosts_AttendanceWeighting(t *testing.T) {
	atts := make([]models.Attendance, 0, 12)
	for i := 0; i < 10; i++ {
		atts = append(atts, models.Attendance{EmployeeID: 1, Status: models.AttendancePresent, Date: day(i + 1)})
	}
	for i := 0; i < 2; i++ {
		atts = append(atts, models.Attendance{EmployeeID: 1, Status: models.AttendanceHalfDay, Date: day(i + 11)})
	}
	atts[0].OvertimeHours = 3

	allocations := []models.LabourAllocation{
		{EmployeeID: 1, ProjectID: 7, Status: models.AllocationActive, StartDate: day(1), Employee: welder()},
	}

	members, summary := BuildTeamCosts(allocations, atts)
	if len(members) != 1 {
		t.Fatalf("got %d members, want 1", len(members))
	}

	m := members[0]
	if !almostEqual(m.DailyRate, 100) {
		t.Errorf("daily rate = %v, want 100", m.DailyRate)
	}
	if !almostEqual(m.WorkDays, 11) {
		t.Errorf("work days = %v, want 11", m.WorkDays)
	}
	if !almostEqual(m.RegularPay, 1100) {
		t.Errorf("regular pay = %v, want 1100", m.RegularPay)
	}
	if !almostEqual(m.OvertimePay, 15) {
		t.Errorf("overtime pay = %v, want 15", m.OvertimePay)
	}
	if !almostEqual(m.TotalCost, 1115) {
		t.Errorf("total cost = %v, want 1115", m.TotalCost)
	}

	if !almostEqual(summary.TotalLabourCost, 1115) {
		t.Errorf("summary labour cost = %v, want 1115", summary.TotalLabourCost)
	}
	if !almostEqual(summary.AvgCostPerDay, 1115.0/11) {
		t.Errorf("avg cost per day = %v", summary.AvgCostPerDay)
	}
}

func TestBuildTeamCosts_NoAttendance(t *testing.T) {
	allocations := []models.LabourAllocation{
		{EmployeeID: 1, ProjectID: 7, Status: models.AllocationActive, Employee: welder()},
	}

	members, summary := BuildTeamCosts(allocations, nil)
	if len(members) != 1 {
		t.Fatalf("got %d members, want 1", len(members))
	}
	if !almostEqual(summary.AvgCostPerDay, 0) {
		t.Errorf("avg cost per day = %v, want 0 with no work days", summary.AvgCostPerDay)
	}
}

func TestBuildTeamCosts_DuplicateAllocationCountedOnce(t *testing.T) {
	atts := []models.Attendance{
		{EmployeeID: 1, Status: models.AttendancePresent, Date: day(1)},
	}
	allocations := []models.LabourAllocation{
		{ID: 1, EmployeeID: 1, ProjectID: 7, Status: models.AllocationCompleted, Employee: welder()},
		{ID: 2, EmployeeID: 1, ProjectID: 7, Status: models.AllocationActive, Employee: welder()},
	}

	members, summary := BuildTeamCosts(allocations, atts)
	if len(members) != 1 {
		t.Fatalf("employee reported %d times, want once", len(members))
	}
	if !almostEqual(summary.TotalWorkDays, 1) {
		t.Errorf("work days = %v, want 1 (no double counting)", summary.TotalWorkDays)
	}
}

// Per-employee totals must sum to the project-level labour figure.
func TestTeamCostsMatchProjectLabour(t *testing.T) {
	in := fixtureProjectInput()
	fin := BuildProjectFinancials(in)

	allocations := []models.LabourAllocation{
		{EmployeeID: 1, ProjectID: in.Project.ID, Status: models.AllocationActive, Employee: in.Employees[1]},
	}
	_, summary := BuildTeamCosts(allocations, in.Attendance)

	if !almostEqual(summary.TotalLabourCost, fin.Costs.Labour) {
		t.Errorf("team labour %v != project labour %v", summary.TotalLabourCost, fin.Costs.Labour)
	}
}
