package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"structa-system/internal/database/models"
	"structa-system/internal/reports"
)

type HRHandler struct {
	db *gorm.DB
}

func NewHRHandler(db *gorm.DB) *HRHandler {
	return &HRHandler{db: db}
}

type CreateEmployeeRequest struct {
	EmployeeCode   string `json:"employee_code" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Role           string `json:"role,omitempty"`
	SkillType      string `json:"skill_type,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	BasicSalary    string `json:"basic_salary" binding:"required"`
	OvertimeRate   string `json:"overtime_rate,omitempty"`
}

type RecordAttendanceRequest struct {
	EmployeeID    int64   `json:"employee_id" binding:"required"`
	ProjectID     *int64  `json:"project_id,omitempty"`
	Date          string  `json:"date" binding:"required"`
	Status        string  `json:"status" binding:"required,oneof=present half_day absent"`
	OvertimeHours float64 `json:"overtime_hours,omitempty"`
}

type RunPayrollRequest struct {
	Month string `json:"month" binding:"required"` // YYYY-MM
}

func (h *HRHandler) ListEmployees(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Employee{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var employees []models.Employee
	if err := q.Order("name asc").Find(&employees).Error; err != nil {
		abortInternal(c, "hr_handler.go", "ListEmployees", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Employees retrieved", employees))
}

func (h *HRHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("employee_code, name and basic_salary are required"))
		return
	}

	salary, err := parseAmount(req.BasicSalary)
	if err != nil || salary.IsNegative() {
		c.JSON(http.StatusBadRequest, errorResponse("basic_salary must be a non-negative decimal number"))
		return
	}
	overtimeRate := decimal.Zero
	if req.OvertimeRate != "" {
		overtimeRate, err = parseAmount(req.OvertimeRate)
		if err != nil || overtimeRate.IsNegative() {
			c.JSON(http.StatusBadRequest, errorResponse("overtime_rate must be a non-negative decimal number"))
			return
		}
	}

	employee := models.Employee{
		EmployeeCode:   req.EmployeeCode,
		Name:           req.Name,
		Role:           req.Role,
		SkillType:      req.SkillType,
		EmploymentType: req.EmploymentType,
		BasicSalary:    salary,
		OvertimeRate:   overtimeRate,
		Status:         models.EmployeeActive,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Employee code already exists"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Employee created", employee))
}

func (h *HRHandler) ListAttendance(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Attendance{})
	if raw := c.Query("employee_id"); raw != "" {
		q = q.Where("employee_id = ?", raw)
	}
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("date must be YYYY-MM-DD"))
			return
		}
		q = q.Where("date >= ? AND date < ?", day, day.Add(24*time.Hour))
	}

	var records []models.Attendance
	if err := q.Order("date desc, employee_id asc").Limit(500).Find(&records).Error; err != nil {
		abortInternal(c, "hr_handler.go", "ListAttendance", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Attendance retrieved", records))
}

func (h *HRHandler) RecordAttendance(c *gin.Context) {
	var req RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("employee_id, date and a valid status are required"))
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("date must be YYYY-MM-DD"))
		return
	}

	ctx := c.Request.Context()
	var employee models.Employee
	if err := h.db.WithContext(ctx).First(&employee, req.EmployeeID).Error; err != nil {
		abortNotFound(c, "Employee")
		return
	}
	if req.ProjectID != nil {
		var project models.Project
		if err := h.db.WithContext(ctx).First(&project, *req.ProjectID).Error; err != nil {
			abortNotFound(c, "Project")
			return
		}
	}

	record := models.Attendance{
		EmployeeID:    req.EmployeeID,
		ProjectID:     req.ProjectID,
		Date:          &day,
		Status:        req.Status,
		OvertimeHours: req.OvertimeHours,
	}
	if err := h.db.WithContext(ctx).Create(&record).Error; err != nil {
		abortInternal(c, "hr_handler.go", "RecordAttendance", "insert", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Attendance recorded", record))
}

func (h *HRHandler) ListPayrolls(c *gin.Context) {
	var payrolls []models.Payroll
	if err := h.db.WithContext(c.Request.Context()).Order("month desc").Find(&payrolls).Error; err != nil {
		abortInternal(c, "hr_handler.go", "ListPayrolls", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Payrolls retrieved", payrolls))
}

func (h *HRHandler) GetPayroll(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var payroll models.Payroll
	if err := h.db.WithContext(c.Request.Context()).Preload("Lines.Employee").First(&payroll, id).Error; err != nil {
		abortNotFound(c, "Payroll")
		return
	}

	c.JSON(http.StatusOK, successResponse("Payroll retrieved", payroll))
}

// RunPayroll builds a draft payroll for the given month from the attendance
// register: weighted work days at the daily rate plus overtime hours at the
// employee's overtime rate. Running an already-built month is rejected.
func (h *HRHandler) RunPayroll(c *gin.Context) {
	var req RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("month is required"))
		return
	}

	monthStart, err := time.Parse("2006-01", req.Month)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("month must be YYYY-MM"))
		return
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	ctx := c.Request.Context()

	var existing int64
	if err := h.db.WithContext(ctx).Model(&models.Payroll{}).Where("month = ?", req.Month).Count(&existing).Error; err != nil {
		abortInternal(c, "hr_handler.go", "RunPayroll", "check month", err)
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Payroll for this month already exists"))
		return
	}

	var employees []models.Employee
	if err := h.db.WithContext(ctx).Where("status = ?", models.EmployeeActive).Find(&employees).Error; err != nil {
		abortInternal(c, "hr_handler.go", "RunPayroll", "load employees", err)
		return
	}
	var attendance []models.Attendance
	if err := h.db.WithContext(ctx).Where("date >= ? AND date < ?", monthStart, monthEnd).Find(&attendance).Error; err != nil {
		abortInternal(c, "hr_handler.go", "RunPayroll", "load attendance", err)
		return
	}

	byEmployee := make(map[int64][]models.Attendance)
	for _, a := range attendance {
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a)
	}

	payroll := models.Payroll{Month: req.Month, Status: models.PayrollDraft}
	total := decimal.Zero
	for _, emp := range employees {
		records := byEmployee[emp.ID]
		if len(records) == 0 {
			continue
		}
		basePay := decimal.Zero
		overtimePay := decimal.Zero
		dailyRate := emp.BasicSalary.Div(decimal.NewFromFloat(reports.PayrollDivisorDays))
		for _, a := range records {
			switch a.Status {
			case models.AttendancePresent:
				basePay = basePay.Add(dailyRate)
			case models.AttendanceHalfDay:
				basePay = basePay.Add(dailyRate.Div(decimal.NewFromInt(2)))
			}
			if a.OvertimeHours > 0 {
				overtimePay = overtimePay.Add(emp.OvertimeRate.Mul(decimal.NewFromFloat(a.OvertimeHours)))
			}
		}
		line := models.PayrollLine{
			EmployeeID:  emp.ID,
			BasePay:     basePay.Round(2),
			OvertimePay: overtimePay.Round(2),
			Deductions:  decimal.Zero,
			TotalPay:    basePay.Add(overtimePay).Round(2),
		}
		payroll.Lines = append(payroll.Lines, line)
		total = total.Add(line.TotalPay)
	}
	payroll.TotalAmount = total

	if err := h.db.WithContext(ctx).Create(&payroll).Error; err != nil {
		abortInternal(c, "hr_handler.go", "RunPayroll", "insert", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Payroll created", payroll))
}
