package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"structa-system/config"
	"structa-system/internal/database/models"
	"structa-system/internal/middleware"
	"structa-system/internal/reports"
)

type ProjectsHandler struct {
	db  *gorm.DB
	cfg config.FinanceConfig
}

func NewProjectsHandler(db *gorm.DB, cfg config.FinanceConfig) *ProjectsHandler {
	return &ProjectsHandler{db: db, cfg: cfg}
}

type CreateProjectRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description,omitempty"`
	ClientID      int64   `json:"client_id" binding:"required"`
	EstimatedCost string  `json:"estimated_cost,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	Deadline      *string `json:"deadline,omitempty"`
}

type AllocateStaffRequest struct {
	EmployeeID int64   `json:"employee_id" binding:"required"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    *string `json:"end_date,omitempty"`
}

type ListProjectsQuery struct {
	Page     int     `form:"page,default=1"`
	PageSize int     `form:"page_size,default=20"`
	Status   *string `form:"status,omitempty"`
}

// GetProjectFinancials returns the profitability report for one project.
// Independent record sets are fetched concurrently; the arithmetic itself is
// a single synchronous pass in the reports package.
func (h *ProjectsHandler) GetProjectFinancials(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := h.db.WithContext(c.Request.Context()).First(&project, projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortNotFound(c, "Project")
			return
		}
		abortInternal(c, "projects_handler.go", "GetProjectFinancials", "load project", err)
		return
	}

	if !canViewProject(claims, project) {
		abortForbidden(c)
		return
	}

	in := reports.ProjectFinancialsInput{
		Project:                project,
		LegacyDescriptionMatch: h.cfg.LegacyProjectExpenseMatch,
	}
	var attendance []models.Attendance

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("project_id = ?", projectID).
			Preload("Payments").
			Find(&in.Invoices).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("project_id = ?", projectID).
			Preload("Employee").
			Find(&attendance).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("project_id = ?", projectID).
			Preload("Item").
			Find(&in.InventoryTxns).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("project_id = ?", projectID).
			Preload("VendorBills.VendorPayments").
			Find(&in.PurchaseOrders).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("category = ? AND type = ?", models.CategoryProjectExpense, models.TransactionExpense).
			Find(&in.Transactions).Error
	})
	if err := g.Wait(); err != nil {
		abortInternal(c, "projects_handler.go", "GetProjectFinancials", "fan-out", err)
		return
	}

	in.Attendance = attendance
	in.Employees = make(map[int64]models.Employee, len(attendance))
	for _, att := range attendance {
		in.Employees[att.EmployeeID] = att.Employee
	}

	c.JSON(http.StatusOK, reports.BuildProjectFinancials(in))
}

// GetProjectTeam returns the per-employee cost breakdown plus team summary.
func (h *ProjectsHandler) GetProjectTeam(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := h.db.WithContext(c.Request.Context()).First(&project, projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortNotFound(c, "Project")
			return
		}
		abortInternal(c, "projects_handler.go", "GetProjectTeam", "load project", err)
		return
	}

	if !canViewProject(claims, project) {
		abortForbidden(c)
		return
	}

	var allocations []models.LabourAllocation
	var attendance []models.Attendance

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("project_id = ?", projectID).
			Preload("Employee").
			Order("start_date asc").
			Find(&allocations).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("project_id = ?", projectID).
			Find(&attendance).Error
	})
	if err := g.Wait(); err != nil {
		abortInternal(c, "projects_handler.go", "GetProjectTeam", "fan-out", err)
		return
	}

	team, summary := reports.BuildTeamCosts(allocations, attendance)

	c.JSON(http.StatusOK, gin.H{
		"project": reports.ProjectSummary{ID: project.ID, Title: project.Title, Status: project.Status},
		"team":    team,
		"summary": summary,
	})
}

// AllocateStaff assigns an employee to the project. Admin-only (enforced by
// route middleware). The insert is a plain single-row write; a concurrent
// team read may see pre- or post-insert state.
func (h *ProjectsHandler) AllocateStaff(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AllocateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("employee_id and start_date are required"))
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("start_date must be YYYY-MM-DD"))
		return
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("end_date must be YYYY-MM-DD"))
			return
		}
		endDate = &parsed
	}

	ctx := c.Request.Context()
	var project models.Project
	if err := h.db.WithContext(ctx).First(&project, projectID).Error; err != nil {
		abortNotFound(c, "Project")
		return
	}
	var employee models.Employee
	if err := h.db.WithContext(ctx).First(&employee, req.EmployeeID).Error; err != nil {
		abortNotFound(c, "Employee")
		return
	}

	allocation := models.LabourAllocation{
		EmployeeID: employee.ID,
		ProjectID:  project.ID,
		StartDate:  &startDate,
		EndDate:    endDate,
		Status:     models.AllocationActive,
	}
	if err := h.db.WithContext(ctx).Create(&allocation).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Failed to create allocation"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Staff allocated",
		"allocation": allocation,
	})
}

func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	var query ListProjectsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Project{})
	if !claims.IsAdmin() {
		q = q.Where("client_id = ?", claims.UserId)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		abortInternal(c, "projects_handler.go", "ListProjects", "count", err)
		return
	}

	var projects []models.Project
	offset := (query.Page - 1) * query.PageSize
	if err := q.Order("created_at desc").Limit(query.PageSize).Offset(offset).Find(&projects).Error; err != nil {
		abortInternal(c, "projects_handler.go", "ListProjects", "find", err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Projects retrieved", projects, gin.H{
		"page": query.Page, "page_size": query.PageSize, "total": total,
	}))
}

func (h *ProjectsHandler) GetProject(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := h.db.WithContext(c.Request.Context()).First(&project, projectID).Error; err != nil {
		abortNotFound(c, "Project")
		return
	}
	if !canViewProject(claims, project) {
		abortForbidden(c)
		return
	}

	c.JSON(http.StatusOK, successResponse("Project retrieved", project))
}

func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("title and client_id are required"))
		return
	}

	ctx := c.Request.Context()
	var client models.User
	if err := h.db.WithContext(ctx).Where("id = ? AND role = ?", req.ClientID, models.RoleClient).First(&client).Error; err != nil {
		abortNotFound(c, "Client")
		return
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      models.ProjectPending,
	}
	if req.EstimatedCost != "" {
		cost, err := parseAmount(req.EstimatedCost)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("estimated_cost must be a decimal number"))
			return
		}
		project.EstimatedCost = cost
	}
	if req.StartDate != nil {
		if t, err := time.Parse("2006-01-02", *req.StartDate); err == nil {
			project.StartDate = &t
		}
	}
	if req.Deadline != nil {
		if t, err := time.Parse("2006-01-02", *req.Deadline); err == nil {
			project.Deadline = &t
		}
	}

	if err := h.db.WithContext(ctx).Create(&project).Error; err != nil {
		abortInternal(c, "projects_handler.go", "CreateProject", "insert", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Project created", project))
}
