package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"structa-system/config"
	"structa-system/internal/database"
	"structa-system/internal/handlers"
	"structa-system/internal/middleware"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	registerRoutes(r, db, rdb, cfg)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK
		components := gin.H{"database": "healthy", "redis": "healthy"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			components["database"] = "unavailable"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			components["redis"] = "unavailable"
			status = "degraded"
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"components": components,
			"timestamp":  time.Now(),
		})
	})

	addr := ":" + cfg.Server.Port
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func registerRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg.Auth)
	projectsHandler := handlers.NewProjectsHandler(db, cfg.Finance)
	billingHandler := handlers.NewBillingHandler(db)
	financeHandler := handlers.NewFinanceHandler(db, rdb)
	dashboardHandler := handlers.NewDashboardHandler(db)
	hrHandler := handlers.NewHRHandler(db)
	procurementHandler := handlers.NewProcurementHandler(db)
	inventoryHandler := handlers.NewInventoryHandler(db, rdb)
	crmHandler := handlers.NewCRMHandler(db)

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}
		public.POST("/enquiries", crmHandler.CreateEnquiry)
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		projects := protected.Group("/projects")
		{
			projects.GET("", projectsHandler.ListProjects)
			projects.GET("/:id", projectsHandler.GetProject)
			projects.GET("/:id/financials", projectsHandler.GetProjectFinancials)
			projects.GET("/:id/team", projectsHandler.GetProjectTeam)
		}

		invoices := protected.Group("/invoices")
		{
			invoices.GET("", billingHandler.ListInvoices)
		}

		support := protected.Group("/support-requests")
		{
			support.GET("", crmHandler.ListSupportRequests)
			support.POST("", crmHandler.CreateSupportRequest)
		}

		meetings := protected.Group("/meeting-requests")
		{
			meetings.GET("", crmHandler.ListMeetingRequests)
			meetings.POST("", crmHandler.CreateMeetingRequest)
		}
	}

	// --- Back-office API Group ---
	admin := r.Group("/api/v1")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/projects", projectsHandler.CreateProject)
		admin.POST("/projects/:id/team", projectsHandler.AllocateStaff)
		admin.POST("/projects/:id/allocate", projectsHandler.AllocateStaff) // pre-rewrite path, kept for existing clients

		admin.POST("/invoices", billingHandler.CreateInvoice)
		admin.POST("/invoices/:id/payments", billingHandler.RecordPayment)

		finance := admin.Group("/finance")
		{
			finance.GET("/general-ledger", financeHandler.GetGeneralLedger)
			finance.GET("/general-ledger/export", financeHandler.ExportGeneralLedger)
			finance.POST("/general-ledger", financeHandler.PostLedgerEntry)
			finance.GET("/transactions", financeHandler.ListTransactions)
			finance.GET("/tax-rates", financeHandler.ListTaxRates)
			finance.POST("/tax-rates", financeHandler.CreateTaxRate)
		}

		admin.GET("/dashboard/executive-summary", dashboardHandler.GetExecutiveSummary)

		admin.GET("/employees", hrHandler.ListEmployees)
		admin.POST("/employees", hrHandler.CreateEmployee)
		admin.GET("/attendance", hrHandler.ListAttendance)
		admin.POST("/attendance", hrHandler.RecordAttendance)
		admin.GET("/payrolls", hrHandler.ListPayrolls)
		admin.GET("/payrolls/:id", hrHandler.GetPayroll)
		admin.POST("/payrolls", hrHandler.RunPayroll)

		admin.GET("/vendors", procurementHandler.ListVendors)
		admin.POST("/vendors", procurementHandler.CreateVendor)
		admin.GET("/purchase-orders", procurementHandler.ListPurchaseOrders)
		admin.POST("/purchase-orders", procurementHandler.CreatePurchaseOrder)
		admin.GET("/vendor-bills", procurementHandler.ListVendorBills)
		admin.POST("/vendor-bills", procurementHandler.CreateVendorBill)
		admin.POST("/vendor-bills/:id/payments", procurementHandler.RecordVendorPayment)

		inventory := admin.Group("/inventory")
		{
			inventory.GET("/items", inventoryHandler.ListItems)
			inventory.POST("/items", inventoryHandler.CreateItem)
			inventory.GET("/transactions", inventoryHandler.ListInventoryTransactions)
			inventory.POST("/transactions", inventoryHandler.CreateInventoryTransaction)
		}

		admin.GET("/enquiries", crmHandler.ListEnquiries)
		admin.PUT("/support-requests/:id/status", crmHandler.UpdateSupportStatus)
		admin.PUT("/meeting-requests/:id/status", crmHandler.UpdateMeetingStatus)
	}
}
