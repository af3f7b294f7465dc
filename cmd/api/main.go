package main

import (
	"log"
	"os"

	_ "fintrack/api/swagger" // swagger docs
	"fintrack/internal/database"
	"fintrack/internal/event"
	"fintrack/internal/handler"
	"fintrack/internal/ledger"
	"fintrack/internal/middleware"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           FinTrack API
// @version         1.0
// @description     Financial operations tracking for NGO programmes: expense approval, procurement, budgets and cash ledgers.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// WebSocket hub receives domain events and pushes them to clients
	wsHub := websocket.NewHub()
	go wsHub.Run()

	eventBus := event.NewBus()
	eventBus.Subscribe(wsHub.Subscriber())

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	donorRepo := repository.NewDonorRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	approvalRepo := repository.NewExpenseApprovalRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	bankAccountRepo := repository.NewBankAccountRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Ledgers
	budgetLedger := ledger.NewBudgetLedger(budgetRepo, auditRepo)
	cashLedger := ledger.NewCashLedger(bankAccountRepo, cashFlowRepo, auditRepo)

	// Services
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo, donorRepo)
	budgetService := service.NewBudgetService(budgetRepo, projectRepo, txManager)
	vendorService := service.NewVendorService(vendorRepo)
	expenseService := service.NewExpenseService(expenseRepo, approvalRepo, budgetRepo, projectRepo, auditRepo, txManager, budgetLedger, cashLedger, eventBus)
	poService := service.NewPurchaseOrderService(poRepo, expenseRepo, vendorRepo, projectRepo, auditRepo, txManager, eventBus)
	bankService := service.NewBankService(bankAccountRepo, cashFlowRepo, donorRepo, txManager, cashLedger, eventBus)
	auditService := service.NewAuditService(auditRepo)

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	poHandler := handler.NewPurchaseOrderHandler(poService)
	bankHandler := handler.NewBankHandler(bankService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API routes. Everything under /api requires a valid token;
	// finer role checks live on the individual route groups and in the
	// workflow services.
	public := router.Group("")
	userHandler.RegisterRoutes(public)

	api := router.Group("/api", middleware.RequireAuth())
	projectHandler.RegisterRoutes(api)
	budgetHandler.RegisterRoutes(api)
	vendorHandler.RegisterRoutes(api)
	expenseHandler.RegisterRoutes(api)
	poHandler.RegisterRoutes(api)
	bankHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
