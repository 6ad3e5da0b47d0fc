package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/elektromeistras/creditledger/internal/application/catalog"
	creditapp "github.com/elektromeistras/creditledger/internal/application/credit"
	partnerapp "github.com/elektromeistras/creditledger/internal/application/partner"
	returnsapp "github.com/elektromeistras/creditledger/internal/application/returns"
	"github.com/elektromeistras/creditledger/internal/infrastructure/cache"
	"github.com/elektromeistras/creditledger/internal/infrastructure/config"
	"github.com/elektromeistras/creditledger/internal/infrastructure/event"
	"github.com/elektromeistras/creditledger/internal/infrastructure/logger"
	"github.com/elektromeistras/creditledger/internal/infrastructure/persistence"
	"github.com/elektromeistras/creditledger/internal/interfaces/http/handler"
	"github.com/elektromeistras/creditledger/internal/interfaces/http/middleware"
	"github.com/elektromeistras/creditledger/internal/interfaces/http/router"
)

//	@title			Credit Ledger API
//	@version		1.0
//	@description	Credit balance and transaction lifecycle service for trade customers

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Credit Ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	transactionRepo := persistence.NewGormCreditTransactionRepository(db.DB)
	returnCaseRepo := persistence.NewGormReturnCaseRepository(db.DB)
	returnReasonRepo := persistence.NewGormReturnReasonRepository(db.DB)

	// Idempotency store guards double-submitted confirmations.
	// Falls back to the in-memory store when Redis is unreachable.
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// In-memory event bus with an audit trail subscriber. Handlers are
	// wrapped with idempotency checks so redelivered events are no-ops.
	eventBus := event.NewInMemoryEventBus(log)
	auditHandler := event.NewIdempotentHandler(event.NewAuditLogHandler(log), idempotencyStore, log,
		event.WithHandlerName("audit"))
	eventBus.Subscribe(auditHandler)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Initialize application services
	customerService := partnerapp.NewCustomerService(customerRepo)
	customerService.SetEventPublisher(eventBus)
	productService := catalogapp.NewProductService(productRepo)
	transactionService := creditapp.NewTransactionService(transactionRepo, customerRepo, productRepo)
	transactionService.SetIdempotencyStore(idempotencyStore)
	transactionService.SetEventPublisher(eventBus)
	returnService := returnsapp.NewReturnService(returnCaseRepo, returnReasonRepo, customerRepo)
	returnService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	productHandler := handler.NewProductHandler(productService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	returnHandler := handler.NewReturnHandler(returnService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, security headers, CORS, body size limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Partner domain (customers)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/over-limit", customerHandler.ListOverLimit)
	partnerRoutes.GET("/customers/code/:code", customerHandler.GetByCode)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.GET("/customers/:id/balance", customerHandler.GetBalance)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.PUT("/customers/:id/credit-limit", customerHandler.SetCreditLimit)
	partnerRoutes.POST("/customers/:id/activate", customerHandler.Activate)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)

	// Catalog domain (products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/code/:code", productHandler.GetByCode)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	catalogRoutes.POST("/products/:id/discontinue", productHandler.Discontinue)

	// Credit domain (transaction lifecycle)
	creditRoutes := router.NewDomainGroup("credit", "/credit")
	creditRoutes.POST("/transactions", transactionHandler.Create)
	creditRoutes.GET("/transactions", transactionHandler.List)
	creditRoutes.GET("/transactions/search", transactionHandler.Search)
	creditRoutes.POST("/transactions/quick-pickup", transactionHandler.CreateQuickPickup)
	creditRoutes.POST("/transactions/return-from-pickup", transactionHandler.CreateReturnFromPickup)
	creditRoutes.POST("/transactions/project-balance", transactionHandler.ProjectBalance)
	creditRoutes.GET("/transactions/number/:number", transactionHandler.GetByNumber)
	creditRoutes.GET("/transactions/:id", transactionHandler.GetByID)
	creditRoutes.POST("/transactions/:id/confirm", transactionHandler.Confirm)
	creditRoutes.POST("/transactions/:id/cancel", transactionHandler.Cancel)
	creditRoutes.POST("/transactions/:id/invoice", transactionHandler.MarkInvoiced)
	creditRoutes.POST("/transactions/:id/reverse", transactionHandler.Reverse)
	creditRoutes.GET("/customers/:customer_id/transactions/recent", transactionHandler.Recent)
	creditRoutes.GET("/customers/:customer_id/transactions/pending", transactionHandler.Pending)
	creditRoutes.GET("/customers/:customer_id/statement", transactionHandler.MonthlyStatement)

	// Returns domain (return case workflow)
	returnRoutes := router.NewDomainGroup("returns", "/returns")
	returnRoutes.POST("", returnHandler.Create)
	returnRoutes.GET("", returnHandler.List)
	returnRoutes.GET("/reasons", returnHandler.ListReasons)
	returnRoutes.GET("/number/:number", returnHandler.GetByNumber)
	returnRoutes.GET("/:id", returnHandler.GetByID)
	returnRoutes.POST("/:id/approve", returnHandler.Approve)
	returnRoutes.POST("/:id/reject", returnHandler.Reject)
	returnRoutes.POST("/:id/in-transit", returnHandler.MarkInTransit)
	returnRoutes.POST("/:id/receive", returnHandler.MarkReceived)
	returnRoutes.POST("/:id/inspect", returnHandler.Inspect)
	returnRoutes.POST("/:id/restock", returnHandler.Restock)
	returnRoutes.POST("/:id/refund", returnHandler.ProcessRefund)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(partnerRoutes).
		Register(catalogRoutes).
		Register(creditRoutes).
		Register(returnRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
