package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"frostdesk/internal/core/numerator"
	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/domain/asrequest"
	"frostdesk/internal/domain/auth"
	"frostdesk/internal/domain/orders"
	"frostdesk/internal/domain/pricetable"
	"frostdesk/internal/domain/settlement"
	"frostdesk/internal/domain/warehouse"
	"frostdesk/internal/infrastructure/http/v1/handlers"
	"frostdesk/internal/infrastructure/http/v1/middleware"
	"frostdesk/internal/infrastructure/storage/postgres"
	"frostdesk/internal/infrastructure/storage/postgres/catalog_repo"
	"frostdesk/internal/infrastructure/storage/postgres/document_repo"
	"frostdesk/internal/infrastructure/storage/postgres/report_repo"
	"frostdesk/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager runs business transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// AuthService for authentication endpoints and token validation
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator

	// QuoteAutosaveDelay is the coalescing window of the quote auto-save
	// queue
	QuoteAutosaveDelay time.Duration

	// Version string reported by /health/info
	Version string
}

// Router wraps the Gin engine with components that need shutdown.
type Router struct {
	*gin.Engine

	orderHandler *handlers.OrderHandler
}

// Close flushes pending auto-saves.
func (r *Router) Close() {
	r.orderHandler.Close()
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*Router, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// Repositories
	affiliateRepo := catalog_repo.NewAffiliateRepo(cfg.TxManager)
	priceRepo := catalog_repo.NewPriceTableRepo(cfg.TxManager)
	storedItemRepo := catalog_repo.NewStoredItemRepo(cfg.TxManager)
	orderRepo := document_repo.NewOrderRepo(cfg.TxManager)
	ticketRepo := document_repo.NewASRequestRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	archiver, err := postgres.NewReportArchiver(cfg.TxManager)
	if err != nil {
		return nil, err
	}

	// Services
	affiliateService := affiliate.NewService(affiliateRepo, cfg.TxManager, cfg.Numerator)
	priceService := pricetable.NewService(priceRepo, cfg.TxManager, cfg.Numerator)
	warehouseService := warehouse.NewService(storedItemRepo, cfg.TxManager, cfg.Numerator)
	orderService := orders.NewService(orderRepo, cfg.TxManager, cfg.Numerator)
	ticketService := asrequest.NewService(ticketRepo, cfg.TxManager, cfg.Numerator)
	settlementService := settlement.NewService(
		reportRepo,
		archiver,
		orderService,
		ticketService,
		priceService,
		affiliateService,
		cfg.TxManager,
	)

	// Handlers
	orderHandler := handlers.NewOrderHandler(baseHandler, orderService, cfg.QuoteAutosaveDelay)

	// API v1
	api := router.Group("/api/v1")
	{
		// Auth routes
		publicAuth := api.Group("/auth")
		protectedAuth := api.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.AuthService))
		handlers.NewAuthHandler(baseHandler, cfg.AuthService).RegisterRoutes(publicAuth, protectedAuth)

		// Protected endpoints
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.AuthService))

		RegisterCatalogRoutes(
			protected.Group("/affiliates"),
			handlers.NewAffiliateHandler(baseHandler, affiliateService),
		)
		warehouseHandler := handlers.NewWarehouseHandler(baseHandler, warehouseService)
		RegisterCatalogRoutes(protected.Group("/warehouse/items"), warehouseHandler)
		protected.POST("/warehouse/items/:id/release", warehouseHandler.Release)
		protected.POST("/warehouse/items/:id/scrap", warehouseHandler.Scrap)
		handlers.NewPriceTableHandler(baseHandler, priceService).
			RegisterRoutes(protected.Group("/price-table"))
		orderHandler.RegisterRoutes(protected.Group("/orders"))
		handlers.NewASRequestHandler(baseHandler, ticketService).
			RegisterRoutes(protected.Group("/as-requests"))
		handlers.NewSettlementHandler(baseHandler, settlementService).
			RegisterRoutes(protected.Group("/settlement"))
	}

	return &Router{Engine: router, orderHandler: orderHandler}, nil
}
