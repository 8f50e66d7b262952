package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/stockroom/backend/internal/application/catalog"
	documentapp "github.com/stockroom/backend/internal/application/document"
	identityapp "github.com/stockroom/backend/internal/application/identity"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	partnerapp "github.com/stockroom/backend/internal/application/partner"
	reportapp "github.com/stockroom/backend/internal/application/report"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/cache"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stockroom/backend/internal/infrastructure/telemetry"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stockroom backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(cfg.Database.DBName); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected")

	// Idempotency store: Redis when reachable, in-memory otherwise
	var idemStore documentapp.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis, 24*time.Hour)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
		memStore := cache.NewInMemoryIdempotencyStore(24 * time.Hour)
		defer memStore.Close()
		idemStore = memStore
	} else {
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		idemStore = redisStore
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	balanceRepo := persistence.NewGormBalanceRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	cycleCountRepo := persistence.NewGormCycleCountRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	returnOrderRepo := persistence.NewGormReturnOrderRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	auditRecorder := persistence.NewGormAuditRecorder(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo)
	locationService := partnerapp.NewLocationService(locationRepo)
	balanceService := inventoryapp.NewBalanceService(balanceRepo, movementRepo)
	cycleCountService := inventoryapp.NewCycleCountService(cycleCountRepo, balanceRepo, txScope, idemStore, auditRecorder, log)
	purchaseOrderService := documentapp.NewPurchaseOrderService(purchaseOrderRepo, txScope, idemStore, auditRecorder, log)
	shipmentService := documentapp.NewShipmentService(shipmentRepo, txScope, idemStore, auditRecorder, log)
	transferService := documentapp.NewTransferService(transferRepo, txScope, idemStore, auditRecorder, log)
	returnService := documentapp.NewReturnService(returnOrderRepo, txScope, idemStore, auditRecorder, log)
	adjustmentService := documentapp.NewAdjustmentService(adjustmentRepo, txScope, idemStore, auditRecorder, log)
	reportService := reportapp.NewReportService(balanceRepo, movementRepo)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, roleRepo, log)
	userService := identityapp.NewUserService(userRepo, roleRepo)

	// Token verification only; tokens are issued by the external identity provider
	verifier := auth.NewTokenVerifier(cfg.JWT)

	// Build the router and mount the handlers
	engine := router.New(
		router.Config{
			Env:            cfg.App.Env,
			ServiceName:    cfg.Telemetry.ServiceName,
			TracingEnabled: cfg.Telemetry.Enabled,
			HTTP:           cfg.HTTP,
			Health:         healthHandler(db),
		},
		log,
		verifier,
		handler.NewProductHandler(productService),
		handler.NewLocationHandler(locationService),
		handler.NewInventoryHandler(balanceService),
		handler.NewCycleCountHandler(cycleCountService),
		handler.NewPurchaseOrderHandler(purchaseOrderService),
		handler.NewShipmentHandler(shipmentService),
		handler.NewTransferHandler(transferService),
		handler.NewReturnOrderHandler(returnService),
		handler.NewAdjustmentHandler(adjustmentService),
		handler.NewReportHandler(reportService),
		handler.NewTenantHandler(tenantService),
		handler.NewUserHandler(userService),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness along with database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
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
