package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appdir "github.com/invoicemonk/backend/internal/application/directory"
	appdoc "github.com/invoicemonk/backend/internal/application/document"
	appretention "github.com/invoicemonk/backend/internal/application/retention"
	"github.com/invoicemonk/backend/internal/domain/shared"
	"github.com/invoicemonk/backend/internal/infrastructure/auth"
	"github.com/invoicemonk/backend/internal/infrastructure/cache"
	"github.com/invoicemonk/backend/internal/infrastructure/config"
	"github.com/invoicemonk/backend/internal/infrastructure/event"
	"github.com/invoicemonk/backend/internal/infrastructure/logger"
	"github.com/invoicemonk/backend/internal/infrastructure/persistence"
	"github.com/invoicemonk/backend/internal/infrastructure/ratelimit"
	"github.com/invoicemonk/backend/internal/infrastructure/scheduler"
	"github.com/invoicemonk/backend/internal/infrastructure/telemetry"
	"github.com/invoicemonk/backend/internal/interfaces/http/handler"
	"github.com/invoicemonk/backend/internal/interfaces/http/middleware"
	"github.com/invoicemonk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//	@title			InvoiceMonk Backend API
//	@version		1.0
//	@description	Invoice issuance and verification service with tamper-evident document records

//	@contact.name	API Support
//	@contact.email	support@invoicemonk.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting InvoiceMonk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

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

	// Register database query tracing when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingConfig := telemetry.DefaultDBTracingConfig()
		dbTracingConfig.Enabled = true
		dbTracingConfig.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingConfig, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	profileRepo := persistence.NewGormBusinessProfileRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	retentionRepo := persistence.NewGormRetentionPolicyRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	documentService := appdoc.NewDocumentService(txScope, documentRepo, profileRepo, clientRepo)
	issuanceService := appdoc.NewIssuanceService(txScope, profileRepo, clientRepo, retentionRepo)
	verificationService := appdoc.NewVerificationService(documentRepo, profileRepo, clientRepo, auditRepo, log)
	directoryService := appdir.NewDirectoryService(profileRepo, clientRepo)
	sweepService := appretention.NewSweepService(txScope, documentRepo, log)
	sweepService.SetBatchSize(cfg.Retention.SweepBatchSize)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Shared Redis client for rate limiting and event idempotency.
	// Absent a configured host, both fall back to in-process state.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	// Initialize event bus and lifecycle event mirroring. The bus delivers
	// at-least-once, so handlers are wrapped with a duplicate check.
	var idempotencyStore shared.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient)
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	eventBus := event.NewInMemoryEventBus(log)
	lifecycleHandler := appdoc.NewLifecycleEventHandler(log)
	eventBus.Subscribe(event.NewIdempotentHandler(lifecycleHandler, idempotencyStore, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	documentService.SetEventPublisher(eventBus)
	issuanceService.SetEventPublisher(eventBus)

	// Initialize retention sweep scheduler. The scheduler is always
	// constructed so the admin trigger endpoint works; the daily loop is
	// only started when enabled.
	sweepScheduler := scheduler.NewSweepScheduler(scheduler.SweepSchedulerConfig{
		SweepHour:   cfg.Retention.SweepHour,
		SweepMinute: cfg.Retention.SweepMinute,
		RunTimeout:  cfg.Retention.SweepTimeout,
	}, sweepService, log)
	if cfg.Retention.SweepEnabled {
		if err := sweepScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start retention sweep scheduler", zap.Error(err))
		}
		defer func() {
			if err := sweepScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping retention sweep scheduler", zap.Error(err))
			}
		}()
		log.Info("Retention sweep scheduler started",
			zap.Int("sweep_hour", cfg.Retention.SweepHour),
			zap.Int("sweep_minute", cfg.Retention.SweepMinute),
			zap.Int("batch_size", cfg.Retention.SweepBatchSize),
		)
	}

	// Rate limiter for the public verification endpoint. Redis-backed when
	// Redis is configured so the window is shared across replicas; otherwise
	// each replica enforces its own in-memory window.
	var verifyLimiter ratelimit.Limiter
	if redisClient != nil {
		verifyLimiter = ratelimit.NewRedisLimiter(redisClient, cfg.HTTP.VerifyRateLimitRequests, cfg.HTTP.VerifyRateLimitWindow)
		log.Info("Verification rate limiter using Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("requests", cfg.HTTP.VerifyRateLimitRequests),
			zap.Duration("window", cfg.HTTP.VerifyRateLimitWindow),
		)
	} else {
		verifyLimiter = ratelimit.NewInMemoryLimiter(cfg.HTTP.VerifyRateLimitRequests, cfg.HTTP.VerifyRateLimitWindow)
		log.Info("Verification rate limiter using in-memory counters",
			zap.Int("requests", cfg.HTTP.VerifyRateLimitRequests),
			zap.Duration("window", cfg.HTTP.VerifyRateLimitWindow),
		)
	}

	// Initialize HTTP handlers
	documentHandler := handler.NewDocumentHandler(documentService, issuanceService)
	verificationHandler := handler.NewVerificationHandler(verificationService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	retentionHandler := handler.NewRetentionHandler(sweepScheduler)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Propagate trace context (when enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// The public verification endpoint and system probes skip authentication.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/info",
			"/api/v1/system/health",
		},
		SkipPathPrefixes: []string{
			"/api/v1/verify",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Tenant context follows authentication: the tenant ID from the JWT
	// claims is validated and propagated to the request context so logs
	// and downstream queries are tenant-tagged.
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.SkipPaths = []string{
		"/api/v1/verify",
		"/api/v1/system/info",
		"/api/v1/system/health",
	}
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Public verification endpoint, rate limited per client IP
	verifyRoutes := router.NewDomainGroup("verification", "/verify")
	if cfg.HTTP.VerifyRateLimitEnabled {
		verifyRoutes.Use(middleware.RateLimit(verifyLimiter, log))
	}
	verifyRoutes.GET("", verificationHandler.Verify)

	// Document lifecycle routes
	documentRoutes := router.NewDomainGroup("documents", "/documents")
	documentRoutes.POST("", documentHandler.Create)
	documentRoutes.GET("", documentHandler.List)
	documentRoutes.GET("/:id", documentHandler.Get)
	documentRoutes.PUT("/:id", documentHandler.UpdateDraft)
	documentRoutes.DELETE("/:id", documentHandler.DeleteDraft)
	documentRoutes.POST("/:id/issue", middleware.RequireVerifiedEmail(), documentHandler.Issue)
	documentRoutes.POST("/:id/send", documentHandler.MarkSent)
	documentRoutes.POST("/:id/view", documentHandler.MarkViewed)
	documentRoutes.POST("/:id/payments", documentHandler.RecordPayment)
	documentRoutes.POST("/:id/void", documentHandler.Void)
	documentRoutes.POST("/:id/credit-note", documentHandler.CreateCreditNote)

	// Business profile routes
	profileRoutes := router.NewDomainGroup("business-profile", "/business-profile")
	profileRoutes.POST("", directoryHandler.CreateBusinessProfile)
	profileRoutes.GET("", directoryHandler.GetBusinessProfile)
	profileRoutes.PUT("", directoryHandler.UpdateBusinessProfile)
	profileRoutes.POST("/verify-email", directoryHandler.MarkEmailVerified)

	// Client routes
	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", directoryHandler.CreateClient)
	clientRoutes.GET("", directoryHandler.ListClients)
	clientRoutes.GET("/:id", directoryHandler.GetClient)
	clientRoutes.PUT("/:id", directoryHandler.UpdateClient)
	clientRoutes.POST("/:id/archive", directoryHandler.ArchiveClient)
	clientRoutes.POST("/:id/restore", directoryHandler.RestoreClient)

	// Admin routes, restricted to service accounts
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireRole(auth.RoleServiceAccount))
	adminRoutes.POST("/retention/sweep", retentionHandler.TriggerSweep)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)

	// Register all domain groups
	r.Register(verifyRoutes).
		Register(documentRoutes).
		Register(profileRoutes).
		Register(clientRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	// Setup routes
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
