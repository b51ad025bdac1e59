package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/givenly/donor-api/docs" // Swagger docs
	"github.com/givenly/donor-api/internal/config"
	"github.com/givenly/donor-api/internal/database"
	"github.com/givenly/donor-api/internal/forex"
	"github.com/givenly/donor-api/internal/handlers"
	"github.com/givenly/donor-api/internal/jobs"
	"github.com/givenly/donor-api/internal/middleware"
	"github.com/givenly/donor-api/internal/repository"
	"github.com/givenly/donor-api/internal/services"
	"github.com/givenly/donor-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Givenly Donor API
// @version 1.0
// @description Payment allocation and balance reconciliation engine for donor pledges

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("Database migrated")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Currency rates back the USD conversion fallback chain
	rates := forex.NewProvider(repos.CurrencyRate)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "max_concurrent", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, rates, worker, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", h.Health.Index)

		// Payments
		v1.POST("/payments", h.Payment.Create)
		v1.GET("/payments", h.Payment.Index)
		v1.GET("/payments/:payment_id", h.Payment.Show)
		v1.PUT("/payments/:payment_id/status", h.Payment.UpdateStatus)
		v1.PUT("/payments/:payment_id/allocations", h.Payment.ReplaceAllocations)
		v1.POST("/payments/redistribute", h.Payment.Redistribute)

		// Pledges
		v1.GET("/pledges", h.Pledge.Index)
		v1.GET("/pledges/:pledge_id", h.Pledge.Show)

		// Payment plans
		v1.GET("/payment-plans/:plan_id", h.PaymentPlan.Show)
		v1.POST("/payment-plans/:plan_id/schedule", h.PaymentPlan.GenerateSchedule)

		// Repair endpoints
		v1.POST("/reconcile/pledges/:pledge_id", h.Reconcile.Pledge)
		v1.POST("/reconcile/plans/:plan_id", h.Reconcile.PaymentPlan)
		v1.POST("/reconcile/installments/:installment_id", h.Reconcile.Installment)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Mark past-due pending installments overdue; runs once at startup,
	// then on the configured interval.
	worker.ScheduleEveryImmediate(time.Duration(cfg.OverdueSweepHours)*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sweeping overdue installments...")
		return svcs.Maintenance.SweepOverdueInstallments(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
