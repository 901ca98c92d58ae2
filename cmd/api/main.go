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
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/PGohila/LMS/internal/cache"
	"github.com/PGohila/LMS/internal/config"
	"github.com/PGohila/LMS/internal/database"
	"github.com/PGohila/LMS/internal/handlers"
	"github.com/PGohila/LMS/internal/jobs"
	"github.com/PGohila/LMS/internal/middleware"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/services"
	"github.com/PGohila/LMS/internal/storage"
	"github.com/PGohila/LMS/pkg/logger"
)

// @title LMS API
// @version 1.0
// @description REST API for the loan management system

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Set them in .env and ensure the From domain is verified in Resend dashboard.")
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

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Plan cache is optional; the calculator falls back to computing every
	// request when Redis is not configured.
	var planCache *cache.PlanCache
	if cfg.RedisURL != "" {
		planCache, err = cache.NewPlanCache(cfg.RedisURL, time.Duration(cfg.PlanCacheTTL)*time.Minute)
		if err != nil {
			logger.Warn("Plan cache disabled", "error", err)
			planCache = nil
		} else {
			logger.Info("Plan cache enabled", "ttl_minutes", cfg.PlanCacheTTL)
		}
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db, planCache)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

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

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	if planCache != nil {
		planCache.Close()
	}

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

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Password recovery (public)
		v1.POST("/users/send_recovery_code", h.User.SendRecoveryCode)
		v1.POST("/users/verify_recovery_code", h.User.VerifyRecoveryCode)
		v1.POST("/users/update_password_with_code", h.User.UpdatePasswordWithCode)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.PUT("/users/:user_id/toggle_status", h.User.ToggleStatus)
				admin.POST("/users/:user_id/restore", h.User.Restore)

				// Application decisions
				admin.POST("/applications/:application_id/approve", h.Application.Approve)
				admin.POST("/applications/:application_id/reject", h.Application.Reject)

				// Modification and settlement decisions
				admin.POST("/modifications/:modification_id/approve", h.Modification.Approve)
				admin.POST("/modifications/:modification_id/reject", h.Modification.Reject)
				admin.POST("/modifications/:modification_id/apply", h.Modification.Apply)
				admin.POST("/settlements/:settlement_id/accept", h.Settlement.Accept)
				admin.POST("/settlements/:settlement_id/reject", h.Settlement.Reject)
				admin.POST("/settlements/:settlement_id/complete", h.Settlement.Complete)

				// Penalty policy and manual scan
				admin.PUT("/pastdue/config", h.PastDue.SaveConfig)
				admin.POST("/pastdue/scan", h.PastDue.Scan)

				// Document types and verification
				admin.POST("/documents/types", h.Document.CreateType)
				admin.POST("/documents/:document_id/verify", h.Document.Verify)
				admin.DELETE("/documents/:document_id", h.Document.Delete)

				// Audit trail
				admin.GET("/audits", h.Audit.Index)
			}

			// Officer + admin routes (day-to-day loan operations)
			staff := protected.Group("")
			staff.Use(middleware.RequireRole("admin", "officer"))
			{
				staff.GET("/users", h.User.Index)

				// Customers
				staff.GET("/customers", h.Customer.Index)
				staff.POST("/customers", h.Customer.Create)
				staff.GET("/customers/:customer_id", h.Customer.Show)
				staff.PUT("/customers/:customer_id", h.Customer.Update)
				staff.DELETE("/customers/:customer_id", h.Customer.Delete)
				staff.GET("/customers/:customer_id/applications", h.Customer.Applications)
				staff.GET("/customers/:customer_id/documents", h.Customer.Documents)

				// Applications. Static route before :application_id.
				staff.GET("/applications/status_counts", h.Application.StatusCounts)
				staff.GET("/applications", h.Application.Index)
				staff.POST("/applications", h.Application.Create)
				staff.GET("/applications/:application_id", h.Application.Show)
				staff.PUT("/applications/:application_id", h.Application.Update)
				staff.POST("/applications/:application_id/submit", h.Application.Submit)
				staff.POST("/applications/:application_id/review", h.Application.Review)
				staff.GET("/applications/:application_id/preview", h.Application.Preview)
				staff.GET("/applications/:application_id/schedules", h.Application.Schedules)
				staff.GET("/applications/:application_id/history", h.Application.History)
				staff.GET("/applications/:application_id/documents", h.Application.Documents)

				// Calculator
				staff.POST("/calculator/plan", h.Calculator.Calculate)
				staff.GET("/calculator/methods", h.Calculator.Methods)

				// Loan accounts and repayments
				staff.GET("/accounts", h.Account.Index)
				staff.GET("/accounts/:account_id", h.Account.Show)
				staff.GET("/accounts/:account_id/transactions", h.Account.Transactions)
				staff.POST("/accounts/:account_id/repayments", h.Account.Repay)
				staff.POST("/accounts/:account_id/apply_advance", h.Account.ApplyAdvance)

				// Modifications and settlements (requests; decisions are admin)
				staff.GET("/modifications", h.Modification.Index)
				staff.POST("/modifications", h.Modification.Create)
				staff.GET("/modifications/:modification_id", h.Modification.Show)
				staff.GET("/settlements", h.Settlement.Index)
				staff.POST("/settlements", h.Settlement.Create)
				staff.GET("/settlements/:settlement_id", h.Settlement.Show)

				// Past due
				staff.GET("/pastdue/records", h.PastDue.Records)
				staff.GET("/pastdue/config", h.PastDue.Config)
				staff.POST("/pastdue/reminders", h.PastDue.SendReminders)

				// Documents. Static route before :document_id.
				staff.GET("/documents/types", h.Document.Types)
				staff.POST("/documents", h.Document.Upload)
				staff.GET("/documents/:document_id", h.Document.Show)
				staff.GET("/documents/:document_id/download", h.Document.Download)

				// Portfolio and reports
				staff.GET("/portfolio/overview", h.Portfolio.Overview)
				staff.GET("/portfolio/status_distribution", h.Portfolio.StatusDistribution)
				staff.GET("/portfolio/overdue_aging", h.Portfolio.OverdueAging)
				staff.GET("/portfolio/export", h.Portfolio.Export)
				staff.GET("/portfolio/export_schedule", h.Portfolio.ExportSchedule)
				staff.GET("/reports/schedule_csv", h.Report.ScheduleCSV)
				staff.GET("/reports/overdue_csv", h.Report.OverdueCSV)
				staff.GET("/reports/statement_pdf", h.Report.StatementPDF)
				staff.GET("/reports/agreement_pdf", h.Report.AgreementPDF)

				// Worker status
				staff.GET("/jobs/status", h.Job.Status)
			}

			// Profile access (admin or profile owner)
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.PATCH("/users/:user_id/change_password", h.User.ChangePassword)
			protected.POST("/users/:user_id/resend_confirmation", h.User.ResendConfirmation)

			// Notifications (users manage their own)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.PUT("/:notification_id", h.Notification.Update)
				notifications.GET("/:notification_id", h.Notification.Show)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Past-due scan every hour: detect overdue installments, accrue
	// penalties and flag accounts. Idempotent per day.
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Running past-due scan...")
		result, err := svcs.PastDue.Scan(ctx)
		if err != nil {
			return err
		}
		logger.Info("[Job] Past-due scan finished",
			"overdue", result.OverdueInstallments,
			"penalties", result.PenaltiesAccrued,
			"flagged", result.AccountsFlagged)
		return nil
	})

	// Daily reminders for installments due within the next 3 days
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending due reminders...")
		sent, err := svcs.PastDue.SendReminders(ctx, 3*24*time.Hour)
		if err != nil {
			return err
		}
		logger.Info("[Job] Due reminders sent", "count", sent)
		return nil
	})

	// Update customer credit scores every 6 hours
	worker.ScheduleEvery(6*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Updating credit scores...")
		return svcs.CreditScore.UpdateAllScores(ctx)
	})

	// Purge expired refresh tokens daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Cleaning up expired refresh tokens...")
		return svcs.Auth.CleanupExpiredTokens(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
