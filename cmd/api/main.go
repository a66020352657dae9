package main

import (
	"context"
	"errors"
	"fmt"
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

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/config"
	"github.com/ashrayhostel/hostel-api/internal/database"
	"github.com/ashrayhostel/hostel-api/internal/handlers"
	"github.com/ashrayhostel/hostel-api/internal/jobs"
	"github.com/ashrayhostel/hostel-api/internal/middleware"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/ashrayhostel/hostel-api/internal/storage"
	"github.com/ashrayhostel/hostel-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const shutdownGrace = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Setup(cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			defer sentry.Flush(5 * time.Second)
		}
	}

	if err := run(cfg); err != nil {
		logger.Error("Hostel API stopped with error", "error", err)
		sentry.Flush(5 * time.Second)
		os.Exit(1)
	}
	logger.Info("Hostel API exited gracefully")
}

// run wires the application and serves until SIGINT or SIGTERM
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if !cfg.EmailEnabled() {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Reminder e-mails will not be sent.")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("open proof storage: %w", err)
	}
	logger.Info("Proof storage ready", "path", cfg.StoragePath)

	worker := jobs.NewWorker(cfg.WorkerCount)
	// audit writes and e-mails still queued are drained before exit
	defer worker.Shutdown()

	clock := billing.NewSystemClock(cfg.BillingLocation)
	svcs := services.NewServices(repository.NewRepositories(db), worker, store, clock, cfg)
	scheduleJobs(worker, svcs, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(handlers.NewHandlers(svcs), cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "timezone", cfg.BillingTimezone)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.CORS(cfg.AllowedOrigins),
		gzip.Gzip(gzip.DefaultCompression),
	)

	h.Register(router.Group("/api/v1"), cfg.JWTSecret)
	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// proofs past retention are purged at startup and then periodically
	worker.ScheduleEveryImmediate("retention-sweep", time.Duration(cfg.SweepIntervalMinutes)*time.Minute, svcs.Retention.Run)

	// a sent reminder marks the resident, so skip the job when mail cannot go out
	if cfg.EmailEnabled() {
		worker.ScheduleEvery("payment-reminders", time.Duration(cfg.ReminderIntervalHours)*time.Hour, svcs.Reminder.Run)
	}
}
