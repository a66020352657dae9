// Command hostelctl runs operator tasks against the hostel database.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/config"
	"github.com/ashrayhostel/hostel-api/internal/database"
	"github.com/ashrayhostel/hostel-api/internal/jobs"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/ashrayhostel/hostel-api/internal/storage"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "hostelctl",
	Short:         "Hostel API operator tool",
	Long:          "Run migrations, retention sweeps and financial snapshots without the HTTP server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is the service graph a command works against
type app struct {
	cfg    *config.Config
	repos  *repository.Repositories
	svcs   *services.Services
	worker *jobs.Worker
}

// openApp connects to the database and builds the services. Call close when done.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	worker := jobs.NewWorker(1)
	clock := billing.NewSystemClock(cfg.BillingLocation)

	return &app{
		cfg:    cfg,
		repos:  repos,
		svcs:   services.NewServices(repos, worker, store, clock, cfg),
		worker: worker,
	}, nil
}

// close waits for queued audit entries before exiting
func (a *app) close() {
	a.worker.Shutdown()
}
