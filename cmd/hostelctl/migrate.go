package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashrayhostel/hostel-api/internal/config"
	"github.com/ashrayhostel/hostel-api/internal/database"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	fmt.Println("Schema is up to date")
	return nil
}
