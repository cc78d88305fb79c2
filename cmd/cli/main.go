package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/database"
	"github.com/winterhq/socialboard/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "socialboard",
	Short: "socialboard CLI - Operate the analytics dashboard backend",
	Long: `socialboard CLI provides operational access to the dashboard backend:
bootstrap admin accounts, seed demo data, and recalculate engagement rates.`,
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(recalcEngagementCmd)
}

// openDB connects and migrates, shared by all subcommands
func openDB() (*gorm.DB, error) {
	_ = godotenv.Load()
	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), "cli.log"); err != nil {
		return nil, err
	}
	db, err := database.Connect()
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
