package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winterhq/socialboard/internal/seed"
)

var seedWipe bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with demo dashboard data",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		seeder := seed.NewSeeder(db)
		if seedWipe {
			if err := seeder.Clean(); err != nil {
				return fmt.Errorf("cleaning existing data: %w", err)
			}
			fmt.Println("Existing dashboard data removed")
		}

		if err := seeder.SeedDev(); err != nil {
			return err
		}
		fmt.Println("Demo data seeded")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedWipe, "wipe", false, "Delete existing dashboard data first")
}
