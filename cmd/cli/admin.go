package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winterhq/socialboard/internal/auth"
)

var (
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or reset the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		svc := auth.NewService(db, nil)
		user, err := svc.CreateAdmin(adminEmail, adminPassword)
		if err != nil {
			return err
		}

		fmt.Printf("Admin account ready: %s (id %s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
}
