package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/winterhq/socialboard/internal/engagement"
	"github.com/winterhq/socialboard/internal/models"
)

var recalcEngagementCmd = &cobra.Command{
	Use:   "recalc-engagement [platform]",
	Short: "Recalculate engagement rates from stored monthly numbers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platforms := models.Platforms
		if len(args) == 1 {
			if !models.IsValidPlatform(args[0]) {
				return fmt.Errorf("unknown platform %q", args[0])
			}
			platforms = []string{args[0]}
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, platform := range platforms {
			if err := engagement.Recompute(ctx, db, platform); err != nil {
				return fmt.Errorf("recomputing %s: %w", platform, err)
			}

			var stat models.PlatformStat
			if err := db.Where("platform = ?", platform).First(&stat).Error; err == nil && stat.EngagementRate != nil {
				fmt.Printf("%-10s engagement rate: %.2f%%\n", platform, *stat.EngagementRate)
			} else {
				fmt.Printf("%-10s no stats row\n", platform)
			}
		}
		return nil
	},
}
