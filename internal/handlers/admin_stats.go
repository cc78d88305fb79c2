package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/audience"
	"github.com/winterhq/socialboard/internal/engagement"
	"github.com/winterhq/socialboard/internal/logger"
	"github.com/winterhq/socialboard/internal/models"
	"github.com/winterhq/socialboard/internal/util"
)

// StatInput is one platform's numbers as submitted by the admin form.
// Values arrive loose (strings with separators, numbers, empties) and go
// through the tolerant parsers, matching what the form lets people type.
type StatInput struct {
	Platform string `json:"platform" binding:"required"`

	FollowerCount  interface{} `json:"follower_count"`
	MonthlyViews   interface{} `json:"monthly_views"`
	EngagementRate interface{} `json:"engagement_rate"`

	MonthlyLikes    interface{} `json:"monthly_likes"`
	MonthlyComments interface{} `json:"monthly_comments"`
	MonthlyShares   interface{} `json:"monthly_shares"`
	MonthlySaves    interface{} `json:"monthly_saves"`
	MonthlyReach    interface{} `json:"monthly_reach"`
	TotalViews      interface{} `json:"total_views"`
}

// UpdateStatsRequest carries the full batch; saves are all-or-nothing
type UpdateStatsRequest struct {
	Stats []StatInput `json:"stats" binding:"required,min=1"`
}

// UpdateStats upserts platform stats in one transaction, records a
// snapshot per platform, bumps the refresh bus, and kicks off engagement
// recompute for platforms without an explicit engagement override.
func (h *Handlers) UpdateStats(c *gin.Context) {
	var req UpdateStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "stats payload is required")
		return
	}

	seen := make(map[string]bool, len(req.Stats))
	for _, in := range req.Stats {
		if !models.IsValidPlatform(in.Platform) {
			util.RespondValidationError(c, "platform", fmt.Sprintf("unknown platform %q", in.Platform))
			return
		}
		if seen[in.Platform] {
			util.RespondValidationError(c, "platform", fmt.Sprintf("platform %q appears twice", in.Platform))
			return
		}
		seen[in.Platform] = true
	}

	var recompute []string
	saved := make([]models.PlatformStat, 0, len(req.Stats))

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, in := range req.Stats {
			stat, err := upsertStat(tx, in)
			if err != nil {
				return err
			}
			snap := models.StatSnapshot{
				Platform:       stat.Platform,
				FollowerCount:  stat.FollowerCount,
				MonthlyViews:   stat.MonthlyViews,
				EngagementRate: stat.EngagementRate,
				TakenAt:        time.Now().UTC(),
			}
			if err := tx.Create(&snap).Error; err != nil {
				return err
			}
			if audience.ToFloat(in.EngagementRate) == nil {
				recompute = append(recompute, stat.Platform)
			}
			saved = append(saved, *stat)
		}
		return nil
	})
	if err != nil {
		logger.Log.Error("stats save failed", zap.Error(err))
		util.RespondInternalError(c, "failed to save stats")
		return
	}

	h.bus.Publish(c.Request.Context())
	for _, platform := range recompute {
		go h.recomputeEngagement(platform)
	}

	util.RespondSuccess(c, saved)
}

func upsertStat(tx *gorm.DB, in StatInput) (*models.PlatformStat, error) {
	var stat models.PlatformStat
	err := tx.Where("platform = ?", in.Platform).First(&stat).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	stat.Platform = in.Platform

	stat.FollowerCount = audience.ToCount(in.FollowerCount)
	stat.MonthlyViews = audience.ToCount(in.MonthlyViews)
	stat.EngagementRate = audience.ToFloat(in.EngagementRate)
	stat.MonthlyLikes = audience.ToCount(in.MonthlyLikes)
	stat.MonthlyComments = audience.ToCount(in.MonthlyComments)
	stat.MonthlyShares = audience.ToCount(in.MonthlyShares)
	stat.MonthlySaves = audience.ToCount(in.MonthlySaves)
	stat.MonthlyReach = audience.ToCount(in.MonthlyReach)
	stat.TotalViews = audience.ToCount(in.TotalViews)

	if err := tx.Save(&stat).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

// recomputeEngagement runs fire-and-forget; a failure never affects the
// save that triggered it.
func (h *Handlers) recomputeEngagement(platform string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := engagement.Recompute(ctx, h.db, platform); err != nil {
		logger.Log.Warn("engagement recompute failed",
			logger.WithPlatform(platform), zap.Error(err))
		return
	}
	h.bus.Publish(ctx)
}
