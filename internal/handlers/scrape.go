package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/logger"
	"github.com/winterhq/socialboard/internal/metrics"
	"github.com/winterhq/socialboard/internal/models"
	"github.com/winterhq/socialboard/internal/util"
)

// Scrape refreshes follower counts from public profile pages. Best
// effort per platform: successes update stats and tick the bus, failures
// are reported inline without failing the request.
func (h *Handlers) Scrape(c *gin.Context) {
	if h.scraper == nil || len(h.scrapeHandles) == 0 {
		util.RespondBadRequest(c, "no scrape handles configured")
		return
	}

	results := h.scraper.ScrapeAll(c.Request.Context(), h.scrapeHandles)
	m := metrics.Get()

	updated := false
	for _, res := range results {
		if res.FollowerCount == nil {
			m.ScrapeResultsTotal.WithLabelValues(res.Platform, "error").Inc()
			logger.Log.Warn("follower scrape failed",
				logger.WithPlatform(res.Platform), zap.String("reason", res.Error))
			continue
		}
		m.ScrapeResultsTotal.WithLabelValues(res.Platform, "ok").Inc()
		if err := h.applyScrapedCount(res.Platform, *res.FollowerCount); err != nil {
			logger.Log.Error("applying scraped count failed",
				logger.WithPlatform(res.Platform), zap.Error(err))
			continue
		}
		updated = true
	}

	if updated {
		h.bus.Publish(c.Request.Context())
	}
	util.RespondSuccess(c, results)
}

func (h *Handlers) applyScrapedCount(platform string, count int64) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		var stat models.PlatformStat
		err := tx.Where("platform = ?", platform).First(&stat).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		stat.Platform = platform
		stat.FollowerCount = &count
		if err := tx.Save(&stat).Error; err != nil {
			return err
		}

		snap := models.StatSnapshot{
			Platform:       stat.Platform,
			FollowerCount:  stat.FollowerCount,
			MonthlyViews:   stat.MonthlyViews,
			EngagementRate: stat.EngagementRate,
			TakenAt:        time.Now().UTC(),
		}
		return tx.Create(&snap).Error
	})
}
