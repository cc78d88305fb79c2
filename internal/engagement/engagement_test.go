package engagement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/winterhq/socialboard/internal/models"
)

func TestRate(t *testing.T) {
	t.Run("reach denominator", func(t *testing.T) {
		rate := Rate(models.PlatformInstagram, Inputs{
			Likes:    40,
			Comments: 10,
			Reach:    500,
		})
		assert.InDelta(t, 10.00, rate, 0.0001)
	})

	t.Run("falls back to monthly views", func(t *testing.T) {
		rate := Rate(models.PlatformInstagram, Inputs{
			Likes:        40,
			Comments:     10,
			MonthlyViews: 1000,
		})
		assert.InDelta(t, 5.00, rate, 0.0001)
	})

	t.Run("zero denominator is zero", func(t *testing.T) {
		assert.Zero(t, Rate(models.PlatformInstagram, Inputs{Likes: 40, Comments: 10}))
	})

	t.Run("youtube uses shares over total views", func(t *testing.T) {
		rate := Rate(models.PlatformYouTube, Inputs{
			Likes:      30,
			Comments:   15,
			Shares:     5,
			Saves:      999, // ignored for youtube
			TotalViews: 2000,
		})
		assert.InDelta(t, 2.50, rate, 0.0001)
	})

	t.Run("tiktok counts saves too", func(t *testing.T) {
		rate := Rate(models.PlatformTikTok, Inputs{
			Likes:      10,
			Comments:   5,
			Shares:     3,
			Saves:      2,
			TotalViews: 1000,
		})
		assert.InDelta(t, 2.00, rate, 0.0001)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		rate := Rate(models.PlatformInstagram, Inputs{Likes: 1, Reach: 3})
		assert.InDelta(t, 33.33, rate, 0.0001)
	})

	t.Run("unknown platform is zero", func(t *testing.T) {
		assert.Zero(t, Rate("myspace", Inputs{Likes: 100, Reach: 100}))
	})
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PlatformStat{}))
	return db
}

func TestRecompute(t *testing.T) {
	db := setupTestDB(t)

	likes, comments, reach := int64(40), int64(10), int64(500)
	require.NoError(t, db.Create(&models.PlatformStat{
		ID:              "00000000-0000-0000-0000-000000000001",
		Platform:        models.PlatformInstagram,
		MonthlyLikes:    &likes,
		MonthlyComments: &comments,
		MonthlyReach:    &reach,
	}).Error)

	require.NoError(t, Recompute(context.Background(), db, models.PlatformInstagram))

	var stat models.PlatformStat
	require.NoError(t, db.Where("platform = ?", models.PlatformInstagram).First(&stat).Error)
	require.NotNil(t, stat.EngagementRate)
	assert.InDelta(t, 10.00, *stat.EngagementRate, 0.0001)
}

func TestRecomputeMissingRow(t *testing.T) {
	db := setupTestDB(t)
	// no row yet: nothing to recompute, not an error
	assert.NoError(t, Recompute(context.Background(), db, models.PlatformTikTok))
}

func TestRecomputeUnknownPlatform(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, Recompute(context.Background(), db, "friendster"))
}
