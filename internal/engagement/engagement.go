// Package engagement recomputes per-platform engagement rates from the
// stored interaction counters. The recompute runs after top-post and stats
// saves; it is fire-and-forget, so failures are logged by the caller and
// never fail the originating save.
package engagement

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/models"
)

// Inputs are the counters an engagement rate is derived from. All values
// are treated as 0 when unset.
type Inputs struct {
	Likes    int64
	Comments int64
	Shares   int64
	Saves    int64

	MonthlyViews int64
	Reach        int64
	TotalViews   int64
}

// Rate computes the engagement percent for one platform.
//
// Numerator and denominator vary by platform:
//   - instagram: (likes+comments+saves) / (reach, else monthly views)
//   - youtube:   (likes+comments+shares) / (total views, else monthly views)
//   - tiktok:    (likes+comments+shares+saves) / (total views, else monthly views)
//
// The result is rounded to two decimals; a zero denominator yields 0.
func Rate(platform string, in Inputs) float64 {
	var numerator, denominator int64

	switch platform {
	case models.PlatformInstagram:
		numerator = in.Likes + in.Comments + in.Saves
		denominator = firstNonZero(in.Reach, in.MonthlyViews)
	case models.PlatformYouTube:
		numerator = in.Likes + in.Comments + in.Shares
		denominator = firstNonZero(in.TotalViews, in.MonthlyViews)
	case models.PlatformTikTok:
		numerator = in.Likes + in.Comments + in.Shares + in.Saves
		denominator = firstNonZero(in.TotalViews, in.MonthlyViews)
	default:
		return 0
	}

	if denominator <= 0 {
		return 0
	}
	return round2(float64(numerator) / float64(denominator) * 100)
}

// Recompute reads a platform's stored counters, derives the engagement
// rate, and persists it back onto the platform_stats row. A missing row is
// not an error: there is nothing to recompute yet.
func Recompute(ctx context.Context, db *gorm.DB, platform string) error {
	if !models.IsValidPlatform(platform) {
		return fmt.Errorf("unknown platform %q", platform)
	}

	var stat models.PlatformStat
	err := db.WithContext(ctx).Where("platform = ?", platform).First(&stat).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load platform stats: %w", err)
	}

	rate := Rate(platform, Inputs{
		Likes:        deref(stat.MonthlyLikes),
		Comments:     deref(stat.MonthlyComments),
		Shares:       deref(stat.MonthlyShares),
		Saves:        deref(stat.MonthlySaves),
		MonthlyViews: deref(stat.MonthlyViews),
		Reach:        deref(stat.MonthlyReach),
		TotalViews:   deref(stat.TotalViews),
	})

	err = db.WithContext(ctx).Model(&models.PlatformStat{}).
		Where("platform = ?", platform).
		Update("engagement_rate", rate).Error
	if err != nil {
		return fmt.Errorf("persist engagement rate: %w", err)
	}
	return nil
}

func firstNonZero(vals ...int64) int64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
