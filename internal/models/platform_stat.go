package models

import (
	"time"
)

// Supported platforms. The dashboard serves exactly these three.
const (
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
)

// Platforms lists the supported platforms in display order
var Platforms = []string{PlatformInstagram, PlatformYouTube, PlatformTikTok}

// IsValidPlatform reports whether p is one of the supported platforms
func IsValidPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// PlatformStat holds the headline numbers for one platform.
// Nullable counters distinguish "never set" from an explicit zero,
// so pointers are deliberate here.
type PlatformStat struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Platform string `gorm:"uniqueIndex;not null" json:"platform"`

	FollowerCount  *int64   `json:"follower_count"`
	MonthlyViews   *int64   `json:"monthly_views"`
	EngagementRate *float64 `json:"engagement_rate"` // derived, admin-overridable

	// Engagement recompute inputs (admin-entered, all optional)
	MonthlyLikes    *int64 `json:"monthly_likes"`
	MonthlyComments *int64 `json:"monthly_comments"`
	MonthlyShares   *int64 `json:"monthly_shares"`
	MonthlySaves    *int64 `json:"monthly_saves"`
	MonthlyReach    *int64 `json:"monthly_reach"`
	TotalViews      *int64 `json:"total_views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (PlatformStat) TableName() string {
	return "platform_stats"
}

// StatSnapshot is a point-in-time copy of a platform's headline numbers,
// recorded on every stats save. The read side derives deltas by comparing
// the latest two snapshots per platform.
type StatSnapshot struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Platform string `gorm:"index:idx_snapshots_platform_taken;not null" json:"platform"`

	FollowerCount  *int64   `json:"follower_count"`
	MonthlyViews   *int64   `json:"monthly_views"`
	EngagementRate *float64 `json:"engagement_rate"`

	TakenAt   time.Time `gorm:"index:idx_snapshots_platform_taken" json:"taken_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (StatSnapshot) TableName() string {
	return "stat_snapshots"
}
