package models

import (
	"fmt"
	"strings"
	"time"
)

// MaxTopPostRank is the number of ranked slots per platform
const MaxTopPostRank = 4

// TopPost is one ranked post slot for a platform. A row only exists when it
// has a URL; the admin save deletes ranks omitted from the payload.
type TopPost struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Platform string `gorm:"uniqueIndex:idx_top_posts_platform_rank;not null" json:"platform"`
	Rank     int    `gorm:"uniqueIndex:idx_top_posts_platform_rank;not null" json:"rank"`

	URL      string `gorm:"not null" json:"url"`
	Caption  string `json:"caption,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	// Engagement counters. Pointers keep "not entered" distinct from zero.
	Likes    *int64 `json:"likes"`
	Comments *int64 `json:"comments"`
	Shares   *int64 `json:"shares"` // instagram, tiktok
	Views    *int64 `json:"views"`  // youtube

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (TopPost) TableName() string {
	return "top_posts"
}

// PublicImageURL returns the image URL with a cache-busting version query
// parameter derived from the row's last update, so edited thumbnails are
// not served stale by CDNs or browser caches.
func (p *TopPost) PublicImageURL() string {
	if p.ImageURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(p.ImageURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sv=%d", p.ImageURL, sep, p.UpdatedAt.Unix())
}
