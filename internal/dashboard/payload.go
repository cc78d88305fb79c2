// Package dashboard assembles the aggregated public payload served to
// dashboards, plus the version-keyed cache and HTTP client used by
// consumers of that payload.
package dashboard

// StatRow is one platform's headline numbers as served publicly. Delta
// fields compare against the previous recorded snapshot and stay null
// when no earlier snapshot exists.
type StatRow struct {
	Platform       string   `json:"platform"`
	FollowerCount  *int64   `json:"follower_count"`
	MonthlyViews   *int64   `json:"monthly_views"`
	EngagementRate *float64 `json:"engagement_rate"`

	FollowerDelta   *int64   `json:"follower_delta,omitempty"`
	ViewsDelta      *int64   `json:"views_delta,omitempty"`
	EngagementDelta *float64 `json:"engagement_delta,omitempty"`
}

// PostRow is one ranked top post as served publicly
type PostRow struct {
	Rank     int    `json:"rank"`
	URL      string `json:"url"`
	Caption  string `json:"caption,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	Likes    *int64 `json:"likes,omitempty"`
	Comments *int64 `json:"comments,omitempty"`
	Shares   *int64 `json:"shares,omitempty"`
	Views    *int64 `json:"views,omitempty"`
}

// Payload is everything a dashboard needs in one round trip
type Payload struct {
	PlatformStats []StatRow              `json:"platform_stats"`
	Audience      map[string]interface{} `json:"audience"`
	TopPosts      map[string][]PostRow   `json:"top_posts"`
}
