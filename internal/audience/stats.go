package audience

// Display projection for platform stat rows. Same historical-drift problem
// as the audience row: follower counts have been stored under three
// spellings, so the reader resolves through explicit tables.

var (
	followerKeys        = []string{"followers", "follower_count", "followers_count"}
	monthlyViewKeys     = []string{"monthly_views", "views", "view_count"}
	engagementKeys      = []string{"engagement", "engagement_rate"}
	followerDeltaKeys   = []string{"followers_delta", "follower_count_delta"}
	viewDeltaKeys       = []string{"views_delta", "monthly_views_delta"}
	engagementDeltaKeys = []string{"engagement_delta", "engagement_rate_delta"}
)

// DisplayStat is one platform's headline numbers, render-ready. Deltas stay
// nullable: nil means no previous snapshot to compare against, which is not
// the same as a delta of zero.
type DisplayStat struct {
	Platform     string  `json:"platform"`
	Followers    int64   `json:"followers"`
	MonthlyViews int64   `json:"monthly_views"`
	Engagement   float64 `json:"engagement"`

	FollowersDelta    *int64   `json:"followers_delta"`
	MonthlyViewsDelta *int64   `json:"monthly_views_delta"`
	EngagementDelta   *float64 `json:"engagement_delta"`

	UpdatedAt string `json:"updated_at"`
}

// ProjectStat reads one loose platform-stat row into display form
func ProjectStat(raw interface{}) DisplayStat {
	var stat DisplayStat
	if platform, ok := lookup(raw, "platform"); ok {
		if s, isStr := platform.(string); isStr {
			stat.Platform = s
		}
	}
	if v, ok := firstMeaningful(raw, followerKeys); ok {
		if n := ToCount(v); n != nil {
			stat.Followers = *n
		}
	}
	if v, ok := firstMeaningful(raw, monthlyViewKeys); ok {
		if n := ToCount(v); n != nil {
			stat.MonthlyViews = *n
		}
	}
	if v, ok := firstMeaningful(raw, engagementKeys); ok {
		if f := ToFloat(v); f != nil {
			stat.Engagement = *f
		}
	}
	if v, ok := firstMeaningful(raw, followerDeltaKeys); ok {
		if f, isNum := toNumber(v); isNum {
			n := int64(f)
			stat.FollowersDelta = &n
		}
	}
	if v, ok := firstMeaningful(raw, viewDeltaKeys); ok {
		if f, isNum := toNumber(v); isNum {
			n := int64(f)
			stat.MonthlyViewsDelta = &n
		}
	}
	if v, ok := firstMeaningful(raw, engagementDeltaKeys); ok {
		if f, isNum := toNumber(v); isNum {
			stat.EngagementDelta = &f
		}
	}
	if v, ok := lookup(raw, "updated_at"); ok {
		stat.UpdatedAt = FormatDate(v)
	}
	return stat
}
