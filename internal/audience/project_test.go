package audience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winterhq/socialboard/internal/models"
)

func TestCountryFlag(t *testing.T) {
	assert.Equal(t, "\U0001F1E6\U0001F1FA", CountryFlag("Australia"))
	assert.Equal(t, "\U0001F1FA\U0001F1F8", CountryFlag("usa"))
	assert.Equal(t, "\U0001F1EC\U0001F1E7", CountryFlag("United Kingdom"))

	// 2-letter labels are treated as codes directly
	assert.Equal(t, "\U0001F1EF\U0001F1F5", CountryFlag("JP"))
	assert.Equal(t, "\U0001F1E9\U0001F1EA", CountryFlag("de"))

	// unknown labels fall back to the globe
	assert.Equal(t, GlobeFlag, CountryFlag("Atlantis"))
	assert.Equal(t, GlobeFlag, CountryFlag(""))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "01/06/2025", FormatDate("2025-06-01T12:00:00Z"))
	assert.Equal(t, "15/03/2024", FormatDate("2024-03-15"))
	assert.Equal(t, "01/06/2025", FormatDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	// unparseable or absent timestamps render empty, no placeholder
	assert.Equal(t, "", FormatDate(nil))
	assert.Equal(t, "", FormatDate(""))
	assert.Equal(t, "", FormatDate("last tuesday"))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestProjectCanonicalRow(t *testing.T) {
	d := ProjectJSON([]byte(`{
		"gender": {"men": 70, "women": 30},
		"age_bands": {"18-24": 10, "25-34": 40, "35-44": 25, "45-54": 5},
		"countries": [{"label": "Australia", "percent": 40}, {"label": "USA", "percent": 25}],
		"cities": [{"label": "Melbourne", "percent": 18}],
		"updated_at": "2025-06-01T12:00:00Z"
	}`))

	assert.Equal(t, 70, d.Men)
	assert.Equal(t, 30, d.Women)

	require.Len(t, d.Ages, 4)
	assert.Equal(t, AgeGroup{Label: "25-34", Percent: 40}, d.Ages[1])

	require.Len(t, d.Countries, 2)
	assert.Equal(t, "Australia", d.Countries[0].Label)
	assert.Equal(t, "\U0001F1E6\U0001F1FA", d.Countries[0].Flag)
	assert.Equal(t, 40, d.Countries[0].Percent)

	require.Len(t, d.Cities, 1)
	assert.Equal(t, "Melbourne", d.Cities[0].Label)

	assert.Equal(t, "01/06/2025", d.UpdatedAt)
}

func TestProjectLegacyRow(t *testing.T) {
	// historical shape: flat gender keys, underscore age spellings,
	// top_countries, country/percentage entry fields
	d := ProjectJSON([]byte(`{
		"gender_men": "70",
		"age_groups": {"25_34": "40%"},
		"top_countries": [{"country": "Japan", "percentage": "12%"}],
		"updatedAt": "2024-03-15"
	}`))

	assert.Equal(t, 70, d.Men)
	assert.Equal(t, 30, d.Women, "missing side backfills from complement")
	assert.Equal(t, 40, d.Ages[1].Percent)
	require.Len(t, d.Countries, 1)
	assert.Equal(t, "Japan", d.Countries[0].Label)
	assert.Equal(t, 12, d.Countries[0].Percent)
	assert.Equal(t, "15/03/2024", d.UpdatedAt)
}

func TestProjectNilTolerant(t *testing.T) {
	d := Project(nil)
	assert.Equal(t, 0, d.Men)
	assert.Len(t, d.Ages, 4)
	assert.Empty(t, d.Countries)
	assert.Equal(t, "", d.UpdatedAt)
}

func TestProfilePayloadRoundTrip(t *testing.T) {
	profile := NormalizeJSON([]byte(`{"gender":{"men":"70"},"countries":{"Australia":40}}`), testNow)
	profile.Subject = models.AudienceSubjectGlobal

	payload := ProfilePayload(&profile)
	require.NotNil(t, payload)

	gender, ok := payload["gender"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 70, gender["men"])
	assert.Equal(t, 30, gender["women"])

	assert.Nil(t, ProfilePayload(nil))
}

func TestProjectStat(t *testing.T) {
	t.Run("canonical row", func(t *testing.T) {
		s := ProjectStat(DecodeLoose([]byte(`{
			"platform": "instagram",
			"follower_count": 38700,
			"monthly_views": 730000,
			"engagement_rate": 2.01,
			"followers_delta": 120,
			"updated_at": "2025-06-01T12:00:00Z"
		}`)))
		assert.Equal(t, "instagram", s.Platform)
		assert.Equal(t, int64(38700), s.Followers)
		assert.Equal(t, int64(730000), s.MonthlyViews)
		assert.InDelta(t, 2.01, s.Engagement, 0.0001)
		require.NotNil(t, s.FollowersDelta)
		assert.Equal(t, int64(120), *s.FollowersDelta)
		assert.Nil(t, s.MonthlyViewsDelta, "no snapshot means no delta, not zero")
		assert.Equal(t, "01/06/2025", s.UpdatedAt)
	})

	t.Run("legacy spellings", func(t *testing.T) {
		s := ProjectStat(DecodeLoose([]byte(`{"platform":"youtube","followers":"1,200","views":9000,"engagement":"3.5"}`)))
		assert.Equal(t, int64(1200), s.Followers)
		assert.Equal(t, int64(9000), s.MonthlyViews)
		assert.InDelta(t, 3.5, s.Engagement, 0.0001)
	})
}
