package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winterhq/socialboard/internal/models"
)

func TestParseAbbreviated(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1234", 1234, true},
		{"12,345", 12345, true},
		{"12.5K", 12500, true},
		{"12.5k", 12500, true},
		{"1.2M", 1200000, true},
		{"3B", 3000000000, true},
		{"980", 980, true},
		{"", 0, false},
		{"K", 0, false},
		{"abc", 0, false},
		{"-5K", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseAbbreviated(tt.in)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestExtractFollowers(t *testing.T) {
	t.Run("instagram json blob", func(t *testing.T) {
		html := `...{"edge_followed_by":{"count":45210},"edge_follow":...`
		count, err := ExtractFollowers(models.PlatformInstagram, html)
		require.NoError(t, err)
		assert.Equal(t, int64(45210), *count)
	})

	t.Run("instagram meta fallback", func(t *testing.T) {
		html := `<meta content="12.5K Followers, 300 Following" />`
		count, err := ExtractFollowers(models.PlatformInstagram, html)
		require.NoError(t, err)
		assert.Equal(t, int64(12500), *count)
	})

	t.Run("tiktok", func(t *testing.T) {
		html := `{"followerCount":98765,"followingCount":12}`
		count, err := ExtractFollowers(models.PlatformTikTok, html)
		require.NoError(t, err)
		assert.Equal(t, int64(98765), *count)
	})

	t.Run("youtube text", func(t *testing.T) {
		html := `<span>1.2M subscribers</span>`
		count, err := ExtractFollowers(models.PlatformYouTube, html)
		require.NoError(t, err)
		assert.Equal(t, int64(1200000), *count)
	})

	t.Run("nothing on page", func(t *testing.T) {
		_, err := ExtractFollowers(models.PlatformInstagram, "<html>nothing here</html>")
		assert.Error(t, err)
	})
}

func TestScrapeAllIsBestEffort(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"followerCount":500}`))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer bad.Close()

	s := New()
	origTT, origIG := profileURLs[models.PlatformTikTok], profileURLs[models.PlatformInstagram]
	profileURLs[models.PlatformTikTok] = good.URL + "/%s"
	profileURLs[models.PlatformInstagram] = bad.URL + "/%s"
	defer func() {
		profileURLs[models.PlatformTikTok] = origTT
		profileURLs[models.PlatformInstagram] = origIG
	}()

	results := s.ScrapeAll(context.Background(), map[string]string{
		models.PlatformTikTok:    "somebody",
		models.PlatformInstagram: "somebody",
	})
	require.Len(t, results, 2)

	byPlatform := map[string]Result{}
	for _, r := range results {
		byPlatform[r.Platform] = r
	}

	tt := byPlatform[models.PlatformTikTok]
	require.NotNil(t, tt.FollowerCount)
	assert.Equal(t, int64(500), *tt.FollowerCount)
	assert.Empty(t, tt.Error)

	ig := byPlatform[models.PlatformInstagram]
	assert.Nil(t, ig.FollowerCount)
	assert.Contains(t, ig.Error, "429")
}
