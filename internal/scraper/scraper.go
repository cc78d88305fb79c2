// Package scraper pulls follower counts off public profile pages. It is
// strictly best-effort: platforms change their markup without notice, so
// every extraction failure is reported per platform instead of failing
// the whole run.
package scraper

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/winterhq/socialboard/internal/models"
)

const (
	maxBodyBytes = 2 << 20 // profile pages are HTML, cap what we read

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Patterns tried in order per platform. Structured JSON blobs first, the
// human-readable meta text as fallback.
var followerPatterns = map[string][]*regexp.Regexp{
	models.PlatformInstagram: {
		regexp.MustCompile(`"edge_followed_by":\{"count":(\d+)\}`),
		regexp.MustCompile(`content="([\d.,]+[KMBkmb]?) Followers`),
	},
	models.PlatformTikTok: {
		regexp.MustCompile(`"followerCount":(\d+)`),
		regexp.MustCompile(`([\d.,]+[KMBkmb]?) Followers`),
	},
	models.PlatformYouTube: {
		regexp.MustCompile(`"subscriberCount":"(\d+)"`),
		regexp.MustCompile(`([\d.,]+[KMBkmb]?) subscribers`),
	},
}

var profileURLs = map[string]string{
	models.PlatformInstagram: "https://www.instagram.com/%s/",
	models.PlatformTikTok:    "https://www.tiktok.com/@%s",
	models.PlatformYouTube:   "https://www.youtube.com/@%s/about",
}

// Result is the outcome of one platform's scrape
type Result struct {
	Platform      string `json:"platform"`
	FollowerCount *int64 `json:"follower_count,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Scraper fetches public profile pages
type Scraper struct {
	http *http.Client
}

// New creates a scraper with sane timeouts
func New() *Scraper {
	return &Scraper{
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// ScrapeAll scrapes every platform that has a handle configured. One
// Result per attempted platform; failures never abort the rest.
func (s *Scraper) ScrapeAll(ctx context.Context, handles map[string]string) []Result {
	results := make([]Result, 0, len(handles))
	for _, platform := range models.Platforms {
		handle, ok := handles[platform]
		if !ok || handle == "" {
			continue
		}
		res := Result{Platform: platform}
		count, err := s.Scrape(ctx, platform, handle)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.FollowerCount = count
		}
		results = append(results, res)
	}
	return results
}

// Scrape fetches the platform's public profile page and extracts the
// follower count.
func (s *Scraper) Scrape(ctx context.Context, platform, handle string) (*int64, error) {
	urlFormat, ok := profileURLs[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(urlFormat, handle), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading profile page: %w", err)
	}

	return ExtractFollowers(platform, string(body))
}

// ExtractFollowers applies the platform's patterns to page HTML
func ExtractFollowers(platform, html string) (*int64, error) {
	for _, re := range followerPatterns[platform] {
		m := re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		if count := ParseAbbreviated(m[1]); count != nil {
			return count, nil
		}
	}
	return nil, fmt.Errorf("no follower count found on page")
}

// ParseAbbreviated parses follower figures as shown publicly: plain
// numbers with optional commas, or K/M/B suffixed abbreviations like
// "12.5K". Returns nil when the string is not a figure.
func ParseAbbreviated(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	multiplier := float64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		multiplier = 1e3
		s = s[:len(s)-1]
	case 'M', 'm':
		multiplier = 1e6
		s = s[:len(s)-1]
	case 'B', 'b':
		multiplier = 1e9
		s = s[:len(s)-1]
	}

	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil
	}
	n := int64(math.Round(f * multiplier))
	return &n
}
