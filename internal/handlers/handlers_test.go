package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/winterhq/socialboard/internal/auth"
	"github.com/winterhq/socialboard/internal/models"
	"github.com/winterhq/socialboard/internal/refresh"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// HandlersTestSuite exercises the API surface end to end against an
// in-memory database.
type HandlersTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	handlers *Handlers
	bus      *refresh.Bus
	token    string
}

func (suite *HandlersTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)
	// in-memory sqlite gives each pooled connection its own database
	sqlDB, err := db.DB()
	require.NoError(suite.T(), err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(suite.T(), db.AutoMigrate(
		&models.User{},
		&models.PlatformStat{},
		&models.StatSnapshot{},
		&models.AudienceProfile{},
		&models.TopPost{},
	))
	suite.db = db

	authService := auth.NewService(db, []byte("test-secret"))
	_, err = authService.CreateAdmin("admin@example.com", "hunter22")
	require.NoError(suite.T(), err)
	resp, err := authService.Login(auth.LoginRequest{Email: "admin@example.com", Password: "hunter22"})
	require.NoError(suite.T(), err)
	suite.token = resp.Token

	suite.bus = refresh.NewBus(nil)
	suite.handlers = NewHandlers(db, authService, suite.bus)

	suite.router = gin.New()
	suite.handlers.RegisterRoutes(suite.router, "")
}

func (suite *HandlersTestSuite) request(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (suite *HandlersTestSuite) TestDashboardEmptyDatabase() {
	w := suite.request(http.MethodGet, "/api/v1/dashboard", nil, false)
	suite.Equal(http.StatusOK, w.Code)

	body := suite.decode(w)
	suite.Equal(true, body["success"])
	suite.NotNil(body["data"])
}

func (suite *HandlersTestSuite) TestAdminRoutesRequireAuth() {
	w := suite.request(http.MethodPut, "/api/v1/admin/stats", UpdateStatsRequest{}, false)
	suite.Equal(http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/stats", bytes.NewBufferString("{}"))
	req.Header.Set("Authorization", "Bearer not.a.real.token")
	w2 := httptest.NewRecorder()
	suite.router.ServeHTTP(w2, req)
	suite.Equal(http.StatusUnauthorized, w2.Code)
}

func (suite *HandlersTestSuite) TestUpdateStatsPersistsLooseValues() {
	before := suite.bus.Version()

	w := suite.request(http.MethodPut, "/api/v1/admin/stats", gin.H{
		"stats": []gin.H{{
			"platform":        "instagram",
			"follower_count":  "12,345",
			"monthly_views":   98765,
			"engagement_rate": "4.2",
		}},
	}, true)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(before+1, suite.bus.Version(), "a successful save must bump the version")

	var stat models.PlatformStat
	require.NoError(suite.T(), suite.db.Where("platform = ?", "instagram").First(&stat).Error)
	suite.Equal(int64(12345), *stat.FollowerCount)
	suite.Equal(int64(98765), *stat.MonthlyViews)
	suite.InDelta(4.2, *stat.EngagementRate, 0.0001)

	var snapCount int64
	suite.db.Model(&models.StatSnapshot{}).Count(&snapCount)
	suite.Equal(int64(1), snapCount, "every save records a snapshot")
}

func (suite *HandlersTestSuite) TestUpdateStatsRejectsUnknownPlatform() {
	w := suite.request(http.MethodPut, "/api/v1/admin/stats", gin.H{
		"stats": []gin.H{
			{"platform": "instagram", "follower_count": 10, "engagement_rate": 1},
			{"platform": "myspace", "follower_count": 10},
		},
	}, true)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var count int64
	suite.db.Model(&models.PlatformStat{}).Count(&count)
	suite.Zero(count, "a rejected batch must write nothing")
}

func (suite *HandlersTestSuite) TestUpdateAudienceNormalizes() {
	w := suite.request(http.MethodPut, "/api/v1/admin/audience", gin.H{
		"gender":    gin.H{"men": "70"},
		"countries": gin.H{"Australia": "45%"},
	}, true)
	suite.Equal(http.StatusOK, w.Code)

	var profile models.AudienceProfile
	require.NoError(suite.T(), suite.db.Where("subject = ?", models.AudienceSubjectGlobal).First(&profile).Error)
	suite.Equal(70, profile.GenderMen)
	suite.Equal(30, profile.GenderWomen, "missing side derives the complement")
	require.Len(suite.T(), profile.Countries, 1)
	suite.Equal("Australia", profile.Countries[0]["label"])
}

func (suite *HandlersTestSuite) TestUpdateAudienceGarbageBecomesEmptyProfile() {
	w := suite.request(http.MethodPut, "/api/v1/admin/audience", gin.H{
		"gender": "whatever", "countries": 42,
	}, true)
	suite.Equal(http.StatusOK, w.Code, "the normalizer is total; junk saves as an empty profile")

	var profile models.AudienceProfile
	require.NoError(suite.T(), suite.db.First(&profile).Error)
	suite.Zero(profile.GenderMen)
	suite.Zero(profile.GenderWomen)
	suite.Empty(profile.Countries)
}

func (suite *HandlersTestSuite) TestUpdatePostsOmittedRanksAreDeleted() {
	seed := gin.H{"posts": []gin.H{
		{"rank": 1, "url": "https://instagram.com/p/1"},
		{"rank": 2, "url": "https://instagram.com/p/2"},
		{"rank": 3, "url": "https://instagram.com/p/3"},
		{"rank": 4, "url": "https://instagram.com/p/4"},
	}}
	w := suite.request(http.MethodPut, "/api/v1/admin/posts/instagram", seed, true)
	suite.Equal(http.StatusOK, w.Code)

	resave := gin.H{"posts": []gin.H{
		{"rank": 1, "url": "https://instagram.com/p/1-edited", "likes": "1,200"},
		{"rank": 3, "url": "https://instagram.com/p/3"},
		{"rank": 4, "url": ""}, // a slot without a URL is an empty slot
	}}
	w = suite.request(http.MethodPut, "/api/v1/admin/posts/instagram", resave, true)
	suite.Equal(http.StatusOK, w.Code)

	var posts []models.TopPost
	require.NoError(suite.T(), suite.db.Order("rank").Find(&posts).Error)
	require.Len(suite.T(), posts, 2)
	suite.Equal(1, posts[0].Rank)
	suite.Equal("https://instagram.com/p/1-edited", posts[0].URL)
	suite.Equal(int64(1200), *posts[0].Likes)
	suite.Equal(3, posts[1].Rank)
}

func (suite *HandlersTestSuite) TestUpdatePostsRejectsBadRank() {
	w := suite.request(http.MethodPut, "/api/v1/admin/posts/instagram", gin.H{
		"posts": []gin.H{{"rank": 5, "url": "https://instagram.com/p/5"}},
	}, true)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestUpdatePostsRejectsUnknownPlatform() {
	w := suite.request(http.MethodPut, "/api/v1/admin/posts/friendster", gin.H{"posts": []gin.H{}}, true)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestScrapeWithoutConfiguredHandles() {
	w := suite.request(http.MethodPost, "/api/v1/admin/scrape", nil, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestDashboardReflectsSavedData() {
	w := suite.request(http.MethodPut, "/api/v1/admin/stats", gin.H{
		"stats": []gin.H{{"platform": "youtube", "follower_count": "1000", "engagement_rate": 2}},
	}, true)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/dashboard", nil, false)
	suite.Equal(http.StatusOK, w.Code)

	body := suite.decode(w)
	data := body["data"].(map[string]interface{})
	stats := data["platform_stats"].([]interface{})
	require.Len(suite.T(), stats, 1)
	row := stats[0].(map[string]interface{})
	suite.Equal("youtube", row["platform"])
	suite.EqualValues(1000, row["follower_count"])
}

func (suite *HandlersTestSuite) TestDashboardAPIKeyGate() {
	router := gin.New()
	suite.handlers.RegisterRoutes(router, "sekrit")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("apikey", "sekrit")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
