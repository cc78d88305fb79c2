// Package seed fills the database with plausible demo data for local
// development.
package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/models"
)

// Seeder creates demo data
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a seeder
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev populates stats, snapshots, an audience profile and top posts
// for every platform.
func (s *Seeder) SeedDev() error {
	for _, platform := range models.Platforms {
		if err := s.seedPlatform(platform); err != nil {
			return fmt.Errorf("seeding %s: %w", platform, err)
		}
	}
	return s.seedAudience()
}

// Clean removes all seeded data
func (s *Seeder) Clean() error {
	for _, model := range []interface{}{
		&models.TopPost{},
		&models.StatSnapshot{},
		&models.PlatformStat{},
		&models.AudienceProfile{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedPlatform(platform string) error {
	followers := int64(gofakeit.Number(5_000, 500_000))
	views := int64(gofakeit.Number(10_000, 2_000_000))
	likes := int64(gofakeit.Number(500, 50_000))
	comments := int64(gofakeit.Number(50, 5_000))
	shares := int64(gofakeit.Number(20, 2_000))
	rate := gofakeit.Float64Range(0.5, 12.0)

	stat := models.PlatformStat{
		Platform:        platform,
		FollowerCount:   &followers,
		MonthlyViews:    &views,
		MonthlyLikes:    &likes,
		MonthlyComments: &comments,
		MonthlyShares:   &shares,
		EngagementRate:  &rate,
	}
	if err := s.db.Create(&stat).Error; err != nil {
		return err
	}

	// two snapshots so the dashboard shows deltas right away
	for daysAgo := 2; daysAgo >= 1; daysAgo-- {
		past := followers - int64(gofakeit.Number(100, 5_000))
		snap := models.StatSnapshot{
			Platform:      platform,
			FollowerCount: &past,
			MonthlyViews:  &views,
			TakenAt:       time.Now().UTC().AddDate(0, 0, -daysAgo),
		}
		if err := s.db.Create(&snap).Error; err != nil {
			return err
		}
	}

	for rank := 1; rank <= models.MaxTopPostRank; rank++ {
		postLikes := int64(gofakeit.Number(100, 20_000))
		postComments := int64(gofakeit.Number(10, 1_000))
		post := models.TopPost{
			Platform: platform,
			Rank:     rank,
			URL:      gofakeit.URL(),
			Caption:  gofakeit.Sentence(6),
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s-%d/400", platform, rank),
			Likes:    &postLikes,
			Comments: &postComments,
		}
		if err := s.db.Create(&post).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedAudience() error {
	men := gofakeit.Number(20, 80)
	profile := models.AudienceProfile{
		Subject:     models.AudienceSubjectGlobal,
		GenderMen:   men,
		GenderWomen: 100 - men,
		AgeBands: models.JSONMap{
			"18-24": gofakeit.Number(10, 40),
			"25-34": gofakeit.Number(20, 50),
			"35-44": gofakeit.Number(5, 30),
			"45-54": gofakeit.Number(1, 15),
		},
		Countries: models.JSONList{
			{"label": "Australia", "percent": gofakeit.Number(20, 50)},
			{"label": "United States", "percent": gofakeit.Number(10, 30)},
			{"label": "United Kingdom", "percent": gofakeit.Number(5, 15)},
		},
		Cities: models.JSONList{
			{"label": gofakeit.City(), "percent": gofakeit.Number(10, 30)},
			{"label": gofakeit.City(), "percent": gofakeit.Number(5, 20)},
		},
	}
	return s.db.Create(&profile).Error
}
