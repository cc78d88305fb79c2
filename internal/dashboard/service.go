package dashboard

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/audience"
	"github.com/winterhq/socialboard/internal/models"
)

// Service builds the aggregated dashboard payload straight from the
// database. It is the authoritative producer; Cache and Client are
// consumers.
type Service struct {
	db *gorm.DB
}

// NewService creates a dashboard service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Build assembles the full public payload: stats for every platform with
// snapshot deltas, the canonical audience profile, and top posts grouped
// and rank-ordered per platform.
func (s *Service) Build(ctx context.Context) (*Payload, error) {
	stats, err := s.statRows(ctx)
	if err != nil {
		return nil, err
	}

	aud, err := s.audiencePayload(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.topPosts(ctx)
	if err != nil {
		return nil, err
	}

	return &Payload{
		PlatformStats: stats,
		Audience:      aud,
		TopPosts:      posts,
	}, nil
}

func (s *Service) statRows(ctx context.Context) ([]StatRow, error) {
	var stats []models.PlatformStat
	if err := s.db.WithContext(ctx).Order("platform").Find(&stats).Error; err != nil {
		return nil, err
	}

	rows := make([]StatRow, 0, len(stats))
	for _, st := range stats {
		row := StatRow{
			Platform:       st.Platform,
			FollowerCount:  st.FollowerCount,
			MonthlyViews:   st.MonthlyViews,
			EngagementRate: st.EngagementRate,
		}
		if prev, err := s.previousSnapshot(ctx, st.Platform); err != nil {
			return nil, err
		} else if prev != nil {
			row.FollowerDelta = int64Delta(st.FollowerCount, prev.FollowerCount)
			row.ViewsDelta = int64Delta(st.MonthlyViews, prev.MonthlyViews)
			row.EngagementDelta = floatDelta(st.EngagementRate, prev.EngagementRate)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// previousSnapshot returns the snapshot before the latest one, which is
// what current values are compared against. The latest snapshot mirrors
// the current save, so comparing against it would always yield zero.
func (s *Service) previousSnapshot(ctx context.Context, platform string) (*models.StatSnapshot, error) {
	var snaps []models.StatSnapshot
	err := s.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("taken_at DESC").
		Limit(2).
		Find(&snaps).Error
	if err != nil {
		return nil, err
	}
	if len(snaps) < 2 {
		return nil, nil
	}
	return &snaps[1], nil
}

func (s *Service) audiencePayload(ctx context.Context) (map[string]interface{}, error) {
	var profile models.AudienceProfile
	err := s.db.WithContext(ctx).
		Where("subject = ?", models.AudienceSubjectGlobal).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return audience.ProfilePayload(&profile), nil
}

func (s *Service) topPosts(ctx context.Context) (map[string][]PostRow, error) {
	var posts []models.TopPost
	err := s.db.WithContext(ctx).
		Where("url <> ''").
		Order("platform, rank").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]PostRow, len(models.Platforms))
	for i := range posts {
		p := &posts[i]
		grouped[p.Platform] = append(grouped[p.Platform], PostRow{
			Rank:     p.Rank,
			URL:      p.URL,
			Caption:  p.Caption,
			ImageURL: p.PublicImageURL(),
			Likes:    p.Likes,
			Comments: p.Comments,
			Shares:   p.Shares,
			Views:    p.Views,
		})
	}
	return grouped, nil
}

// RecordSnapshot stores a point-in-time copy of a platform's headline
// numbers, called after every successful stats save.
func (s *Service) RecordSnapshot(ctx context.Context, st *models.PlatformStat) error {
	snap := models.StatSnapshot{
		Platform:       st.Platform,
		FollowerCount:  st.FollowerCount,
		MonthlyViews:   st.MonthlyViews,
		EngagementRate: st.EngagementRate,
		TakenAt:        time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Create(&snap).Error
}

func int64Delta(cur, prev *int64) *int64 {
	if cur == nil || prev == nil {
		return nil
	}
	d := *cur - *prev
	return &d
}

func floatDelta(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	d := math.Round((*cur-*prev)*100) / 100
	return &d
}
