package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/audience"
	"github.com/winterhq/socialboard/internal/logger"
	"github.com/winterhq/socialboard/internal/models"
	"github.com/winterhq/socialboard/internal/util"
)

// PostInput is one ranked post slot as submitted by the admin form
type PostInput struct {
	Rank     int    `json:"rank"`
	URL      string `json:"url"`
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url"`

	Likes    interface{} `json:"likes"`
	Comments interface{} `json:"comments"`
	Shares   interface{} `json:"shares"`
	Views    interface{} `json:"views"`
}

// UpdatePostsRequest carries the platform's full slot set. Ranks missing
// from the payload, and slots submitted without a URL, are deleted:
// omission is an explicit clear, not "keep what was there".
type UpdatePostsRequest struct {
	Posts []PostInput `json:"posts"`
}

// UpdatePosts replaces a platform's top posts in one transaction, then
// bumps the refresh bus and recomputes the platform's engagement rate in
// the background.
func (h *Handlers) UpdatePosts(c *gin.Context) {
	platform := c.Param("platform")
	if !models.IsValidPlatform(platform) {
		util.RespondValidationError(c, "platform", fmt.Sprintf("unknown platform %q", platform))
		return
	}

	var req UpdatePostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "posts payload is required")
		return
	}

	keep := make(map[int]PostInput, len(req.Posts))
	for _, in := range req.Posts {
		if in.Rank < 1 || in.Rank > models.MaxTopPostRank {
			util.RespondValidationError(c, "rank",
				fmt.Sprintf("rank must be between 1 and %d", models.MaxTopPostRank))
			return
		}
		if _, dup := keep[in.Rank]; dup {
			util.RespondValidationError(c, "rank", fmt.Sprintf("rank %d appears twice", in.Rank))
			return
		}
		if strings.TrimSpace(in.URL) == "" {
			// a slot without a URL is an empty slot
			continue
		}
		keep[in.Rank] = in
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for rank := 1; rank <= models.MaxTopPostRank; rank++ {
			in, present := keep[rank]
			if !present {
				err := tx.Where("platform = ? AND rank = ?", platform, rank).
					Delete(&models.TopPost{}).Error
				if err != nil {
					return err
				}
				continue
			}
			if err := upsertPost(tx, platform, in); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Error("top posts save failed",
			logger.WithPlatform(platform), zap.Error(err))
		util.RespondInternalError(c, "failed to save top posts")
		return
	}

	h.bus.Publish(c.Request.Context())
	go h.recomputeEngagement(platform)

	var posts []models.TopPost
	if err := h.db.Where("platform = ?", platform).Order("rank").Find(&posts).Error; err != nil {
		logger.Log.Warn("reloading saved posts failed", zap.Error(err))
	}
	util.RespondSuccess(c, posts)
}

func upsertPost(tx *gorm.DB, platform string, in PostInput) error {
	var post models.TopPost
	err := tx.Where("platform = ? AND rank = ?", platform, in.Rank).First(&post).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	post.Platform = platform
	post.Rank = in.Rank
	post.URL = strings.TrimSpace(in.URL)
	post.Caption = in.Caption
	post.ImageURL = strings.TrimSpace(in.ImageURL)
	post.Likes = audience.ToCount(in.Likes)
	post.Comments = audience.ToCount(in.Comments)
	post.Shares = audience.ToCount(in.Shares)
	post.Views = audience.ToCount(in.Views)

	return tx.Save(&post).Error
}
