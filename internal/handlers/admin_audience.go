package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/audience"
	"github.com/winterhq/socialboard/internal/logger"
	"github.com/winterhq/socialboard/internal/models"
	"github.com/winterhq/socialboard/internal/util"
)

// UpdateAudience normalizes whatever audience shape the admin submits
// into the canonical profile and upserts the single global row. The
// normalizer is total, so the only failure modes are transport and
// storage.
func (h *Handlers) UpdateAudience(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		util.RespondBadRequest(c, "could not read request body")
		return
	}
	if len(body) == 0 {
		util.RespondBadRequest(c, "audience payload is required")
		return
	}

	normalized := audience.NormalizeJSON(body, time.Now().UTC())

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var existing models.AudienceProfile
		err := tx.Where("subject = ?", models.AudienceSubjectGlobal).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		existing.Subject = models.AudienceSubjectGlobal
		existing.GenderMen = normalized.GenderMen
		existing.GenderWomen = normalized.GenderWomen
		existing.AgeBands = normalized.AgeBands
		existing.Countries = normalized.Countries
		existing.Cities = normalized.Cities
		return tx.Save(&existing).Error
	})
	if err != nil {
		logger.Log.Error("audience save failed", zap.Error(err))
		util.RespondInternalError(c, "failed to save audience profile")
		return
	}

	h.bus.Publish(c.Request.Context())
	util.RespondSuccess(c, audience.ProfilePayload(&normalized))
}
