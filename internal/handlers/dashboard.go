package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/winterhq/socialboard/internal/logger"
	"github.com/winterhq/socialboard/internal/util"
)

// GetDashboard serves the aggregated public payload. The response is
// cached per refresh-bus version; concurrent cold reads share one
// database round trip.
func (h *Handlers) GetDashboard(c *gin.Context) {
	version := h.bus.Version()

	payload, err := h.cache.Fetch(c.Request.Context(), version)
	if err != nil {
		logger.Log.Error("dashboard build failed", zap.Error(err))
		util.RespondInternalError(c, "failed to load dashboard data")
		return
	}

	c.Header("X-Dashboard-Version", strconv.FormatInt(version, 10))
	util.RespondSuccess(c, payload)
}
