package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/winterhq/socialboard/internal/middleware"
)

// RegisterRoutes wires all API routes onto the router. apiKey gates the
// public read endpoint; an empty key leaves it open.
func (h *Handlers) RegisterRoutes(r *gin.Engine, apiKey string) {
	api := r.Group("/api/v1")

	api.GET("/dashboard", middleware.RequireAPIKey(apiKey), h.GetDashboard)
	api.POST("/auth/login", h.Login)

	admin := api.Group("/admin", middleware.RequireAuth(h.auth), middleware.RequireAdmin())
	admin.PUT("/stats", h.UpdateStats)
	admin.PUT("/audience", h.UpdateAudience)
	admin.PUT("/posts/:platform", h.UpdatePosts)
	admin.POST("/scrape", h.Scrape)
}
