// Package handlers contains the HTTP handlers for the public read
// endpoint, admin writes and authentication.
package handlers

import (
	"gorm.io/gorm"

	"github.com/winterhq/socialboard/internal/auth"
	"github.com/winterhq/socialboard/internal/dashboard"
	"github.com/winterhq/socialboard/internal/middleware"
	"github.com/winterhq/socialboard/internal/refresh"
	"github.com/winterhq/socialboard/internal/scraper"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	db         *gorm.DB
	auth       *auth.Service
	bus        *refresh.Bus
	dashboards *dashboard.Service
	cache      *dashboard.Cache

	scraper       *scraper.Scraper
	scrapeHandles map[string]string
}

// NewHandlers creates a new handlers instance. The dashboard cache is
// keyed by the bus version, so every admin write invalidates it by
// construction.
func NewHandlers(db *gorm.DB, authService *auth.Service, bus *refresh.Bus) *Handlers {
	svc := dashboard.NewService(db)
	cache := dashboard.NewCache(svc.Build)
	cache.OnHit = func() { middleware.RecordCacheHit("dashboard") }
	cache.OnMiss = func() { middleware.RecordCacheMiss("dashboard") }

	return &Handlers{
		db:         db,
		auth:       authService,
		bus:        bus,
		dashboards: svc,
		cache:      cache,
	}
}

// SetScraper wires the follower scraper and the per-platform handles it
// should scrape.
func (h *Handlers) SetScraper(s *scraper.Scraper, handles map[string]string) {
	h.scraper = s
	h.scrapeHandles = handles
}
