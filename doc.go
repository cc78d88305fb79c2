// Package socialboard provides the analytics dashboard API server.

// This package contains the main application entry points. The actual API
// implementation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/audience: Tolerant parsing, normalizing and projecting of audience data
// - internal/dashboard: Aggregated payload assembly, version-keyed cache, HTTP client
// - internal/refresh: Cross-instance refresh bus over Redis
// - internal/engagement: Engagement-rate formulas and recompute
// - internal/scraper: Best-effort follower scraping of public profiles
// - internal/auth: Authentication and authorization services
// - internal/websocket: WebSocket stream pushing refresh ticks
// - internal/database: Database connection and migrations
// - internal/middleware: HTTP middleware (auth, metrics, logging)
package socialboard
