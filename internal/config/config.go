// Package config loads service configuration from the environment, with
// a .env file honored in development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/winterhq/socialboard/internal/models"
)

// Config holds everything the service reads from the environment
type Config struct {
	Port     string
	LogLevel string
	LogFile  string

	JWTSecret string
	// PublicAPIKey gates the public read endpoint; empty leaves it open
	PublicAPIKey string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	// ScrapeHandles maps platform to the public profile handle to scrape
	ScrapeHandles map[string]string

	AllowedOrigins []string
}

// Load reads configuration, loading .env first when present.
// JWT_SECRET is the only hard requirement.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	cfg := &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("LOG_FILE", "server.log"),

		JWTSecret:    jwtSecret,
		PublicAPIKey: os.Getenv("PUBLIC_API_KEY"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ScrapeHandles: map[string]string{
			models.PlatformInstagram: os.Getenv("INSTAGRAM_HANDLE"),
			models.PlatformTikTok:    os.Getenv("TIKTOK_HANDLE"),
			models.PlatformYouTube:   os.Getenv("YOUTUBE_HANDLE"),
		},
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis endpoint is configured. Without
// one the service runs with a local-only refresh bus.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
