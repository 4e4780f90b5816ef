package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Document DocumentConfig
	Matching MatchingConfig
	Sync     SyncConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DocumentConfig holds shared-document store settings
type DocumentConfig struct {
	// GistID is the bare gist id or the full gist URL.
	GistID string
	// Token is the GitHub bearer credential. It may be empty for public
	// documents, which leaves the store read-only.
	Token string
	// APIBase overrides the GitHub API base URL (tests, proxies).
	APIBase string
	// FileName is the document file name inside the gist.
	FileName string
	// RequestTimeout bounds every document request.
	RequestTimeout time.Duration
}

// MatchingConfig holds matchmaking settings
type MatchingConfig struct {
	// ExpiryWindow is the soft-expiry age after which rooms are hidden.
	ExpiryWindow time.Duration
	// RecommendLimit caps recommendation list length.
	RecommendLimit int
}

// SyncConfig holds read-modify-write retry settings
type SyncConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Version is the schema version stamped into the shared document.
const Version = "1.0.0"

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Env:          getEnv("SERVER_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Document: DocumentConfig{
			GistID:         getEnv("GIST_ID", ""),
			Token:          getEnv("GITHUB_TOKEN", ""),
			APIBase:        getEnv("GITHUB_API_BASE", "https://api.github.com"),
			FileName:       getEnv("GIST_FILE_NAME", "teamup-rooms.json"),
			RequestTimeout: getDurationEnv("DOCUMENT_REQUEST_TIMEOUT", 10*time.Second),
		},
		Matching: MatchingConfig{
			ExpiryWindow:   getDurationEnv("ROOM_EXPIRY_WINDOW", 24*time.Hour),
			RecommendLimit: getIntEnv("RECOMMEND_LIMIT", 10),
		},
		Sync: SyncConfig{
			MaxAttempts: getIntEnv("SYNC_MAX_ATTEMPTS", 3),
			BaseDelay:   getDurationEnv("SYNC_BASE_DELAY", time.Second),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}

	if c.Document.GistID == "" {
		errs = append(errs, errors.New("GIST_ID is required"))
	}
	if c.Document.APIBase == "" {
		errs = append(errs, errors.New("GITHUB_API_BASE is required"))
	}
	if c.Document.FileName == "" {
		errs = append(errs, errors.New("GIST_FILE_NAME is required"))
	}
	if c.Document.RequestTimeout <= 0 {
		errs = append(errs, errors.New("DOCUMENT_REQUEST_TIMEOUT must be positive"))
	}
	// A token is optional for public documents, but production without one
	// cannot write anything.
	if c.IsProduction() && c.Document.Token == "" {
		errs = append(errs, errors.New("GITHUB_TOKEN is required in production"))
	}

	if c.Matching.ExpiryWindow <= 0 {
		errs = append(errs, errors.New("ROOM_EXPIRY_WINDOW must be positive"))
	}
	if c.Matching.RecommendLimit <= 0 {
		errs = append(errs, errors.New("RECOMMEND_LIMIT must be positive"))
	}

	if c.Sync.MaxAttempts <= 0 {
		errs = append(errs, errors.New("SYNC_MAX_ATTEMPTS must be positive"))
	}
	if c.Sync.BaseDelay <= 0 {
		errs = append(errs, errors.New("SYNC_BASE_DELAY must be positive"))
	}

	return errors.Join(errs...)
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv returns the environment variable as an int or a default
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getDurationEnv returns the environment variable as a duration or a default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
