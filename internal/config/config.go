// Package config provides application configuration from environment variables, command-line flags, and .env files.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Search      SearchConfig
	GoogleBooks GoogleBooksConfig
	Enrichment  EnrichmentConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// DatabaseConfig holds catalog database configuration.
type DatabaseConfig struct {
	Path string // Path to the sqlite database file
}

// SearchConfig holds full-text search index configuration.
type SearchConfig struct {
	DataPath string // Directory holding the bleve index
}

// GoogleBooksConfig holds the external metadata search configuration.
type GoogleBooksConfig struct {
	BaseURL string        // Override for testing (default: Google Books volumes API)
	APIKey  string        // Optional API key; anonymous access works with lower quotas
	Timeout time.Duration // Per-request timeout (default: 10s)
}

// EnrichmentConfig holds batch enrichment pacing configuration.
type EnrichmentConfig struct {
	// BatchInterval is the minimum spacing between external searches
	// during batch enrichment (default: 1s).
	BatchInterval time.Duration
	// MaxCandidates is how many search results to request per record (default: 5).
	MaxCandidates int
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dbPath := flag.String("db-path", "", "Path to the catalog database")
	searchPath := flag.String("search-path", "", "Directory for the search index")
	port := flag.String("port", "", "Server port (default: 8080)")
	booksAPIKey := flag.String("books-api-key", "", "Google Books API key (optional)")
	flag.Parse()

	// .env values are loaded into the process environment without
	// overriding variables that are already set.
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Environment: firstOf(*env, os.Getenv("SHELFLINE_ENV"), "development"),
		},
		Logger: LoggerConfig{
			Level: firstOf(*logLevel, os.Getenv("SHELFLINE_LOG_LEVEL"), "info"),
		},
		Server: ServerConfig{
			Port:         firstOf(*port, os.Getenv("SHELFLINE_PORT"), "8080"),
			ReadTimeout:  durationOr(os.Getenv("SHELFLINE_READ_TIMEOUT"), 15*time.Second),
			WriteTimeout: durationOr(os.Getenv("SHELFLINE_WRITE_TIMEOUT"), 15*time.Second),
			IdleTimeout:  durationOr(os.Getenv("SHELFLINE_IDLE_TIMEOUT"), 60*time.Second),
		},
		Database: DatabaseConfig{
			Path: firstOf(*dbPath, os.Getenv("SHELFLINE_DB_PATH"), "data/catalog.db"),
		},
		Search: SearchConfig{
			DataPath: firstOf(*searchPath, os.Getenv("SHELFLINE_SEARCH_PATH"), "data"),
		},
		GoogleBooks: GoogleBooksConfig{
			BaseURL: os.Getenv("SHELFLINE_BOOKS_API_URL"),
			APIKey:  firstOf(*booksAPIKey, os.Getenv("SHELFLINE_BOOKS_API_KEY"), ""),
			Timeout: durationOr(os.Getenv("SHELFLINE_BOOKS_TIMEOUT"), 10*time.Second),
		},
		Enrichment: EnrichmentConfig{
			BatchInterval: durationOr(os.Getenv("SHELFLINE_ENRICH_INTERVAL"), time.Second),
			MaxCandidates: 5,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment %q", c.App.Environment)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.GoogleBooks.Timeout <= 0 {
		return fmt.Errorf("metadata search timeout must be positive")
	}
	return nil
}

// firstOf returns the first non-empty string.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// durationOr parses s as a duration, falling back to def when empty or invalid.
func durationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
