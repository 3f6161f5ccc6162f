package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Backends accepted by DATA_BACKEND.
var validBackends = []string{"csv", "parquet", "sqlite", "sheets"}

type Config struct {
	// HTTP Server
	Port               string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	RateLimitPerMinute int

	// Backend selection
	DataBackend string

	// File backends (csv, parquet)
	DataDir           string
	DatasetSchemaFile string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// UI
	HeaderImagePath string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		DataBackend: strings.ToLower(getEnv("DATA_BACKEND", "csv")),

		DataDir:           getEnv("DATA_DIR", "./data"),
		DatasetSchemaFile: getEnv("DATASET_SCHEMA_FILE", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/bikedash.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		HeaderImagePath: getEnv("HEADER_IMAGE_PATH", ""),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	return cfg
}

// Validate checks every setting and reports all problems together.
func (c *Config) Validate() error {
	var result *multierror.Error

	if port, err := strconv.Atoi(c.Port); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		result = multierror.Append(result, fmt.Errorf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "csv", "parquet":
		if info, err := os.Stat(c.DataDir); err != nil {
			result = multierror.Append(result, fmt.Errorf("data directory '%s' is not accessible: %w", c.DataDir, err))
		} else if !info.IsDir() {
			result = multierror.Append(result, fmt.Errorf("data directory '%s' is not a directory", c.DataDir))
		}

	case "sqlite":
		if c.SQLiteDBPath == "" {
			result = multierror.Append(result, fmt.Errorf("SQLite database path cannot be empty when using sqlite backend"))
		}

	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			result = multierror.Append(result, fmt.Errorf("Google Spreadsheet ID is required when using sheets backend"))
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			result = multierror.Append(result, fmt.Errorf("either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets backend (or GOOGLE_APPLICATION_CREDENTIALS)"))
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				result = multierror.Append(result, fmt.Errorf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.DatasetSchemaFile != "" {
		if _, err := os.Stat(c.DatasetSchemaFile); err != nil {
			result = multierror.Append(result, fmt.Errorf("dataset schema file '%s' is not readable: %w", c.DatasetSchemaFile, err))
		}
	}

	if c.HeaderImagePath != "" {
		switch strings.ToLower(filepath.Ext(c.HeaderImagePath)) {
		case ".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp":
		default:
			result = multierror.Append(result, fmt.Errorf("header image '%s' must be a jpg, png, gif, svg or webp file", c.HeaderImagePath))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		result = multierror.Append(result, fmt.Errorf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.RateLimitPerMinute < 1 {
		result = multierror.Append(result, fmt.Errorf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}
	if c.RequestTimeout < time.Second {
		result = multierror.Append(result, fmt.Errorf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	}
	if c.ShutdownTimeout < time.Second {
		result = multierror.Append(result, fmt.Errorf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		result = multierror.Append(result, fmt.Errorf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
