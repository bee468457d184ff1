package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port    string
	BaseURL string

	// Database
	DataBackend  string
	SQLiteDBPath string
	PostgresURL  string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Uploads
	UploadDir     string
	MaxUploadSize int64

	// Events (AMQP)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	AuditLogPath string

	// Listing
	ListDefaultLimit int
	ListMaxLimit     int

	// Logging
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port:    getEnv("PORT", "8000"),
		BaseURL: getEnv("BASE_URL", ""),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		PostgresURL:  getEnv("POSTGRES_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 5<<20),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "entry_events"),
		AuditLogPath: getEnv("AUDIT_LOG_PATH", "./data/entry_audit.log"),

		ListDefaultLimit: getEnvInt("LIST_DEFAULT_LIMIT", 100),
		ListMaxLimit:     getEnvInt("LIST_MAX_LIMIT", 500),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}

	return cfg
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Validation only inspects the path; the store creates the
			// directory when it opens the database.
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if info, err := os.Stat(dir); err == nil && !info.IsDir() {
					errors = append(errors, fmt.Sprintf("SQLite database directory '%s' is not a directory", dir))
				}
			}
		}
	case "postgres":
		if c.PostgresURL == "" {
			errors = append(errors, "POSTGRES_URL is required when using postgres backend")
		} else if parsed, err := url.Parse(c.PostgresURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid postgres URL '%s': %v", c.PostgresURL, err))
		} else if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid postgres URL scheme '%s': must be 'postgres' or 'postgresql'", parsed.Scheme))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite postgres]", c.DataBackend))
	}

	// Validate auth settings
	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET must be set")
	} else if len(c.JWTSecret) < 32 {
		errors = append(errors, fmt.Sprintf("JWT_SECRET too short (%d chars): must be at least 32", len(c.JWTSecret)))
	}
	if c.TokenTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	} else if c.TokenTTL > 30*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be at most 30 days", c.TokenTTL))
	}

	// Validate upload settings
	if c.UploadDir == "" {
		errors = append(errors, "upload directory cannot be empty")
	}
	if c.MaxUploadSize < 1024 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d: must be at least 1KB", c.MaxUploadSize))
	}

	// Validate AMQP settings if events are enabled
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate listing limits
	if c.ListDefaultLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid default list limit %d: must be at least 1", c.ListDefaultLimit))
	}
	if c.ListMaxLimit < c.ListDefaultLimit {
		errors = append(errors, fmt.Sprintf("invalid max list limit %d: must be at least the default limit %d", c.ListMaxLimit, c.ListDefaultLimit))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
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
