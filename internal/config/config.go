package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Persistence
	DataBackend  string
	SQLiteDBPath string
	DataDir      string

	Timezone string
	LogLevel string

	// AMQP change events; an empty URL disables publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Product lookup
	LookupBaseURL  string
	LookupDebounce time.Duration
	LookupTimeout  time.Duration
	LookupCacheTTL time.Duration

	// Google Calendar export
	GoogleCalendarID         string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	CalendarSyncInterval     time.Duration
}

var validBackends = []string{"memory", "sqlite"}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/semihos.db"),
		DataDir:      getEnv("DATA_DIR", ""),
		Timezone:     getEnv("TIMEZONE", "Europe/Berlin"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "semihos"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "semihos_changes"),

		LookupBaseURL:  getEnv("LOOKUP_BASE_URL", "https://de.openfoodfacts.org"),
		LookupDebounce: getEnvDuration("LOOKUP_DEBOUNCE", 500*time.Millisecond),
		LookupTimeout:  getEnvDuration("LOOKUP_TIMEOUT", 10*time.Second),
		LookupCacheTTL: getEnvDuration("LOOKUP_CACHE_TTL", 10*time.Minute),

		GoogleCalendarID:         getEnv("GOOGLE_CALENDAR_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),
		CalendarSyncInterval:     getEnvDuration("CALENDAR_SYNC_INTERVAL", 15*time.Minute),
	}
}

// Location resolves Timezone; an empty value means the host zone.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate checks everything the API server needs and reports all
// problems at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}
	if c.DataBackend == "memory" && c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err != nil || !info.IsDir() {
			problems = append(problems, fmt.Sprintf("data directory '%s' does not exist", c.DataDir))
		}
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if u, err := url.Parse(c.LookupBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		problems = append(problems, fmt.Sprintf("invalid lookup base URL '%s'", c.LookupBaseURL))
	}
	if c.LookupDebounce < 0 || c.LookupDebounce > 5*time.Second {
		problems = append(problems, fmt.Sprintf("invalid lookup debounce %v: must be between 0 and 5s", c.LookupDebounce))
	}
	if c.LookupTimeout < time.Second {
		problems = append(problems, fmt.Sprintf("invalid lookup timeout %v: must be at least 1 second", c.LookupTimeout))
	}

	return joinProblems(problems)
}

// ValidateCalendarSync checks the settings of the calendar export worker.
func (c *Config) ValidateCalendarSync() error {
	var problems []string
	if c.GoogleCalendarID == "" {
		problems = append(problems, "GOOGLE_CALENDAR_ID is required for calendar sync")
	}
	if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
		problems = append(problems, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided")
	}
	if c.GoogleServiceAccountFile != "" && c.GoogleServiceAccountJSON == "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}
	if c.CalendarSyncInterval < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid calendar sync interval %v: must be at least 1 minute", c.CalendarSyncInterval))
	} else if c.CalendarSyncInterval > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid calendar sync interval %v: must be at most 24 hours", c.CalendarSyncInterval))
	}
	return joinProblems(problems)
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
