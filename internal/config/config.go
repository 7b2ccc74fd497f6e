package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// InMemoryPath is the sqlite DSN for a process-lifetime store
const InMemoryPath = ":memory:"

// Config holds application configuration
type Config struct {
	TelegramToken      string
	AdminUserID        int64 // the single administrator principal
	DatabasePath       string
	LogLevel           string
	Locale             string
	Timezone           *time.Location
	RetentionDays      int  // leads older than this are removed by the weekly sweep
	SummaryHour        int  // local hour at which the daily summary is sent
	NotifyUnauthorized bool // also send a message on rejected callbacks, not just the alert
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	adminIDStr := os.Getenv("ADMIN_USER_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_USER_ID environment variable is required")
	}
	adminID, err := strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_USER_ID: %w", err)
	}

	// ":memory:" keeps all lead data process-lifetime; a restart loses it
	dbPath := envOr("DATABASE_PATH", InMemoryPath)

	logLevel := envOr("LOG_LEVEL", "INFO")
	loc := envOr("LOCALE", "en")

	timezoneStr := envOr("TIMEZONE", "UTC")
	timezone, err := time.LoadLocation(timezoneStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE '%s': %w", timezoneStr, err)
	}

	retentionDays := envOrInt("RETENTION_DAYS", 30)
	if retentionDays <= 0 {
		return nil, fmt.Errorf("invalid RETENTION_DAYS '%d': must be positive", retentionDays)
	}

	summaryHour := envOrInt("SUMMARY_HOUR", 9)
	if summaryHour < 0 || summaryHour > 23 {
		return nil, fmt.Errorf("invalid SUMMARY_HOUR '%d': must be between 0 and 23", summaryHour)
	}

	return &Config{
		TelegramToken:      token,
		AdminUserID:        adminID,
		DatabasePath:       dbPath,
		LogLevel:           logLevel,
		Locale:             loc,
		Timezone:           timezone,
		RetentionDays:      retentionDays,
		SummaryHour:        summaryHour,
		NotifyUnauthorized: envOrBool("NOTIFY_UNAUTHORIZED", false),
	}, nil
}
