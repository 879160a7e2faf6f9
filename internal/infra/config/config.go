package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	OwnerTelegramID int64
	DatabaseURL     string

	// Portal account
	AccountID string
	UserID    string
	Password  string
	SiteID    int // index into the portal host list

	LogLevel    string
	Environment string

	CronSpecRefresh       string // periodic status refresh
	CronSpecStartReminder string // "did you clock in?" reminder
	CronSpecLeaveReminder string // "clocking out?" reminder
	WorkInfoQuery         string // query string of the work-time page
	HTTPTimeout           time.Duration
	MetricsAddr           string // empty disables the metrics endpoint
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	ownerIDStr := os.Getenv("OWNER_TELEGRAM_ID")
	if ownerIDStr == "" {
		return nil, fmt.Errorf("OWNER_TELEGRAM_ID is not set")
	}
	cfg.OwnerTelegramID, err = strconv.ParseInt(ownerIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OWNER_TELEGRAM_ID: %w", err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "sqlite3://./time_recorder.db"
	}

	// Missing credentials are not fatal: the bot then reports "not configured".
	cfg.AccountID = os.Getenv("KTR_ACCOUNT_ID")
	cfg.UserID = os.Getenv("KTR_USER_ID")
	cfg.Password = os.Getenv("KTR_PASSWORD")

	if siteIDStr := os.Getenv("KTR_SITE_ID"); siteIDStr != "" {
		cfg.SiteID, err = strconv.Atoi(siteIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid KTR_SITE_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecRefresh = getEnv("CRON_SPEC_REFRESH", "*/10 * * * *")
	cfg.CronSpecStartReminder = getEnv("CRON_SPEC_START_REMINDER", "0 9 * * 1-5")
	cfg.CronSpecLeaveReminder = getEnv("CRON_SPEC_LEAVE_REMINDER", "0 18 * * 1-5")
	cfg.WorkInfoQuery = getEnv("WORKINFO_QUERY", "?module=timesheet&action=browse")

	cfg.HTTPTimeout = 30 * time.Second
	if timeoutStr := os.Getenv("HTTP_TIMEOUT"); timeoutStr != "" {
		cfg.HTTPTimeout, err = time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
	}

	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
