package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"time_recorder_bot/internal/infra/database/migrations"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute

	sqlitePrefix = "sqlite3://"
)

// Driver names accepted by database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ParseURL picks the driver from the database URL. "sqlite3://path" selects
// SQLite, anything else is handed to the PostgreSQL driver.
func ParseURL(databaseURL string) (driver, dsn string) {
	if strings.HasPrefix(databaseURL, sqlitePrefix) {
		return DriverSQLite, strings.TrimPrefix(databaseURL, sqlitePrefix)
	}
	return DriverPostgres, databaseURL
}

// NewConnection opens the database, pings it and applies migrations.
func NewConnection(databaseURL string) (*sql.DB, error) {
	driver, dsn := ParseURL(databaseURL)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// one writer; keeps the cache row upsert whole
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetMaxIdleConns(defaultMaxIdleConns)
		db.SetConnMaxLifetime(defaultConnMaxLifetime)
		db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = migrations.Migrate(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
