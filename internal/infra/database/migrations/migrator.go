package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/GuiaBolso/darwin"
	"github.com/diegoclair/sqlmigrator"
)

//go:embed sql/*.sql
var SqlFiles embed.FS

// Migrate applies the embedded migrations using the dialect of the driver.
func Migrate(db *sql.DB, driver string) error {
	var dialect darwin.Dialect
	switch driver {
	case "postgres":
		dialect = darwin.PostgresDialect{}
	case "sqlite3":
		dialect = darwin.SqliteDialect{}
	default:
		return fmt.Errorf("no migration dialect for driver %q", driver)
	}

	migrator := sqlmigrator.New(db, dialect)
	return migrator.Migrate(SqlFiles, "sql")
}
