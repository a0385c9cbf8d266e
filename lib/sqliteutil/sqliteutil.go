// Package sqliteutil opens sqlite-compatible databases, local files and
// hosted libsql instances alike, and applies a schema on open.
package sqliteutil

import (
	"database/sql"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func driverFor(target string) string {
	if strings.HasPrefix(target, "libsql://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

// OpenDB opens target and executes schema against it. Re-opening an existing
// database is fine: "already exists" errors from the schema are ignored.
func OpenDB(schema, target string) (*sql.DB, error) {
	driver := driverFor(target)
	database, err := sql.Open(driver, target)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" && target != ":memory:" {
		// see https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
		database.SetMaxOpenConns(1)
		_, err = database.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			database.Close()
			return nil, err
		}
	}
	_, err = database.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		database.Close()
		return nil, err
	}
	return database, nil
}
