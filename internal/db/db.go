package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// ErrStorage marks failures of the storage backend itself, as opposed to
// a statement that simply matched no rows.
var ErrStorage = errors.New("storage failure")

// ConnProvider hands out one connection per store operation.
// *sql.DB satisfies it.
type ConnProvider interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectFor maps a database/sql driver name onto the SQL dialect it speaks.
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "postgres", "pgx":
		return DialectPostgres, nil
	case "sqlite3", "sqlite":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driverName)
	}
}

func Connect(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, DriverDSN(driverName, dsn))
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// every pooled connection to an in-memory sqlite database is a separate database
	if IsMemoryDSN(dsn) {
		db.SetMaxOpenConns(1)
		return db, nil
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}

// DriverDSN makes the pure Go sqlite driver store timestamps in the layout
// go-sqlite3 parses, so one database file can be opened with either driver.
func DriverDSN(driverName, dsn string) string {
	if driverName != "sqlite" || strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite"
}

func IsMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func release(conn *sql.Conn) {
	if err := conn.Close(); err != nil {
		slog.Warn("release db connection", "error", err)
	}
}
