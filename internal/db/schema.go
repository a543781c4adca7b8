package db

import (
	"context"
	"fmt"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  description TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
  id SERIAL PRIMARY KEY,
  description TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  created_at TIMESTAMP NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the tasks table if it does not exist yet.
func EnsureSchema(ctx context.Context, conns ConnProvider, dialect Dialect) error {
	var ddl string
	switch dialect {
	case DialectSQLite:
		ddl = sqliteSchema
	case DialectPostgres:
		ddl = postgresSchema
	default:
		return fmt.Errorf("no schema for dialect %q", dialect)
	}

	conn, err := conns.Conn(ctx)
	if err != nil {
		return storageError("create schema", err)
	}
	defer release(conn)

	if _, err := conn.ExecContext(ctx, ddl); err != nil {
		return storageError("create schema", err)
	}
	return nil
}
