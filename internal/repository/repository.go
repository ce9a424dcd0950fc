package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with an existing one")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can join a transaction
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func constraintCode(err error) int {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()
	}
	return 0
}

// Connections without extended result codes only report SQLITE_CONSTRAINT,
// so the message is checked as well.
func isUniqueViolation(err error) bool {
	switch constraintCode(err) {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(err.Error(), "UNIQUE constraint failed")
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	switch constraintCode(err) {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
