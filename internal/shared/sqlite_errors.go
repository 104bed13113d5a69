// Package shared holds helpers used by more than one package.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteCode returns the primary result code carried by err, or 0.
func sqliteCode(err error) int {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code() & 0xff
	}
	return 0
}

// IsSQLiteBusyError reports whether another connection held the database.
func IsSQLiteBusyError(err error) bool {
	if err == nil {
		return false
	}
	return sqliteCode(err) == sqlite3.SQLITE_BUSY || strings.Contains(err.Error(), "SQLITE_BUSY")
}

// IsSQLiteLockedError reports a "database is locked" or table lock failure.
func IsSQLiteLockedError(err error) bool {
	if err == nil {
		return false
	}
	return sqliteCode(err) == sqlite3.SQLITE_LOCKED || strings.Contains(err.Error(), "database is locked")
}

// IsSQLiteConflictError reports either kind of lock contention. Both are
// worth retrying.
func IsSQLiteConflictError(err error) bool {
	return IsSQLiteBusyError(err) || IsSQLiteLockedError(err)
}
