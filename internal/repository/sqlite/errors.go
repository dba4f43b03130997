package sqlite

import (
	"database/sql"
	"errors"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsDuplicateError checks if error is a primary key or unique constraint violation
func IsDuplicateError(err error) bool {
	var e *driver.Error
	if errors.As(err, &e) {
		return e.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || e.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// IsBusyError checks if the database lock could not be acquired in time
func IsBusyError(err error) bool {
	var e *driver.Error
	if errors.As(err, &e) {
		return e.Code()&0xff == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsNoRowsError checks if error is a "no rows" error
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
