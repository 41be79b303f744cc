package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// classify wraps a driver error into a domain.StoreFault.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.StoreFault{Op: op, Code: faultCode(err), Err: err}
}

func faultCode(err error) domain.FaultCode {
	if errors.Is(err, sql.ErrConnDone) {
		return domain.FaultConnection
	}

	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return domain.FaultUnknown
	}

	code := sqliteErr.Code()
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return domain.FaultConstraintUnique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return domain.FaultConstraintForeignKey
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return domain.FaultConstraintNotNull
	}

	switch code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		return constraintFromMessage(sqliteErr.Error())
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return domain.FaultBusy
	case sqlite3.SQLITE_ERROR:
		return domain.FaultMalformedQuery
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_NOTADB:
		return domain.FaultConnection
	}
	return domain.FaultUnknown
}

// constraintFromMessage covers connections without extended result codes;
// SQLite's constraint messages are stable.
func constraintFromMessage(msg string) domain.FaultCode {
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return domain.FaultConstraintUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return domain.FaultConstraintForeignKey
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return domain.FaultConstraintNotNull
	}
	return domain.FaultConstraint
}
