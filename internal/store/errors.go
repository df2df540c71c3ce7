package store

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrConflict is returned when a conditional write finds the record
	// changed since it was read.
	ErrConflict = errors.New("store: version conflict")

	// ErrStoreTooNew is returned when the database was written by a newer
	// release than the running binary.
	ErrStoreTooNew = errors.New("store: database written by a newer version")
)

// Kind is the caller-facing class of a storage failure.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindPermissionDenied
	KindTransient
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindTransient:
		return "transient"
	case KindConflict:
		return "conflict"
	default:
		return "other"
	}
}

// Classify maps err onto a Kind. A nil error is KindOther.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, context.DeadlineExceeded):
		return KindTransient
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		// Extended result codes keep the primary code in the low byte.
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_PERM, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_CANTOPEN:
			return KindPermissionDenied
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR:
			return KindTransient
		case sqlite3.SQLITE_CONSTRAINT:
			return KindConflict
		}
	}
	return KindOther
}

// IsPermissionDenied reports whether err means the store rejected access.
// Such errors are not retried.
func IsPermissionDenied(err error) bool {
	return Classify(err) == KindPermissionDenied
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return Classify(err) == KindTransient
}
