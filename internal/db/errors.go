package db

import "errors"

// Sentinel errors for backend operations.
var (
	// ErrUnavailable marks transport failures: connection refused, timeout.
	ErrUnavailable = errors.New("db: backend unavailable")
	// ErrRejected marks queries the backend refused to execute.
	ErrRejected = errors.New("db: query rejected")
	// ErrIndexNotFound marks a missing FT index.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists marks an FT index that already exists.
	ErrIndexExists = errors.New("db: index already exists")
)

// Op constants map to Redis command names for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpDel         = "DEL"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpExists      = "EXISTS"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
