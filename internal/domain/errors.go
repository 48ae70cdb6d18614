package domain

import "errors"

var (
	// ErrBackendUnavailable signals that the search backend could not be reached.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrQueryRejected signals that the search backend rejected the query.
	ErrQueryRejected = errors.New("search backend rejected query")
	// ErrDirectionsFailed signals that the directions provider returned an error.
	ErrDirectionsFailed = errors.New("directions request failed")
	// ErrInterpretFailed signals that the language-model interpreter failed.
	ErrInterpretFailed = errors.New("query interpretation failed")
)
