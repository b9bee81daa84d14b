package services

import "errors"

// Caller-input errors. These are the only search failures reported
// synchronously to callers besides a store failure with an empty cache.
var (
	// ErrQueryTooShort is returned when a search query is shorter than
	// MinQueryLength after trimming.
	ErrQueryTooShort = errors.New("query too short")

	// ErrInvalidPagination is returned for a negative limit or offset.
	ErrInvalidPagination = errors.New("invalid pagination parameters")

	// ErrInvalidSearchType is returned for an unknown search type.
	ErrInvalidSearchType = errors.New("invalid search type")

	// ErrNameRequired is returned when a mutation is missing a medicine name.
	ErrNameRequired = errors.New("medicine name is required")
)
