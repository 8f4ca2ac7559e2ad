package services

import "errors"

// Sentinel errors surfaced by the core services. Controllers translate them
// into the JSON error envelope; nothing here retries.
var (
	ErrNotFound     = errors.New("record not found")
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrEmptyText    = errors.New("text cannot be empty")
	ErrBadImageRef  = errors.New("invalid image reference")
)
