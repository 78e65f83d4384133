package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	// ErrSourceNotHostable means the source image could not be made
	// durable, so the save was skipped rather than persisting an
	// ephemeral reference.
	ErrSourceNotHostable = errors.New("source image is not hostable")
	// ErrStoreUnavailable means no store base URL is configured; saving
	// is disabled, not failing.
	ErrStoreUnavailable = errors.New("project store is not configured")
)
