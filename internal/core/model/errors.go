package model

import "errors"

var (
	// ErrDataIntegrity is returned when a snapshot collection repeats a key.
	// It is fatal at startup.
	ErrDataIntegrity = errors.New("supp: data integrity violation")

	// ErrMissingReference marks an entry that points at an agent or paper the
	// snapshot doesn't contain. These are logged and dropped, never returned
	// to callers.
	ErrMissingReference = errors.New("supp: missing reference")

	// ErrMalformedInteractionID is returned for interaction ids that don't
	// consist of exactly two CUIs.
	ErrMalformedInteractionID = errors.New("supp: malformed interaction id")

	// ErrValidation is returned for structurally invalid input, such as a
	// mention argument without a CUI or span.
	ErrValidation = errors.New("supp: validation failed")

	// ErrNotFound is returned when a requested agent or interaction does not exist.
	ErrNotFound = errors.New("supp: not found")

	// ErrSearchUnavailable is returned when no search provider is configured.
	ErrSearchUnavailable = errors.New("supp: search unavailable")
)
