package extensions

import "errors"

// Domain errors for the extensions package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, extensions.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when an extension name does not exist.
	ErrNotFound = errors.New("extensions: not found")

	// ErrInvalidEntry is returned when an announcement fails validation.
	ErrInvalidEntry = errors.New("extensions: invalid entry")
)
