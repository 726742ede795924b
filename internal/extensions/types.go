package extensions

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Entry is a legacy UI extension registered by third-party code.
//
// Entries are owned by the registry; the info panel only ever reads
// copies taken at render time.
type Entry struct {
	// ID is assigned by the registry on first registration.
	ID string `json:"id"`

	// Name identifies the extension. Re-announcing an existing name
	// updates the URL and version in place.
	Name string `json:"name"`

	// URL is where the extension's bundle is served from.
	URL string `json:"url"`

	// Version is whatever the extension reports about itself.
	Version string `json:"version"`

	// RegisteredAt is when the extension first announced itself.
	RegisteredAt time.Time `json:"registered_at"`
}

// Validate checks that an announcement carries usable values.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if e.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidEntry)
	}
	if u, err := url.Parse(e.URL); err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: url must be absolute", ErrInvalidEntry)
	}
	if e.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidEntry)
	}
	return nil
}
