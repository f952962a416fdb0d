package notion

import "net/http"

// Config contains configuration for the Notion content source.
type Config struct {
	// Token is the integration secret.
	Token string

	// DatabaseID is the collection whose pages are mirrored.
	DatabaseID string

	// StatusProperty names the select property holding the workflow status.
	// It is read into Document.Status and left out of Document.Properties.
	StatusProperty string

	// PageSize is the number of items requested per page.
	// Maximum is 100.
	PageSize int

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default Notion configuration.
func DefaultConfig() *Config {
	return &Config{
		StatusProperty: "status",
		PageSize:       100,
	}
}
