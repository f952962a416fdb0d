package driven

import "context"

// OutputStore writes rendered files beneath a fixed output root.
// Paths are relative to the root and may not escape it.
type OutputStore interface {
	// WriteFile writes data to path, creating parent directories.
	WriteFile(ctx context.Context, path string, data []byte) error

	// RemoveAll removes path and everything below it.
	// A missing path is not an error.
	RemoveAll(ctx context.Context, path string) error
}
