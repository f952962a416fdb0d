package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the remote store rejected the credential
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSyncInProgress indicates a sync is already running for this owner
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrInvalidStatus indicates a document arrived with a status that is not a sync trigger
	ErrInvalidStatus = errors.New("invalid workflow status")

	// ErrInvalidPathComponent indicates a sub-directory property could not be resolved
	ErrInvalidPathComponent = errors.New("invalid path component")

	// ErrEmptyTitle indicates a document has no title to derive an output path from
	ErrEmptyTitle = errors.New("empty title")

	// ErrReservedKey indicates an attempt to store a record under the owner entry
	ErrReservedKey = errors.New("reserved metadata key")

	// ErrUnsafePath indicates an output path that escapes the output root
	ErrUnsafePath = errors.New("unsafe output path")
)
