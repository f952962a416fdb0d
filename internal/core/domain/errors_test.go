package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrSyncInProgress", ErrSyncInProgress, "sync already in progress"},
		{"ErrInvalidStatus", ErrInvalidStatus, "invalid workflow status"},
		{"ErrInvalidPathComponent", ErrInvalidPathComponent, "invalid path component"},
		{"ErrEmptyTitle", ErrEmptyTitle, "empty title"},
		{"ErrReservedKey", ErrReservedKey, "reserved metadata key"},
		{"ErrUnsafePath", ErrUnsafePath, "unsafe output path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrSyncInProgress,
		ErrInvalidStatus,
		ErrInvalidPathComponent,
		ErrEmptyTitle,
		ErrReservedKey,
		ErrUnsafePath,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("document abc: %w", ErrInvalidStatus)
	if !errors.Is(wrapped, ErrInvalidStatus) {
		t.Error("expected wrapped error to match ErrInvalidStatus")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped ErrInvalidStatus should not match ErrNotFound")
	}
}
