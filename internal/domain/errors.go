package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers.
var (
	ErrNotFound = errors.New("not found")
	// ErrOverlap is returned by a guarded insert when a confirmed event already occupies the slot.
	ErrOverlap = errors.New("event overlaps an existing event")
	// ErrIntegrationMissing means the user has no active, completed calendar integration.
	ErrIntegrationMissing = errors.New("no active calendar integration")
	// ErrTokenExpired means the stored provider token expired before a sync attempt.
	ErrTokenExpired = errors.New("calendar provider token expired")
	// ErrProviderSync wraps failures returned by the external calendar provider.
	ErrProviderSync = errors.New("calendar provider sync failed")
)

// ValidationError reports missing or malformed request input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedActionError is returned for an unknown request action.
type UnsupportedActionError struct {
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action %q", e.Action)
}
