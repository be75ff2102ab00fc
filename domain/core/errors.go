package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrPresetNotFound = fmt.Errorf("%w: preset", ErrNotFound)

	ErrUnknownFamily = errors.New("unknown graph family")
	ErrInvalidFormat = errors.New("unsupported export format")
)

// NewValidationError reports an invalid field value
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}
