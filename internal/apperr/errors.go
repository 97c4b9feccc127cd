// Package apperr defines the error values shared across layers.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a record id with no corresponding row. Get returns it so
// callers can render "absent"; it is not a failure of the store itself.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected input field. No write occurs when one is
// returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
