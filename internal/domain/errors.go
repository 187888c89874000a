package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested area or climb does not exist.
// Callers surface it directly; nothing retries it.
var ErrNotFound = errors.New("not found")

// ValidationError marks malformed input. It is surfaced to the caller with
// no side effects left behind.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
