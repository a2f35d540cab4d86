package journal

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a trade or account does not exist for the
// requesting owner.
var ErrNotFound = errors.New("not found")

// StoreError records which store operation failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("journal %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationError describes a rejected field.
type ValidationError struct {
	Field  string
	Reason string
	Value  any
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("invalid %s: %s (value: %v)", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// wrap attaches the operation name; nil stays nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
