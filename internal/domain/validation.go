package domain

import "fmt"

// ValidationKind classifies why an input was rejected.
type ValidationKind string

const (
	MissingField ValidationKind = "missing_field"
	OutOfRange   ValidationKind = "out_of_range"
	InvalidEnum  ValidationKind = "invalid_enum"
)

// ValidationError describes a rejected input field. Validators return it
// instead of panicking; nothing is ever written for invalid input.
type ValidationError struct {
	Field  string
	Kind   ValidationKind
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Missing builds a missing-field validation error.
func Missing(field string) *ValidationError {
	return &ValidationError{Field: field, Kind: MissingField, Reason: "required"}
}

// Range builds an out-of-range validation error.
func Range(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Kind: OutOfRange, Reason: reason}
}

// Enum builds an invalid-enum validation error.
func Enum(field string, value any) *ValidationError {
	return &ValidationError{Field: field, Kind: InvalidEnum, Reason: fmt.Sprintf("unknown value %q", value)}
}
