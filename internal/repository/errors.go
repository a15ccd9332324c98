package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity does not exist. Wrapping
	// errors name the entity type and id.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a duplicate insert, e.g. a table placed on
	// an occupied grid position.
	ErrAlreadyExists = errors.New("already exists")
)

// isUniqueViolation detects SQLite unique-constraint failures so they can
// be reported as ErrAlreadyExists instead of an opaque storage error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
