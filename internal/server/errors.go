package server

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FieldError is implemented by errors that map form fields to messages.
type FieldError interface {
	error
	FieldErrors() map[string]string
}

// ValidationError reports every invalid field of a server record.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid server: " + joinFields(e.Fields)
}

// FieldErrors returns a copy of the field to message map.
func (e *ValidationError) FieldErrors() map[string]string {
	return maps.Clone(e.Fields)
}

// DuplicateKeyError is returned when a new server reuses a registered value
// that must be unique.
type DuplicateKeyError struct {
	Field   string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s: %s", e.Field, e.Message)
}

// FieldErrors exposes the collision in the same shape as ValidationError.
func (e *DuplicateKeyError) FieldErrors() map[string]string {
	return map[string]string{e.Field: e.Message}
}

// NotFoundError is returned when a server id is not registered.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("server %d not found", e.ID)
}

// FieldErrors extracts per-field messages from err, if it carries any.
func FieldErrors(err error) (map[string]string, bool) {
	var fe FieldError
	if errors.As(err, &fe) {
		return fe.FieldErrors(), true
	}
	return nil, false
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func joinFields(fields map[string]string) string {
	keys := slices.Sorted(maps.Keys(fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
