package nodegen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors returned by generated codecs.
var (
	// ErrValidation is returned when a decoded value violates a
	// constraint declared in the source schema.
	ErrValidation = errors.New("nodegen: validation failed")

	// ErrUnknownType is returned when a union decoder encounters a
	// "type" discriminant that does not name a known member.
	ErrUnknownType = errors.New("nodegen: unknown node type")

	// ErrMissingType is returned when a union decoder receives a
	// document without a "type" discriminant.
	ErrMissingType = errors.New("nodegen: missing type discriminant")
)

// ValidationError reports a decode-time constraint violation. It names
// the node type, the property, the violated constraint and the
// offending value. Decoding never clamps or coerces; it fails.
type ValidationError struct {
	Type       string // node type name
	Property   string // canonical property name
	Constraint string // e.g. "minimum", "pattern", "enum"
	Value      any    // the offending value
	Message    string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("nodegen: validation error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}
	if e.Constraint != "" {
		fmt.Fprintf(&b, " (constraint %s, value %v)", e.Constraint, e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(typeName, property, constraint string, value any, message string) *ValidationError {
	return &ValidationError{
		Type:       typeName,
		Property:   property,
		Constraint: constraint,
		Value:      value,
		Message:    message,
	}
}

// UnknownTypeError reports a union decode failure: the document's
// "type" discriminant does not resolve to any member of the union.
type UnknownTypeError struct {
	Union string // the union being decoded (e.g. "Node", "Block")
	Type  string // the unresolved discriminant value
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	if e.Union != "" {
		return fmt.Sprintf("nodegen: unknown type %q for union %s", e.Type, e.Union)
	}
	return fmt.Sprintf("nodegen: unknown type %q", e.Type)
}

// Is reports whether the target matches the sentinel error for UnknownTypeError.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

// AliasError reports a document that spells the same property through
// both its canonical name and an alias (or through two aliases).
type AliasError struct {
	Type     string
	Property string // canonical name
	Alias    string // the colliding spelling
}

// Error implements the error interface.
func (e *AliasError) Error() string {
	return fmt.Sprintf("nodegen: property %q of %s given through both %q and its canonical name", e.Property, e.Type, e.Alias)
}

// Is reports whether the target matches the sentinel error for AliasError.
func (e *AliasError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidationError reports whether the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUnknownTypeError reports whether the error is an UnknownTypeError.
func IsUnknownTypeError(err error) bool {
	var ue *UnknownTypeError
	return errors.As(err, &ue)
}
