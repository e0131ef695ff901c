// Package load reads a corpus of JSON Schema and JSON-LD documents
// into memory and validates them against the closed meta-schema.
package load

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for corpus loading failures.
var (
	// ErrParse indicates malformed JSON in a schema document.
	ErrParse = errors.New("nodegen: parse error")
	// ErrSchemaShape indicates a document that violates the meta-schema.
	ErrSchemaShape = errors.New("nodegen: invalid schema shape")
	// ErrDuplicateType indicates a title collision across the corpus.
	ErrDuplicateType = errors.New("nodegen: duplicate type")
)

// ParseError reports malformed JSON in a source document.
type ParseError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("nodegen: parse error in %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error for ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// SchemaShapeError reports a document that violates the structural
// rules of the meta-schema: a missing title, an unrecognized top-level
// keyword, or a property declaring neither type, $ref nor anyOf.
type SchemaShapeError struct {
	Path     string
	Title    string
	Property string
	Message  string
}

// Error implements the error interface.
func (e *SchemaShapeError) Error() string {
	var b strings.Builder
	b.WriteString("nodegen: schema shape error")
	if e.Title != "" {
		b.WriteString(" in ")
		b.WriteString(e.Title)
	} else if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for SchemaShapeError.
func (e *SchemaShapeError) Is(target error) bool { return target == ErrSchemaShape }

// DuplicateTypeError reports two documents claiming the same title.
type DuplicateTypeError struct {
	Title string
	Paths []string
}

// Error implements the error interface.
func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("nodegen: duplicate type %q declared by %s", e.Title, strings.Join(e.Paths, ", "))
}

// Is reports whether the target matches the sentinel error for DuplicateTypeError.
func (e *DuplicateTypeError) Is(target error) bool { return target == ErrDuplicateType }

// IsParseError reports whether the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsSchemaShapeError reports whether the error is a SchemaShapeError.
func IsSchemaShapeError(err error) bool {
	var se *SchemaShapeError
	return errors.As(err, &se)
}

// IsDuplicateTypeError reports whether the error is a DuplicateTypeError.
func IsDuplicateTypeError(err error) bool {
	var de *DuplicateTypeError
	return errors.As(err, &de)
}
