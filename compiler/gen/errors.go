// Package gen resolves a loaded schema corpus into a flattened type
// graph and orchestrates code generation over it.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph construction and generation failures.
var (
	// ErrUnresolvedReference indicates a dangling $ref or extends target.
	ErrUnresolvedReference = errors.New("nodegen: unresolved reference")
	// ErrCyclicInheritance indicates a cycle in the extends graph.
	ErrCyclicInheritance = errors.New("nodegen: cyclic inheritance")
	// ErrMalformedUnion indicates an anyOf mixing const and $ref members.
	ErrMalformedUnion = errors.New("nodegen: malformed union")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("nodegen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("nodegen: code generation failed")
)

// UnresolvedReferenceError reports a $ref or extends entry whose
// target is neither a known title nor a reserved primitive. This is
// the correctness-critical check: the corpus is large and
// cross-referencing errors are easy to introduce.
type UnresolvedReferenceError struct {
	Referrer string // title of the referring schema
	Property string // property holding the $ref, empty for extends
	Target   string // the missing title
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	var b strings.Builder
	b.WriteString("nodegen: unresolved reference")
	if e.Referrer != "" {
		b.WriteString(" from ")
		b.WriteString(e.Referrer)
	}
	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}
	fmt.Fprintf(&b, " to %q", e.Target)
	return b.String()
}

// Is reports whether the target matches the sentinel error for UnresolvedReferenceError.
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// NewUnresolvedReferenceError creates a new UnresolvedReferenceError.
func NewUnresolvedReferenceError(referrer, property, target string) *UnresolvedReferenceError {
	return &UnresolvedReferenceError{Referrer: referrer, Property: property, Target: target}
}

// CyclicInheritanceError reports an extends cycle, naming it in order.
type CyclicInheritanceError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *CyclicInheritanceError) Error() string {
	return "nodegen: cyclic inheritance: " + strings.Join(e.Cycle, " -> ")
}

// Is reports whether the target matches the sentinel error for CyclicInheritanceError.
func (e *CyclicInheritanceError) Is(target error) bool {
	return target == ErrCyclicInheritance
}

// MalformedUnionError reports an anyOf schema that can be classified
// neither as a closed enumeration nor as a sum over node types.
type MalformedUnionError struct {
	Type    string
	Message string
}

// Error implements the error interface.
func (e *MalformedUnionError) Error() string {
	return fmt.Sprintf("nodegen: malformed union %s: %s", e.Type, e.Message)
}

// Is reports whether the target matches the sentinel error for MalformedUnionError.
func (e *MalformedUnionError) Is(target error) bool {
	return target == ErrMalformedUnion
}

// NewMalformedUnionError creates a new MalformedUnionError.
func NewMalformedUnionError(typeName, message string) *MalformedUnionError {
	return &MalformedUnionError{Type: typeName, Message: message}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("nodegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("nodegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError represents a code generation failure.
type GenerationError struct {
	Phase   string // "node", "codec", "union", "format", ...
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("nodegen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

// IsUnresolvedReferenceError reports whether the error is an UnresolvedReferenceError.
func IsUnresolvedReferenceError(err error) bool {
	var ue *UnresolvedReferenceError
	return errors.As(err, &ue)
}

// IsCyclicInheritanceError reports whether the error is a CyclicInheritanceError.
func IsCyclicInheritanceError(err error) bool {
	var ce *CyclicInheritanceError
	return errors.As(err, &ce)
}

// IsMalformedUnionError reports whether the error is a MalformedUnionError.
func IsMalformedUnionError(err error) bool {
	var me *MalformedUnionError
	return errors.As(err, &me)
}
