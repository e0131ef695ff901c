package nodegen

import (
	"fmt"
	"regexp"
	"sync"

	json "github.com/goccy/go-json"
)

// Extra is the catch-all side-map generated for types that allow
// additional properties. Unknown keys survive a decode/encode
// round-trip through it instead of being silently dropped.
type Extra map[string]any

// Fields splits a JSON object into its raw members. It is the first
// step of every generated UnmarshalJSON.
func Fields(data []byte) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// ResolveAliases rewrites alias keys to their canonical names.
// aliases maps alias -> canonical. A document that spells the same
// property twice (canonical plus alias, or two aliases) fails with an
// AliasError rather than letting one spelling win silently.
func ResolveAliases(typeName string, fields map[string]json.RawMessage, aliases map[string]string) error {
	for alias, canonical := range aliases {
		raw, ok := fields[alias]
		if !ok {
			continue
		}
		if _, dup := fields[canonical]; dup {
			return &AliasError{Type: typeName, Property: canonical, Alias: alias}
		}
		fields[canonical] = raw
		delete(fields, alias)
	}
	return nil
}

// PeekType extracts the "type" discriminant from an encoded node
// without decoding the rest of the document.
func PeekType(data []byte) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", err
	}
	if probe.Type == "" {
		return "", ErrMissingType
	}
	return probe.Type, nil
}

// DecodeDiscriminated decodes a union value by dispatching on the
// "type" discriminant. decoders maps member type names to their
// decode functions; an unknown discriminant fails with an
// UnknownTypeError naming the union.
func DecodeDiscriminated(union string, data []byte, decoders map[string]func([]byte) (any, error)) (any, error) {
	typ, err := PeekType(data)
	if err != nil {
		return nil, err
	}
	decode, ok := decoders[typ]
	if !ok {
		return nil, &UnknownTypeError{Union: union, Type: typ}
	}
	return decode(data)
}

// CheckMinimum fails when v is below the declared minimum.
func CheckMinimum(typeName, property string, v, min float64) error {
	if v < min {
		return NewValidationError(typeName, property, "minimum", v, fmt.Sprintf("must be >= %v", min))
	}
	return nil
}

// CheckMaximum fails when v is above the declared maximum.
func CheckMaximum(typeName, property string, v, max float64) error {
	if v > max {
		return NewValidationError(typeName, property, "maximum", v, fmt.Sprintf("must be <= %v", max))
	}
	return nil
}

// CheckMinItems fails when an array property holds fewer than min items.
func CheckMinItems(typeName, property string, n, min int) error {
	if n < min {
		return NewValidationError(typeName, property, "minItems", n, fmt.Sprintf("must have at least %d items", min))
	}
	return nil
}

// CheckMaxItems fails when an array property holds more than max items.
func CheckMaxItems(typeName, property string, n, max int) error {
	if n > max {
		return NewValidationError(typeName, property, "maxItems", n, fmt.Sprintf("must have at most %d items", max))
	}
	return nil
}

var (
	patternMu    sync.RWMutex
	patternCache = make(map[string]*regexp.Regexp)
)

// CheckPattern fails when v does not match the declared pattern.
// Compiled patterns are cached for the lifetime of the process since
// schema constraints are fixed at generation time.
func CheckPattern(typeName, property, v, pattern string) error {
	patternMu.RLock()
	re, ok := patternCache[pattern]
	patternMu.RUnlock()
	if !ok {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return NewValidationError(typeName, property, "pattern", pattern, "invalid pattern")
		}
		patternMu.Lock()
		patternCache[pattern] = re
		patternMu.Unlock()
	}
	if !re.MatchString(v) {
		return NewValidationError(typeName, property, "pattern", v, fmt.Sprintf("must match %q", pattern))
	}
	return nil
}

// CheckUniqueItems fails when an array property holds duplicate items.
// Items are compared through their canonical JSON encoding.
func CheckUniqueItems(typeName, property string, items []any) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		key, err := json.Marshal(it)
		if err != nil {
			return err
		}
		if _, dup := seen[string(key)]; dup {
			return NewValidationError(typeName, property, "uniqueItems", it, "duplicate item")
		}
		seen[string(key)] = struct{}{}
	}
	return nil
}

// CheckEnum fails when v is not one of the declared variants. Used by
// generated enum decoders; an unknown literal never falls back to the
// default variant.
func CheckEnum(typeName string, v string, variants []string) error {
	for _, m := range variants {
		if v == m {
			return nil
		}
	}
	return NewValidationError(typeName, "", "enum", v, "not a member of the enumeration")
}
