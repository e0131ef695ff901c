package load

import (
	"sort"

	json "github.com/goccy/go-json"
)

// Primitives is the reserved set of type names that resolve without a
// schema document.
var Primitives = map[string]bool{
	"string":  true,
	"number":  true,
	"integer": true,
	"boolean": true,
	"object":  true,
	"array":   true,
	"null":    true,
}

// HintFormats is the set of recognized format hint blocks. Their
// internal shape is opaque passthrough data for the emitter.
var HintFormats = map[string]bool{
	"dom":      true,
	"html":     true,
	"jats":     true,
	"latex":    true,
	"markdown": true,
	"patch":    true,
	"proptest": true,
	"serde":    true,
}

// schemaKeys is the closed set of top-level keywords. Anything else
// fails with a SchemaShapeError (additionalProperties:false semantics
// on the meta-schema itself).
var schemaKeys = map[string]bool{
	"$schema": true, "$id": true, "@id": true, "title": true,
	"extends": true, "category": true, "abstract": true,
	"description": true, "$comment": true, "status": true,
	"required": true, "core": true, "properties": true,
	"anyOf": true, "default": true, "type": true,
	"additionalProperties": true,
}

// propertyKeys is the closed set of property-level keywords.
var propertyKeys = map[string]bool{
	"type": true, "items": true, "$ref": true, "anyOf": true,
	"aliases": true, "description": true, "$comment": true, "@id": true,
	"minimum": true, "maximum": true, "pattern": true,
	"minItems": true, "maxItems": true, "uniqueItems": true,
	"const": true, "default": true, "strip": true,
}

type (
	// Schema is one parsed schema document: a node type, a validator,
	// an enumeration or a union, keyed by its globally unique title.
	Schema struct {
		Source      string   `json:"$schema,omitempty"`
		ID          string   `json:"$id,omitempty"`
		JSONLD      string   `json:"@id,omitempty"`
		Title       string   `json:"title,omitempty"`
		Extends     []string `json:"extends,omitempty"`
		Category    string   `json:"category,omitempty"`
		Abstract    bool     `json:"abstract,omitempty"`
		Description string   `json:"description,omitempty"`
		Comment     string   `json:"$comment,omitempty"`
		Status      string   `json:"status,omitempty"`
		Required    []string `json:"required,omitempty"`
		Core        []string `json:"core,omitempty"`
		// Properties keyed by canonical name. Names() gives a
		// deterministic order.
		Properties map[string]*Property `json:"properties,omitempty"`
		// AnyOf members: a schema with anyOf and no own properties is
		// a union or a closed enumeration.
		AnyOf   []*Member `json:"anyOf,omitempty"`
		Default any       `json:"default,omitempty"`
		Type    string    `json:"type,omitempty"`
		// AdditionalProperties, when present and not false, requests a
		// catch-all side-map on the emitted struct.
		AdditionalProperties json.RawMessage `json:"additionalProperties,omitempty"`
		// Hints holds the per-format hint blocks (dom, html, jats,
		// latex, markdown, patch, proptest, serde) as opaque data.
		Hints map[string]json.RawMessage `json:"-"`

		// Path is the source file, for error context.
		Path string `json:"-"`
		// ShadowedIDs records $id values replaced under the LastWins
		// duplicate policy.
		ShadowedIDs []string `json:"-"`
	}

	// Property is one property definition on a schema.
	Property struct {
		Name        string          `json:"-"`
		Type        string          `json:"type,omitempty"`
		Items       *Member         `json:"items,omitempty"`
		Ref         string          `json:"$ref,omitempty"`
		AnyOf       []*Member       `json:"anyOf,omitempty"`
		Aliases     []string        `json:"aliases,omitempty"`
		Description string          `json:"description,omitempty"`
		Comment     string          `json:"$comment,omitempty"`
		JSONLD      string          `json:"@id,omitempty"`
		Minimum     *float64        `json:"minimum,omitempty"`
		Maximum     *float64        `json:"maximum,omitempty"`
		Pattern     string          `json:"pattern,omitempty"`
		MinItems    *uint64         `json:"minItems,omitempty"`
		MaxItems    *uint64         `json:"maxItems,omitempty"`
		UniqueItems bool            `json:"uniqueItems,omitempty"`
		Const       json.RawMessage `json:"const,omitempty"`
		Default     any             `json:"default,omitempty"`
		Strip       bool            `json:"strip,omitempty"`
		// Hints holds per-property format hint blocks, opaque.
		Hints map[string]json.RawMessage `json:"-"`
	}

	// Member is one entry of an anyOf list or an items definition:
	// a $ref to another schema, a primitive type, or a const literal.
	Member struct {
		Ref         string          `json:"$ref,omitempty"`
		Type        string          `json:"type,omitempty"`
		Const       json.RawMessage `json:"const,omitempty"`
		JSONLD      string          `json:"@id,omitempty"`
		Description string          `json:"description,omitempty"`
		Items       *Member         `json:"items,omitempty"`
	}
)

// UnmarshalSchema decodes a single schema document, enforcing the
// closed meta-schema. path is used only for error context.
func UnmarshalSchema(path string, data []byte) (*Schema, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	s := &Schema{Path: path, Hints: make(map[string]json.RawMessage)}
	for key, value := range raw {
		switch {
		case key == "extends":
			exts, err := decodeStringOrList(value)
			if err != nil {
				return nil, &SchemaShapeError{Path: path, Message: "extends must be a string or an array of strings"}
			}
			s.Extends = exts
		case key == "properties":
			props, err := decodeProperties(path, value)
			if err != nil {
				return nil, err
			}
			s.Properties = props
		case HintFormats[key]:
			s.Hints[key] = value
		case schemaKeys[key]:
			if err := decodeField(key, value, s); err != nil {
				return nil, &ParseError{Path: path, Cause: err}
			}
		default:
			return nil, &SchemaShapeError{Path: path, Message: "unrecognized keyword " + key}
		}
	}
	if s.Title == "" {
		return nil, &SchemaShapeError{Path: path, Message: "missing title"}
	}
	for _, p := range s.Properties {
		if p.Type == "" && p.Ref == "" && len(p.AnyOf) == 0 && len(p.Const) == 0 {
			return nil, &SchemaShapeError{Path: path, Title: s.Title, Property: p.Name, Message: "property has neither type, $ref nor anyOf"}
		}
	}
	return s, nil
}

// decodeField routes a recognized top-level key into the schema struct.
func decodeField(key string, value json.RawMessage, s *Schema) error {
	switch key {
	case "$schema":
		return json.Unmarshal(value, &s.Source)
	case "$id":
		return json.Unmarshal(value, &s.ID)
	case "@id":
		return json.Unmarshal(value, &s.JSONLD)
	case "title":
		return json.Unmarshal(value, &s.Title)
	case "category":
		return json.Unmarshal(value, &s.Category)
	case "abstract":
		return json.Unmarshal(value, &s.Abstract)
	case "description":
		return json.Unmarshal(value, &s.Description)
	case "$comment":
		return json.Unmarshal(value, &s.Comment)
	case "status":
		return json.Unmarshal(value, &s.Status)
	case "required":
		return json.Unmarshal(value, &s.Required)
	case "core":
		return json.Unmarshal(value, &s.Core)
	case "anyOf":
		return json.Unmarshal(value, &s.AnyOf)
	case "default":
		return json.Unmarshal(value, &s.Default)
	case "type":
		return json.Unmarshal(value, &s.Type)
	case "additionalProperties":
		s.AdditionalProperties = value
	}
	return nil
}

// decodeProperties decodes the properties map with the closed
// property-level keyword set.
func decodeProperties(path string, data json.RawMessage) (map[string]*Property, error) {
	var rawProps map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawProps); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	props := make(map[string]*Property, len(rawProps))
	for name, rawProp := range rawProps {
		var members map[string]json.RawMessage
		if err := json.Unmarshal(rawProp, &members); err != nil {
			return nil, &ParseError{Path: path, Cause: err}
		}
		hints := make(map[string]json.RawMessage)
		filtered := make(map[string]json.RawMessage, len(members))
		for key, value := range members {
			switch {
			case HintFormats[key]:
				hints[key] = value
			case propertyKeys[key]:
				filtered[key] = value
			default:
				return nil, &SchemaShapeError{Path: path, Property: name, Message: "unrecognized property keyword " + key}
			}
		}
		buf, err := json.Marshal(filtered)
		if err != nil {
			return nil, &ParseError{Path: path, Cause: err}
		}
		p := &Property{Name: name, Hints: hints}
		if err := json.Unmarshal(buf, p); err != nil {
			return nil, &ParseError{Path: path, Cause: err}
		}
		p.Name = name
		props[name] = p
	}
	return props, nil
}

// decodeStringOrList accepts "Entity" or ["Entity", "Mark"].
func decodeStringOrList(data json.RawMessage) ([]string, error) {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return nil, err
	}
	return many, nil
}

// IsUnion reports whether the schema body is a top-level anyOf with no
// own properties (a union or a closed enumeration).
func (s *Schema) IsUnion() bool {
	return len(s.AnyOf) > 0 && len(s.Properties) == 0
}

// AllowsExtra reports whether the schema opts into a catch-all
// side-map, either through additionalProperties or a serde flatten
// hint.
func (s *Schema) AllowsExtra() bool {
	if len(s.AdditionalProperties) > 0 && string(s.AdditionalProperties) != "false" {
		return true
	}
	if serde, ok := s.Hints["serde"]; ok {
		var h struct {
			Flatten bool `json:"flatten"`
		}
		if err := json.Unmarshal(serde, &h); err == nil && h.Flatten {
			return true
		}
	}
	return false
}

// HintFor returns the raw hint block for the given format, if any.
func (s *Schema) HintFor(format string) (json.RawMessage, bool) {
	raw, ok := s.Hints[format]
	return raw, ok
}

// Names returns the schema's property names in deterministic order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEnumMember reports whether the anyOf entry is a const literal
// (with only an optional @id and description alongside).
func (m *Member) IsEnumMember() bool {
	return len(m.Const) > 0 && m.Ref == "" && m.Type == ""
}

// IsRef reports whether the anyOf entry references another schema.
func (m *Member) IsRef() bool { return m.Ref != "" }

// ConstString returns the const literal as a string, when it is one.
func (m *Member) ConstString() (string, bool) {
	var s string
	if err := json.Unmarshal(m.Const, &s); err != nil {
		return "", false
	}
	return s, true
}
