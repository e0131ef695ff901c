package gen

import (
	"github.com/nodegen/nodegen/compiler/load"
)

type (
	// Union is a top-level anyOf over node type references, emitted as
	// a Go interface with a marker method per member.
	Union struct {
		*Config
		schema *load.Schema

		// Name is the schema title.
		Name string
		// Members are the referenced concrete types, expanded through
		// nested unions, in declaration order.
		Members []*Type
	}

	// Enum is a top-level anyOf over const literals, emitted as a
	// string type with one constant per variant.
	Enum struct {
		*Config
		schema *load.Schema

		// Name is the schema title.
		Name string
		// Variants are the const values in declaration order.
		Variants []Variant
		// Default is the declared default value, empty if none.
		Default string
	}

	// Variant is one enum constant.
	Variant struct {
		// Name is the exported identifier suffix.
		Name string
		// Value is the wire literal.
		Value string
		// Description documents the variant.
		Description string
	}
)

// classifyUnion decides whether a top-level anyOf schema is a closed
// enumeration or a sum over node types. Mixing const and $ref members
// is rejected.
func (g *Graph) classifyUnion(s *load.Schema) error {
	var consts, refs int
	for _, m := range s.AnyOf {
		switch {
		case m.IsEnumMember():
			consts++
		case m.IsRef():
			refs++
		default:
			return NewMalformedUnionError(s.Title, "anyOf member is neither a const nor a $ref")
		}
	}
	switch {
	case consts > 0 && refs > 0:
		return NewMalformedUnionError(s.Title, "anyOf mixes const and $ref members")
	case consts > 0:
		e, err := g.newEnum(s)
		if err != nil {
			return err
		}
		g.Enums = append(g.Enums, e)
		g.enums[s.Title] = e
	default:
		// Members are resolved after all types are flattened.
		u := &Union{Config: g.Config, schema: s, Name: s.Title}
		g.Unions = append(g.Unions, u)
		g.unions[s.Title] = u
	}
	return nil
}

// newEnum builds a closed enumeration and checks its default.
func (g *Graph) newEnum(s *load.Schema) (*Enum, error) {
	e := &Enum{Config: g.Config, schema: s, Name: s.Title}
	for _, m := range s.AnyOf {
		value, ok := m.ConstString()
		if !ok {
			return nil, NewMalformedUnionError(s.Title, "enum const is not a string")
		}
		e.Variants = append(e.Variants, Variant{
			Name:        pascal(value),
			Value:       value,
			Description: m.Description,
		})
	}
	if s.Default != nil {
		value, ok := s.Default.(string)
		if !ok {
			return nil, NewMalformedUnionError(s.Title, "enum default is not a string")
		}
		if !e.Has(value) {
			return nil, NewMalformedUnionError(s.Title, "default "+value+" is not a declared variant")
		}
		e.Default = value
	}
	return e, nil
}

// resolveMembers expands a union's $ref members against the flattened
// graph. References to other unions are inlined; each concrete type
// appears once.
func (g *Graph) resolveMembers(u *Union) error {
	seen := make(map[string]bool)
	var walk func(s *load.Schema) error
	walk = func(s *load.Schema) error {
		for _, m := range s.AnyOf {
			target := m.Ref
			if nested, ok := g.unions[target]; ok {
				if !seen[target] {
					seen[target] = true
					if err := walk(nested.schema); err != nil {
						return err
					}
				}
				continue
			}
			if _, ok := g.enums[target]; ok {
				return NewMalformedUnionError(u.Name, "member "+target+" is an enumeration, not a node type")
			}
			t, ok := g.nodes[target]
			if !ok {
				return NewUnresolvedReferenceError(u.Name, "", target)
			}
			if t.Abstract {
				return NewMalformedUnionError(u.Name, "member "+target+" is abstract")
			}
			if !seen[target] {
				seen[target] = true
				u.Members = append(u.Members, t)
			}
		}
		return nil
	}
	seen[u.Name] = true
	return walk(u.schema)
}

// Ident returns the exported Go identifier for the union.
func (u *Union) Ident() string { return pascal(u.Name) }

// Label returns the snake_case name for file names and logging.
func (u *Union) Label() string { return snake(u.Name) }

// MemberNames returns the member titles in declaration order.
func (u *Union) MemberNames() []string {
	names := make([]string, len(u.Members))
	for i, m := range u.Members {
		names[i] = m.Name
	}
	return names
}

// Has reports whether the named type is a member.
func (u *Union) Has(name string) bool {
	for _, m := range u.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Description returns the schema description.
func (u *Union) Description() string { return u.schema.Description }

// Ident returns the exported Go identifier for the enum.
func (e *Enum) Ident() string { return pascal(e.Name) }

// Label returns the snake_case name for file names and logging.
func (e *Enum) Label() string { return snake(e.Name) }

// Has reports whether the value is a declared variant.
func (e *Enum) Has(value string) bool {
	for _, v := range e.Variants {
		if v.Value == value {
			return true
		}
	}
	return false
}

// Values returns the wire literals in declaration order.
func (e *Enum) Values() []string {
	out := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		out[i] = v.Value
	}
	return out
}

// Description returns the schema description.
func (e *Enum) Description() string { return e.schema.Description }
