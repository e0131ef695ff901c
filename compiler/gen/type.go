package gen

import (
	"sort"

	json "github.com/goccy/go-json"

	"github.com/nodegen/nodegen/compiler/load"
)

type (
	// Type is one flattened node type: the schema's own properties
	// merged over everything inherited through extends, with required
	// and core membership accumulated across the whole chain.
	Type struct {
		*Config
		schema *load.Schema

		// Name is the schema title and the generated struct name
		// before identifier conversion.
		Name string
		// Abstract types participate in flattening and may be union
		// members through their descendants, but no struct is emitted
		// for them.
		Abstract bool
		// Ancestors are the transitive extends targets in
		// root-to-leaf order, deduplicated on first occurrence.
		Ancestors []*Type
		// Fields are the flattened properties sorted by name.
		Fields []*Field

		fields   map[string]*Field
		required map[string]bool
		core     map[string]bool
	}

	// Field is one flattened property with its resolved value type,
	// validation constraints and alias set.
	Field struct {
		def *load.Property

		// Name is the canonical property name on the wire.
		Name string
		// Info is the resolved value type.
		Info *TypeInfo
		// Aliases are alternate wire names mapped to Name on decode.
		Aliases []string
		// DeclaredBy is the title of the schema whose declaration won
		// the override; for inherited fields that is an ancestor.
		DeclaredBy string
		// Inherited is true when the winning declaration is not on
		// the type's own schema.
		Inherited bool

		Description string
		Minimum     *float64
		Maximum     *float64
		Pattern     string
		MinItems    *uint64
		MaxItems    *uint64
		UniqueItems bool
		Default     any
		// Strip marks properties excluded from canonical encoding.
		Strip bool
	}
)

// newField resolves a single property declaration against the graph's
// title index.
func (g *Graph) newField(owner string, p *load.Property) (*Field, error) {
	info, err := g.resolveProperty(owner, p)
	if err != nil {
		return nil, err
	}
	return &Field{
		def:         p,
		Name:        p.Name,
		Info:        info,
		Aliases:     p.Aliases,
		DeclaredBy:  owner,
		Description: p.Description,
		Minimum:     p.Minimum,
		Maximum:     p.Maximum,
		Pattern:     p.Pattern,
		MinItems:    p.MinItems,
		MaxItems:    p.MaxItems,
		UniqueItems: p.UniqueItems,
		Default:     p.Default,
		Strip:       p.Strip,
	}, nil
}

// newType flattens one schema. Ancestors must already be flattened;
// NewGraph guarantees that by building in topological order.
func (g *Graph) newType(s *load.Schema) (*Type, error) {
	t := &Type{
		Config:   g.Config,
		schema:   s,
		Name:     s.Title,
		Abstract: s.Abstract,
		fields:   make(map[string]*Field),
		required: make(map[string]bool),
		core:     make(map[string]bool),
	}
	for _, parent := range s.Extends {
		anc := g.nodes[parent]
		for _, a := range append(anc.Ancestors, anc) {
			if !t.hasAncestor(a.Name) {
				t.Ancestors = append(t.Ancestors, a)
			}
		}
	}
	// Inherited fields first, root to leaf, so nearer declarations
	// shadow farther ones. A redeclaration replaces the inherited
	// field wholesale; constraints and aliases do not merge.
	for _, anc := range t.Ancestors {
		for _, f := range anc.ownFields() {
			inherited := *f
			inherited.Inherited = true
			t.fields[f.Name] = &inherited
		}
		for name := range anc.required {
			t.required[name] = true
		}
		for name := range anc.core {
			t.core[name] = true
		}
	}
	for _, name := range s.Names() {
		f, err := g.newField(s.Title, s.Properties[name])
		if err != nil {
			return nil, err
		}
		t.fields[name] = f
	}
	for _, name := range s.Required {
		t.required[name] = true
	}
	for _, name := range s.Core {
		t.core[name] = true
	}
	if err := t.checkFields(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(t.fields))
	for name := range t.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.Fields = append(t.Fields, t.fields[name])
	}
	return t, nil
}

// checkFields verifies membership and alias integrity of the
// flattened property set.
func (t *Type) checkFields() error {
	for name := range t.required {
		if _, ok := t.fields[name]; !ok {
			return &load.SchemaShapeError{Title: t.Name, Property: name, Message: "required names a property the flattened type does not have"}
		}
	}
	for name := range t.core {
		if _, ok := t.fields[name]; !ok {
			return &load.SchemaShapeError{Title: t.Name, Property: name, Message: "core names a property the flattened type does not have"}
		}
	}
	claimed := make(map[string]string, len(t.fields))
	for name := range t.fields {
		claimed[name] = name
	}
	names := make([]string, 0, len(t.fields))
	for name := range t.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, alias := range t.fields[name].Aliases {
			if owner, ok := claimed[alias]; ok && owner != name {
				return &load.SchemaShapeError{Title: t.Name, Property: name, Message: "alias " + alias + " collides with property " + owner}
			}
			claimed[alias] = name
		}
	}
	return nil
}

// ownFields returns the fields declared or overridden on this type's
// own schema plus everything it inherited, i.e. the full flattened
// set. Descendants copy from here.
func (t *Type) ownFields() []*Field { return t.Fields }

// hasAncestor reports whether the named type is already in the chain.
func (t *Type) hasAncestor(name string) bool {
	for _, a := range t.Ancestors {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Field returns the flattened field with the given canonical name.
func (t *Type) Field(name string) *Field {
	return t.fields[name]
}

// Required reports whether the property is required anywhere along
// the inheritance chain. Membership is monotonic: descendants can add
// but never remove it.
func (t *Type) Required(name string) bool { return t.required[name] }

// Core reports whether the property is core anywhere along the chain.
func (t *Type) Core(name string) bool { return t.core[name] }

// CoreFields returns the core subset of the flattened fields.
func (t *Type) CoreFields() []*Field {
	out := make([]*Field, 0, len(t.core))
	for _, f := range t.Fields {
		if t.core[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

// RequiredFields returns the required subset of the flattened fields.
func (t *Type) RequiredFields() []*Field {
	out := make([]*Field, 0, len(t.required))
	for _, f := range t.Fields {
		if t.required[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

// AllowsExtra reports whether decoded documents may carry properties
// beyond the flattened set, collected into a side-map.
func (t *Type) AllowsExtra() bool { return t.schema.AllowsExtra() }

// HintFor returns the type's raw hint block for a format.
func (t *Type) HintFor(format string) (json.RawMessage, bool) {
	return t.schema.HintFor(format)
}

// Description returns the schema description.
func (t *Type) Description() string { return t.schema.Description }

// Extends returns the immediate parent titles.
func (t *Type) Extends() []string { return t.schema.Extends }

// Ident returns the exported Go identifier for the type.
func (t *Type) Ident() string { return pascal(t.Name) }

// Label returns the snake_case name used for file names and logging.
func (t *Type) Label() string { return snake(t.Name) }

// Receiver returns the method receiver name for generated methods.
func (t *Type) Receiver() string {
	return string([]rune(camel(t.Name))[0])
}

// Ident returns the exported Go identifier for the field.
func (f *Field) Ident() string { return pascal(f.Name) }

// Optional reports whether the field may be absent. Requiredness
// lives on the owning type, so emitters resolve it there; this covers
// the common scalar-pointer decision.
func (f *Field) Optional(t *Type) bool { return !t.required[f.Name] }

// IsArray reports whether the field holds a JSON array.
func (f *Field) IsArray() bool { return f.Info.Kind == KindArray }

// HasConstraints reports whether any validation keyword applies.
func (f *Field) HasConstraints() bool {
	return f.Minimum != nil || f.Maximum != nil || f.Pattern != "" ||
		f.MinItems != nil || f.MaxItems != nil || f.UniqueItems
}

// HintFor returns the field's raw hint block for a format.
func (f *Field) HintFor(format string) (json.RawMessage, bool) {
	raw, ok := f.def.Hints[format]
	return raw, ok
}
