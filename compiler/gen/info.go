package gen

// Kind classifies a resolved value type.
type Kind int

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	// KindString is the JSON string primitive.
	KindString
	// KindNumber is the JSON number primitive.
	KindNumber
	// KindInteger is a whole-valued JSON number.
	KindInteger
	// KindBoolean is the JSON boolean primitive.
	KindBoolean
	// KindObject is an untyped JSON object.
	KindObject
	// KindArray is a JSON array; Item describes the element type.
	KindArray
	// KindNull is the JSON null primitive.
	KindNull
	// KindNode references a concrete or abstract node type by title.
	KindNode
	// KindEnum references a closed enumeration by title.
	KindEnum
	// KindUnion references a named union by title, or an inline
	// property-level anyOf through Members.
	KindUnion
	// KindAny is an unconstrained value.
	KindAny
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindNumber:  "number",
	KindInteger: "integer",
	KindBoolean: "boolean",
	KindObject:  "object",
	KindArray:   "array",
	KindNull:    "null",
	KindNode:    "node",
	KindEnum:    "enum",
	KindUnion:   "union",
	KindAny:     "any",
}

// String returns the kind name.
func (k Kind) String() string { return kindNames[k] }

// Numeric reports whether the kind is a JSON number.
func (k Kind) Numeric() bool { return k == KindNumber || k == KindInteger }

// Primitive reports whether the kind is a reserved primitive.
func (k Kind) Primitive() bool {
	switch k {
	case KindString, KindNumber, KindInteger, KindBoolean, KindObject, KindArray, KindNull:
		return true
	}
	return false
}

// primitiveKinds maps the reserved primitive names to kinds.
var primitiveKinds = map[string]Kind{
	"string":  KindString,
	"number":  KindNumber,
	"integer": KindInteger,
	"boolean": KindBoolean,
	"object":  KindObject,
	"array":   KindArray,
	"null":    KindNull,
}

// TypeInfo is the resolved value type of a property.
type TypeInfo struct {
	Kind Kind
	// Ref names the target type for KindNode, KindEnum and named
	// KindUnion infos.
	Ref string
	// Item is the element type for KindArray.
	Item *TypeInfo
	// Members are the branches of an inline property-level anyOf.
	Members []*TypeInfo
}

// String renders the info for error messages and tests.
func (i *TypeInfo) String() string {
	switch i.Kind {
	case KindNode, KindEnum:
		return i.Ref
	case KindUnion:
		if i.Ref != "" {
			return i.Ref
		}
		return "union"
	case KindArray:
		if i.Item != nil {
			return "array<" + i.Item.String() + ">"
		}
		return "array"
	default:
		return i.Kind.String()
	}
}

// Same reports whether two infos resolve to the same type. Used by
// the flattener to detect descendant overrides that change the value
// type.
func (i *TypeInfo) Same(other *TypeInfo) bool {
	if i == nil || other == nil {
		return i == other
	}
	if i.Kind != other.Kind || i.Ref != other.Ref {
		return false
	}
	if (i.Item == nil) != (other.Item == nil) {
		return false
	}
	if i.Item != nil && !i.Item.Same(other.Item) {
		return false
	}
	if len(i.Members) != len(other.Members) {
		return false
	}
	for n := range i.Members {
		if !i.Members[n].Same(other.Members[n]) {
			return false
		}
	}
	return true
}
