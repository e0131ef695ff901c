package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/nodegen/nodegen/compiler/gen"
)

// refIdent returns the Go identifier a named reference resolves to.
func (t *Target) refIdent(info *gen.TypeInfo) string {
	switch info.Kind {
	case gen.KindNode:
		return t.graph.Node(info.Ref).Ident()
	case gen.KindEnum:
		return t.graph.Enum(info.Ref).Ident()
	case gen.KindUnion:
		return t.graph.Union(info.Ref).Ident()
	}
	return ""
}

// goType maps a resolved field type to its Go representation.
// Optional scalars become pointers; node references are pointers to
// the member struct, or the abstract interface when the target is
// abstract; slices, maps and interfaces carry absence as nil.
func (t *Target) goType(info *gen.TypeInfo, optional bool) jen.Code {
	ptr := func(c jen.Code) jen.Code {
		if optional {
			return jen.Op("*").Add(c)
		}
		return c
	}
	switch info.Kind {
	case gen.KindString:
		return ptr(jen.String())
	case gen.KindNumber:
		return ptr(jen.Float64())
	case gen.KindInteger:
		return ptr(jen.Int64())
	case gen.KindBoolean:
		return ptr(jen.Bool())
	case gen.KindObject:
		return jen.Map(jen.String()).Any()
	case gen.KindArray:
		return jen.Index().Add(t.elemType(info.Item))
	case gen.KindNode:
		if t.graph.Node(info.Ref).Abstract {
			return jen.Id(t.refIdent(info))
		}
		return jen.Op("*").Id(t.refIdent(info))
	case gen.KindEnum:
		return ptr(jen.Id(t.refIdent(info)))
	case gen.KindUnion:
		if info.Ref != "" {
			return jen.Id(t.refIdent(info))
		}
		// Inline anyOf over mixed branches stays dynamic.
		return jen.Any()
	default:
		return jen.Any()
	}
}

// elemType maps an array element type. Elements are never pointers
// for scalars; node elements stay pointers to the member struct.
func (t *Target) elemType(info *gen.TypeInfo) jen.Code {
	return t.goType(info, false)
}

// simpleDecode reports whether a value of this type decodes with a
// plain json.Unmarshal, without a dispatch function.
func (t *Target) simpleDecode(info *gen.TypeInfo) bool {
	switch info.Kind {
	case gen.KindNode:
		return !t.graph.Node(info.Ref).Abstract
	case gen.KindUnion:
		return info.Ref == ""
	case gen.KindArray:
		return t.simpleDecode(info.Item)
	default:
		return true
	}
}

// zeroValue returns the expression Strip assigns to clear a field.
func (t *Target) zeroValue(info *gen.TypeInfo, optional bool) jen.Code {
	if optional {
		return jen.Nil()
	}
	switch info.Kind {
	case gen.KindString:
		return jen.Lit("")
	case gen.KindNumber, gen.KindInteger:
		return jen.Lit(0)
	case gen.KindBoolean:
		return jen.False()
	case gen.KindEnum:
		return jen.Lit("")
	default:
		return jen.Nil()
	}
}
