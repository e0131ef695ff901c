package golang

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/nodegen/nodegen/compiler/gen"
)

// EmitCodec produces the canonical codec file for a concrete type:
// the alias table, MarshalJSON writing canonical names plus the
// "type" discriminant, and UnmarshalJSON running the decode pipeline
// with constraint predicates.
func (t *Target) EmitCodec(typ *gen.Type) (*jen.File, error) {
	f := t.file()
	r := typ.Receiver()

	aliases := aliasTable(typ)
	aliasVar := lowerCamel(typ.Ident()) + "Aliases"
	if len(aliases) > 0 {
		f.Comment(aliasVar + " maps accepted alternate spellings to canonical names.")
		f.Var().Id(aliasVar).Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
			for alias, canonical := range aliases {
				d[jen.Lit(alias)] = jen.Lit(canonical)
			}
		}))
	}

	f.Comment("MarshalJSON encodes the node under its canonical property names")
	f.Comment("with the \"type\" discriminant.")
	f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id("MarshalJSON").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Id("fields").Op(":=").Id(r).Dot("canonicalFields").Call(),
		jen.Id("fields").Index(jen.Lit("type")).Op("=").Lit(typ.Name),
		jen.Return(jen.Qual(jsonPkg, "Marshal").Call(jen.Id("fields"))),
	)

	f.Comment("canonicalFields collects the set properties under their canonical")
	f.Comment("names. Extension properties go first so declared ones win.")
	f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id("canonicalFields").Params().Map(jen.String()).Any().BlockFunc(func(g *jen.Group) {
		g.Id("fields").Op(":=").Make(jen.Map(jen.String()).Any(), jen.Lit(len(typ.Fields)+1))
		if typ.AllowsExtra() {
			g.For(jen.List(jen.Id("k"), jen.Id("v")).Op(":=").Range().Id(r).Dot("Extra")).Block(
				jen.Id("fields").Index(jen.Id("k")).Op("=").Id("v"),
			)
		}
		for _, field := range typ.Fields {
			t.encodeField(g, typ, field, r)
		}
		g.Return(jen.Id("fields"))
	})

	f.Comment("UnmarshalJSON decodes the node, accepting any declared alias and")
	f.Comment("failing on the first violated constraint.")
	f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id("UnmarshalJSON").Params(jen.Id("data").Index().Byte()).Error().BlockFunc(func(g *jen.Group) {
		g.List(jen.Id("fields"), jen.Err()).Op(":=").Qual(runtimePkg, "Fields").Call(jen.Id("data"))
		g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err()))
		if len(aliases) > 0 {
			g.If(
				jen.Err().Op(":=").Qual(runtimePkg, "ResolveAliases").Call(jen.Lit(typ.Name), jen.Id("fields"), jen.Id(aliasVar)),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Err()))
		}
		g.Delete(jen.Id("fields"), jen.Lit("type"))
		for _, field := range typ.Fields {
			t.decodeField(g, typ, field, r)
		}
		if typ.AllowsExtra() {
			g.If(jen.Len(jen.Id("fields")).Op(">").Lit(0)).Block(
				jen.Id(r).Dot("Extra").Op("=").Make(jen.Qual(runtimePkg, "Extra"), jen.Len(jen.Id("fields"))),
				jen.For(jen.List(jen.Id("k"), jen.Id("raw")).Op(":=").Range().Id("fields")).Block(
					jen.Var().Id("v").Any(),
					jen.If(
						jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("v")),
						jen.Err().Op("!=").Nil(),
					).Block(jen.Return(jen.Err())),
					jen.Id(r).Dot("Extra").Index(jen.Id("k")).Op("=").Id("v"),
				),
			)
		}
		g.Return(jen.Nil())
	})
	return f, nil
}

// encodeField appends the canonicalFields statement for one property.
func (t *Target) encodeField(g *jen.Group, typ *gen.Type, field *gen.Field, r string) {
	entry := jen.Id("fields").Index(jen.Lit(field.Name))
	value := jen.Id(r).Dot(field.Ident())
	if !field.Optional(typ) {
		g.Add(entry.Clone().Op("=").Add(value))
		return
	}
	if derefOnEncode(field.Info) {
		g.If(value.Clone().Op("!=").Nil()).Block(
			entry.Clone().Op("=").Op("*").Add(value.Clone()),
		)
		return
	}
	g.If(value.Clone().Op("!=").Nil()).Block(
		entry.Clone().Op("=").Add(value.Clone()),
	)
}

// derefOnEncode reports whether the optional field is a pointer to a
// scalar that should encode by value.
func derefOnEncode(info *gen.TypeInfo) bool {
	switch info.Kind {
	case gen.KindString, gen.KindNumber, gen.KindInteger, gen.KindBoolean, gen.KindEnum:
		return true
	}
	return false
}

// decodeField appends the UnmarshalJSON block for one property.
func (t *Target) decodeField(g *jen.Group, typ *gen.Type, field *gen.Field, r string) {
	body := func(g *jen.Group) {
		t.decodeValue(g, typ, field, r)
		g.Delete(jen.Id("fields"), jen.Lit(field.Name))
	}
	stmt := jen.If(
		jen.List(jen.Id("raw"), jen.Id("ok")).Op(":=").Id("fields").Index(jen.Lit(field.Name)),
		jen.Id("ok"),
	).BlockFunc(body)
	if !field.Optional(typ) {
		stmt.Else().Block(
			jen.Return(jen.Qual(runtimePkg, "NewValidationError").Call(
				jen.Lit(typ.Name), jen.Lit(field.Name), jen.Lit("required"), jen.Nil(),
				jen.Lit("missing required property"),
			)),
		)
	}
	g.Add(stmt)
}

// decodeValue appends the statements decoding the raw member into the
// struct field, including constraint predicates.
func (t *Target) decodeValue(g *jen.Group, typ *gen.Type, field *gen.Field, r string) {
	target := jen.Id(r).Dot(field.Ident())
	optional := field.Optional(typ)
	info := field.Info

	unmarshalInto := func(dst jen.Code) jen.Code {
		return jen.If(
			jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id("raw"), dst),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err()))
	}
	check := func(fn string, args ...jen.Code) jen.Code {
		call := append([]jen.Code{jen.Lit(typ.Name), jen.Lit(field.Name)}, args...)
		return jen.If(
			jen.Err().Op(":=").Qual(runtimePkg, fn).Call(call...),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err()))
	}

	switch info.Kind {
	case gen.KindString, gen.KindNumber, gen.KindInteger, gen.KindBoolean:
		if !optional && !field.HasConstraints() {
			g.Add(unmarshalInto(jen.Op("&").Add(target)))
			return
		}
		g.Var().Id("v").Add(scalarType(info.Kind))
		g.Add(unmarshalInto(jen.Op("&").Id("v")))
		t.constraintChecks(g, info, field, check)
		if optional {
			g.Add(target.Clone().Op("=").Op("&").Id("v"))
		} else {
			g.Add(target.Clone().Op("=").Id("v"))
		}
	case gen.KindEnum:
		g.Var().Id("v").Id(t.refIdent(info))
		g.Add(unmarshalInto(jen.Op("&").Id("v")))
		if optional {
			g.Add(target.Clone().Op("=").Op("&").Id("v"))
		} else {
			g.Add(target.Clone().Op("=").Id("v"))
		}
	case gen.KindNode:
		if t.graph.Node(info.Ref).Abstract {
			g.List(jen.Id("v"), jen.Err()).Op(":=").Id("Decode" + t.refIdent(info)).Call(jen.Id("raw"))
			g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err()))
			g.Add(target.Clone().Op("=").Id("v"))
			return
		}
		g.Id("v").Op(":=").New(jen.Id(t.refIdent(info)))
		g.Add(unmarshalInto(jen.Id("v")))
		g.Add(target.Clone().Op("=").Id("v"))
	case gen.KindUnion:
		if info.Ref == "" {
			g.Var().Id("v").Any()
			g.Add(unmarshalInto(jen.Op("&").Id("v")))
			g.Add(target.Clone().Op("=").Id("v"))
			return
		}
		g.List(jen.Id("v"), jen.Err()).Op(":=").Id("Decode" + t.refIdent(info)).Call(jen.Id("raw"))
		g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err()))
		g.Add(target.Clone().Op("=").Id("v"))
	case gen.KindArray:
		t.decodeArray(g, typ, field, target, check)
	case gen.KindObject:
		g.Var().Id("v").Map(jen.String()).Any()
		g.Add(unmarshalInto(jen.Op("&").Id("v")))
		g.Add(target.Clone().Op("=").Id("v"))
	default:
		g.Var().Id("v").Any()
		g.Add(unmarshalInto(jen.Op("&").Id("v")))
		g.Add(target.Clone().Op("=").Id("v"))
	}
}

// constraintChecks appends the predicate calls for scalar constraints.
func (t *Target) constraintChecks(g *jen.Group, info *gen.TypeInfo, field *gen.Field, check func(string, ...jen.Code) jen.Code) {
	v := func() jen.Code {
		if info.Kind == gen.KindInteger {
			return jen.Float64().Call(jen.Id("v"))
		}
		return jen.Id("v")
	}
	if field.Minimum != nil {
		g.Add(check("CheckMinimum", v(), jen.Lit(*field.Minimum)))
	}
	if field.Maximum != nil {
		g.Add(check("CheckMaximum", v(), jen.Lit(*field.Maximum)))
	}
	if field.Pattern != "" && info.Kind == gen.KindString {
		g.Add(check("CheckPattern", jen.Id("v"), jen.Lit(field.Pattern)))
	}
}

// decodeArray appends the decode statements for an array property.
func (t *Target) decodeArray(g *jen.Group, typ *gen.Type, field *gen.Field, target *jen.Statement, check func(string, ...jen.Code) jen.Code) {
	info := field.Info
	if field.UniqueItems {
		g.Var().Id("anyItems").Index().Any()
		g.If(
			jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("anyItems")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err()))
		g.Add(check("CheckUniqueItems", jen.Id("anyItems")))
	}
	lenChecks := func(g *jen.Group, lenOf jen.Code) {
		if field.MinItems != nil {
			g.Add(check("CheckMinItems", jen.Len(lenOf), jen.Lit(int(*field.MinItems))))
		}
		if field.MaxItems != nil {
			g.Add(check("CheckMaxItems", jen.Len(lenOf), jen.Lit(int(*field.MaxItems))))
		}
	}
	if t.simpleDecode(info.Item) {
		g.Var().Id("v").Index().Add(t.elemType(info.Item))
		g.If(
			jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("v")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err()))
		lenChecks(g, jen.Id("v"))
		g.Add(target.Clone().Op("=").Id("v"))
		return
	}
	g.Var().Id("items").Index().Qual(jsonPkg, "RawMessage")
	g.If(
		jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id("raw"), jen.Op("&").Id("items")),
		jen.Err().Op("!=").Nil(),
	).Block(jen.Return(jen.Err()))
	lenChecks(g, jen.Id("items"))
	g.Id("v").Op(":=").Make(jen.Index().Add(t.elemType(info.Item)), jen.Lit(0), jen.Len(jen.Id("items")))
	g.For(jen.List(jen.Id("_"), jen.Id("item")).Op(":=").Range().Id("items")).BlockFunc(func(g *jen.Group) {
		t.decodeElem(g, info.Item, "item", "n", 1)
		g.Id("v").Op("=").Append(jen.Id("v"), jen.Id("n"))
	})
	g.Add(target.Clone().Op("=").Id("v"))
}

// decodeElem emits the statements decoding one array element held in
// the raw member src into a new variable dst. Nested arrays recurse
// with depth-suffixed identifiers so the generated loops never shadow
// each other.
func (t *Target) decodeElem(g *jen.Group, info *gen.TypeInfo, src, dst string, depth int) {
	switch {
	case info.Kind == gen.KindArray:
		inner := fmt.Sprintf("items%d", depth)
		item := fmt.Sprintf("item%d", depth)
		sub := fmt.Sprintf("n%d", depth)
		g.Var().Id(inner).Index().Qual(jsonPkg, "RawMessage")
		g.If(
			jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id(src), jen.Op("&").Id(inner)),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err()))
		g.Id(dst).Op(":=").Make(jen.Index().Add(t.elemType(info.Item)), jen.Lit(0), jen.Len(jen.Id(inner)))
		g.For(jen.List(jen.Id("_"), jen.Id(item)).Op(":=").Range().Id(inner)).BlockFunc(func(g *jen.Group) {
			t.decodeElem(g, info.Item, item, sub, depth+1)
			g.Id(dst).Op("=").Append(jen.Id(dst), jen.Id(sub))
		})
	case info.Kind == gen.KindNode && t.graph.Node(info.Ref).Abstract,
		info.Kind == gen.KindUnion && info.Ref != "":
		g.List(jen.Id(dst), jen.Err()).Op(":=").Id("Decode" + t.refIdent(info)).Call(jen.Id(src))
		g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err()))
	default:
		g.Var().Id(dst).Add(t.goType(info, false))
		g.If(
			jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id(src), jen.Op("&").Id(dst)),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err()))
	}
}

// scalarType returns the Go scalar for a primitive kind.
func scalarType(k gen.Kind) jen.Code {
	switch k {
	case gen.KindString:
		return jen.String()
	case gen.KindNumber:
		return jen.Float64()
	case gen.KindInteger:
		return jen.Int64()
	case gen.KindBoolean:
		return jen.Bool()
	}
	return jen.Any()
}

// aliasTable collects alias -> canonical mappings over the flattened
// fields, sorted for deterministic emission.
func aliasTable(typ *gen.Type) map[string]string {
	out := make(map[string]string)
	for _, field := range typ.Fields {
		for _, alias := range field.Aliases {
			out[alias] = field.Name
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
