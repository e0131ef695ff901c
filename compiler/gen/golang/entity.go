package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/nodegen/nodegen/compiler/gen"
)

// EmitNode produces the struct file for a concrete type: the field
// declarations, the NodeType discriminant accessor, the marker
// methods tying the type into its abstract ancestors and unions, and
// a Strip method when the schema marks properties strippable.
func (t *Target) EmitNode(typ *gen.Type) (*jen.File, error) {
	f := t.file()
	r := typ.Receiver()

	if desc := typ.Description(); desc != "" {
		f.Comment(typ.Ident() + " is " + lowerFirstWord(desc))
	}
	f.Type().Id(typ.Ident()).StructFunc(func(g *jen.Group) {
		for _, field := range typ.Fields {
			if field.Description != "" {
				g.Comment(field.Description)
			}
			tag := field.Name
			if field.Optional(typ) {
				tag += ",omitempty"
			}
			g.Id(field.Ident()).Add(t.goType(field.Info, field.Optional(typ))).Tag(map[string]string{"json": tag})
		}
		if typ.AllowsExtra() {
			g.Line()
			g.Comment("Extra holds properties beyond the declared set.")
			g.Id("Extra").Qual(runtimePkg, "Extra").Tag(map[string]string{"json": "-"})
		}
	})

	f.Comment("NodeType returns the type discriminant written on the wire.")
	f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id("NodeType").Params().String().Block(
		jen.Return(jen.Lit(typ.Name)),
	)

	for _, anc := range t.abstractAncestors(typ) {
		f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id("is" + anc.Ident()).Params().Block()
	}
	for _, u := range t.memberOf(typ) {
		f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id("is" + u.Ident()).Params().Block()
	}

	var strippable []*gen.Field
	for _, field := range typ.Fields {
		if field.Strip {
			strippable = append(strippable, field)
		}
	}
	if len(strippable) > 0 {
		f.Comment("Strip clears the properties the schema marks strippable.")
		f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id("Strip").Params().BlockFunc(func(g *jen.Group) {
			for _, field := range strippable {
				g.Id(r).Dot(field.Ident()).Op("=").Add(t.zeroValue(field.Info, field.Optional(typ)))
			}
		})
	}
	return f, nil
}

// EmitAbstract produces the interface for an abstract type, plus a
// decode helper that dispatches through the registry and checks the
// result satisfies the interface.
func (t *Target) EmitAbstract(typ *gen.Type) (*jen.File, error) {
	f := t.file()

	if desc := typ.Description(); desc != "" {
		f.Comment(typ.Ident() + " is " + lowerFirstWord(desc))
	}
	f.Type().Id(typ.Ident()).Interface(
		jen.Id("NodeType").Params().String(),
		jen.Id("is"+typ.Ident()).Params(),
	)

	f.Comment("Decode" + typ.Ident() + " decodes a node by its \"type\" discriminant and")
	f.Comment("checks that it extends " + typ.Name + ".")
	f.Func().Id("Decode"+typ.Ident()).Params(jen.Id("data").Index().Byte()).Params(jen.Id(typ.Ident()), jen.Error()).Block(
		jen.List(jen.Id("v"), jen.Err()).Op(":=").Id("Decode").Call(jen.Id("data")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.List(jen.Id("n"), jen.Id("ok")).Op(":=").Id("v").Assert(jen.Id(typ.Ident())),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Nil(), jen.Op("&").Qual(runtimePkg, "UnknownTypeError").Values(jen.Dict{
				jen.Id("Union"): jen.Lit(typ.Name),
				jen.Id("Type"):  jen.Id("v").Assert(jen.Interface(jen.Id("NodeType").Params().String())).Dot("NodeType").Call(),
			})),
		),
		jen.Return(jen.Id("n"), jen.Nil()),
	)
	return f, nil
}

// lowerFirstWord adjusts a schema description so it reads naturally
// after "X is".
func lowerFirstWord(desc string) string {
	r := []rune(desc)
	if len(r) > 1 && r[1] >= 'a' && r[1] <= 'z' && r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] + ('a' - 'A')
	}
	return string(r)
}
