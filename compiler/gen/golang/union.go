package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/nodegen/nodegen/compiler/gen"
)

// EmitUnion produces the file for a union: an interface with a marker
// method, the dispatch table over member discriminants and a decode
// function failing on unknown types.
func (t *Target) EmitUnion(u *gen.Union) (*jen.File, error) {
	f := t.file()

	if desc := u.Description(); desc != "" {
		f.Comment(u.Ident() + " is " + lowerFirstWord(desc))
	}
	f.Type().Id(u.Ident()).Interface(
		jen.Id("NodeType").Params().String(),
		jen.Id("is"+u.Ident()).Params(),
	)

	tableVar := lowerCamel(u.Ident()) + "Decoders"
	f.Var().Id(tableVar).Op("=").Map(jen.String()).Func().Params(jen.Index().Byte()).Params(jen.Any(), jen.Error()).Values(jen.DictFunc(func(d jen.Dict) {
		for _, m := range u.Members {
			d[jen.Lit(m.Name)] = jen.Id(decodeFunc(m))
		}
	}))

	f.Comment("Decode" + u.Ident() + " decodes a member by its \"type\" discriminant. An")
	f.Comment("unknown discriminant fails; members are never guessed.")
	f.Func().Id("Decode"+u.Ident()).Params(jen.Id("data").Index().Byte()).Params(jen.Id(u.Ident()), jen.Error()).Block(
		jen.List(jen.Id("v"), jen.Err()).Op(":=").Qual(runtimePkg, "DecodeDiscriminated").Call(
			jen.Lit(u.Name), jen.Id("data"), jen.Id(tableVar),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Id("v").Assert(jen.Id(u.Ident())), jen.Nil()),
	)
	return f, nil
}

// EmitRegistry produces the graph-wide decode registry: one decode
// function per concrete type plus a Decode entry point dispatching on
// the "type" discriminant.
func (t *Target) EmitRegistry(g *gen.Graph) (*jen.File, error) {
	f := t.file()

	f.Comment("decoders maps every concrete type name to its decode function.")
	f.Var().Id("decoders").Op("=").Map(jen.String()).Func().Params(jen.Index().Byte()).Params(jen.Any(), jen.Error()).Values(jen.DictFunc(func(d jen.Dict) {
		for _, typ := range g.ConcreteNodes() {
			d[jen.Lit(typ.Name)] = jen.Id(decodeFunc(typ))
		}
	}))

	f.Comment("Decode decodes any concrete node by its \"type\" discriminant.")
	f.Func().Id("Decode").Params(jen.Id("data").Index().Byte()).Params(jen.Any(), jen.Error()).Block(
		jen.Return(jen.Qual(runtimePkg, "DecodeDiscriminated").Call(
			jen.Lit("node"), jen.Id("data"), jen.Id("decoders"),
		)),
	)

	for _, typ := range g.ConcreteNodes() {
		f.Func().Id(decodeFunc(typ)).Params(jen.Id("data").Index().Byte()).Params(jen.Any(), jen.Error()).Block(
			jen.Id("n").Op(":=").New(jen.Id(typ.Ident())),
			jen.If(
				jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id("data"), jen.Id("n")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Id("n"), jen.Nil()),
		)
	}
	return f, nil
}
