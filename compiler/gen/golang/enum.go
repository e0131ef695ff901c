package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/nodegen/nodegen/compiler/gen"
)

// EmitEnum produces the file for a closed enumeration: a string-based
// type, one constant per variant, the variant table, a validating
// decoder and a default accessor when the schema declares one.
func (t *Target) EmitEnum(e *gen.Enum) (*jen.File, error) {
	f := t.file()

	if desc := e.Description(); desc != "" {
		f.Comment(e.Ident() + " is " + lowerFirstWord(desc))
	}
	f.Type().Id(e.Ident()).String()

	f.Comment(e.Ident() + " variants.")
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, v := range e.Variants {
			if v.Description != "" {
				g.Comment(v.Description)
			}
			g.Id(e.Ident() + v.Name).Id(e.Ident()).Op("=").Lit(v.Value)
		}
	})

	variantsVar := lowerCamel(e.Ident()) + "Variants"
	f.Var().Id(variantsVar).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, v := range e.Variants {
			g.Lit(v.Value)
		}
	})

	if e.Default != "" {
		var name string
		for _, v := range e.Variants {
			if v.Value == e.Default {
				name = v.Name
				break
			}
		}
		f.Comment("Default" + e.Ident() + " returns the declared default variant.")
		f.Func().Id("Default"+e.Ident()).Params().Id(e.Ident()).Block(
			jen.Return(jen.Id(e.Ident() + name)),
		)
	}

	f.Comment("String returns the wire literal.")
	f.Func().Params(jen.Id("v").Id(e.Ident())).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id("v"))),
	)

	f.Comment("UnmarshalJSON validates the literal against the declared variants.")
	f.Comment("An unknown literal fails the decode; it never falls back to the default.")
	f.Func().Params(jen.Id("v").Op("*").Id(e.Ident())).Id("UnmarshalJSON").Params(jen.Id("data").Index().Byte()).Error().Block(
		jen.Var().Id("s").String(),
		jen.If(
			jen.Err().Op(":=").Qual(jsonPkg, "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("s")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())),
		jen.If(
			jen.Err().Op(":=").Qual(runtimePkg, "CheckEnum").Call(jen.Lit(e.Name), jen.Id("s"), jen.Id(variantsVar)),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())),
		jen.Op("*").Id("v").Op("=").Id(e.Ident()).Call(jen.Id("s")),
		jen.Return(jen.Nil()),
	)
	return f, nil
}
