package golang

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/nodegen/nodegen"
	"github.com/nodegen/nodegen/compiler/gen"
)

// formatIdents maps format names to the identifier suffix of the
// emitted Encode methods.
var formatIdents = map[string]string{
	"dom":      "DOM",
	"html":     "HTML",
	"jats":     "JATS",
	"latex":    "Latex",
	"markdown": "Markdown",
}

// EmitFormat produces the per-format encoder file for a type carrying
// the matching hint block. A hint with derive:false yields a stub
// that fails until replaced by a hand-written encoder, recorded as an
// external override obligation. Types without the hint get no file.
func (t *Target) EmitFormat(typ *gen.Type, format string) (*jen.File, error) {
	raw, ok := typ.HintFor(format)
	if !ok {
		return nil, nil
	}
	suffix, ok := formatIdents[format]
	if !ok {
		return nil, fmt.Errorf("golang: unknown format %q", format)
	}
	hints, err := nodegen.ParseFormatHints(raw)
	if err != nil {
		return nil, fmt.Errorf("golang: %s hint block of %s: %w", format, typ.Name, err)
	}

	f := t.file()
	r := typ.Receiver()
	method := "Encode" + suffix

	if hints.Derive != nil && !*hints.Derive {
		t.recordOverride(typ.Name, format)
		f.Comment(method + " is a stub: the schema opts this type out of the derived")
		f.Comment(format + " encoder. Replace this file with a hand-written encoder.")
		f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id(method).Params(jen.Id("w").Qual("io", "Writer")).Error().Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(
				jen.Lit(t.pkg + ": " + format + " encoding of " + typ.Name + " requires a hand-written encoder"),
			)),
		)
		return f, nil
	}

	hintsVar := lowerCamel(typ.Ident()) + suffix + "Hints"
	f.Comment(hintsVar + " steers the derived " + format + " encoder.")
	f.Var().Id(hintsVar).Op("=").Qual(runtimePkg, "FormatHints").Values(jen.DictFunc(func(d jen.Dict) {
		if hints.Elem != "" {
			d[jen.Id("Elem")] = jen.Lit(hints.Elem)
		}
		if len(hints.Attrs) > 0 {
			d[jen.Id("Attrs")] = jen.Map(jen.String()).String().Values(jen.DictFunc(func(a jen.Dict) {
				for k, v := range hints.Attrs {
					a[jen.Lit(k)] = jen.Lit(v)
				}
			}))
		}
		if hints.Template != "" {
			d[jen.Id("Template")] = jen.Lit(hints.Template)
		}
	}))

	f.Comment(method + " writes the " + format + " encoding of the node.")
	f.Func().Params(jen.Id(r).Op("*").Id(typ.Ident())).Id(method).Params(jen.Id("w").Qual("io", "Writer")).Error().Block(
		jen.Return(jen.Qual(runtimePkg, "EncodeFormat").Call(
			jen.Id("w"), jen.Lit(format), jen.Lit(typ.Name), jen.Id(hintsVar),
			jen.Id(r).Dot("canonicalFields").Call(),
		)),
	)
	return f, nil
}
