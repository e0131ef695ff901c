// Package golang emits Go source for a resolved type graph: one
// struct per concrete node with a canonical codec, string-based
// enumerations, interface-backed unions and per-format encoders
// driven by the schema hint blocks.
package golang

import (
	"path"
	"sync"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/nodegen/nodegen/compiler/gen"
)

const (
	runtimePkg = "github.com/nodegen/nodegen"
	jsonPkg    = "github.com/goccy/go-json"
)

// Target emits Go source. It implements the emitter capabilities the
// generator probes for, including override reporting for encoders
// the schema opted out of deriving.
type Target struct {
	graph *gen.Graph
	pkg   string

	mu        sync.Mutex
	overrides []gen.ExternalOverride
}

// New creates a Target for the graph. The generated package name is
// the base of the configured package path.
func New(graph *gen.Graph) *Target {
	pkg := path.Base(graph.Package)
	if pkg == "" || pkg == "." {
		pkg = "nodes"
	}
	return &Target{graph: graph, pkg: pkg}
}

// file opens a jennifer file with the configured header and the
// import names the emitted code relies on.
func (t *Target) file() *jen.File {
	var f *jen.File
	if t.graph.Package != "" {
		f = jen.NewFilePathName(t.graph.Package, t.pkg)
	} else {
		f = jen.NewFile(t.pkg)
	}
	f.ImportName(jsonPkg, "json")
	f.ImportName(runtimePkg, "nodegen")
	if t.graph.Header != "" {
		f.HeaderComment(t.graph.Header)
	}
	return f
}

// Overrides returns the external override obligations recorded while
// emitting format encoders.
func (t *Target) Overrides() []gen.ExternalOverride {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]gen.ExternalOverride(nil), t.overrides...)
}

func (t *Target) recordOverride(typeName, format string) {
	t.mu.Lock()
	t.overrides = append(t.overrides, gen.ExternalOverride{Type: typeName, Format: format})
	t.mu.Unlock()
}

// abstractAncestors returns the abstract types along the chain, whose
// interfaces the emitted struct must satisfy.
func (t *Target) abstractAncestors(typ *gen.Type) []*gen.Type {
	var out []*gen.Type
	for _, a := range typ.Ancestors {
		if a.Abstract {
			out = append(out, a)
		}
	}
	return out
}

// memberOf returns the unions the type belongs to.
func (t *Target) memberOf(typ *gen.Type) []*gen.Union {
	var out []*gen.Union
	for _, u := range t.graph.Unions {
		if u.Has(typ.Name) {
			out = append(out, u)
		}
	}
	return out
}

// lowerCamel converts an exported identifier to its unexported form,
// lowercasing a leading acronym whole.
func lowerCamel(ident string) string {
	r := []rune(ident)
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	if i == 0 {
		return ident
	}
	if i > 1 && i < len(r) {
		i--
	}
	for j := 0; j < i; j++ {
		r[j] = unicode.ToLower(r[j])
	}
	return string(r)
}

// decodeFunc names the unexported per-type decode function shared by
// the registry and the union dispatch tables.
func decodeFunc(typ *gen.Type) string {
	return "decode" + typ.Ident()
}
