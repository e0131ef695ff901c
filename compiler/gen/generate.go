package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

type (
	// NodeEmitter produces the struct and codec files for one
	// flattened concrete type.
	NodeEmitter interface {
		EmitNode(t *Type) (*jen.File, error)
		EmitCodec(t *Type) (*jen.File, error)
	}

	// AbstractEmitter optionally produces a file for an abstract
	// type, typically an interface its descendants implement.
	AbstractEmitter interface {
		EmitAbstract(t *Type) (*jen.File, error)
	}

	// EnumEmitter produces the file for one closed enumeration.
	EnumEmitter interface {
		EmitEnum(e *Enum) (*jen.File, error)
	}

	// UnionEmitter produces the interface and dispatch file for one
	// union.
	UnionEmitter interface {
		EmitUnion(u *Union) (*jen.File, error)
	}

	// FormatEmitter optionally produces a per-format encoder file for
	// a type. Returning a nil file means the type carries no hint for
	// that format and nothing is emitted.
	FormatEmitter interface {
		EmitFormat(t *Type, format string) (*jen.File, error)
	}

	// RegistryEmitter optionally produces a registry file mapping
	// type names to decoders across the whole graph.
	RegistryEmitter interface {
		EmitRegistry(g *Graph) (*jen.File, error)
	}

	// OverrideReporter optionally reports external override
	// obligations accumulated during emission: encoders a hint opted
	// out of deriving, which a human must supply.
	OverrideReporter interface {
		Overrides() []ExternalOverride
	}

	// ExternalOverride names an encoder the generator stubbed instead
	// of deriving.
	ExternalOverride struct {
		Type   string `json:"type"`
		Format string `json:"format"`
	}

	// Generator fans emission over a graph out to an emitter,
	// detecting optional capabilities through type assertions.
	Generator struct {
		*Config
		graph   *Graph
		emitter NodeEmitter
	}

	// Result summarizes one generation run.
	Result struct {
		// Files are the emitted file names relative to the target
		// directory, sorted.
		Files []string
		// Overrides are the external override obligations.
		Overrides []ExternalOverride
	}
)

// NewGenerator pairs a graph with an emitter.
func NewGenerator(graph *Graph, emitter NodeEmitter) *Generator {
	return &Generator{Config: graph.Config, graph: graph, emitter: emitter}
}

// Generate emits all files for the graph into the target directory.
// Concrete types, enums and unions are emitted in parallel, bounded
// by Workers; the first failure cancels the run.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if g.Target == "" {
		return nil, NewConfigError("Target", nil, "target directory is required")
	}
	if err := os.MkdirAll(g.Target, 0o755); err != nil {
		return nil, NewGenerationError("setup", g.Target, "creating target directory", err)
	}

	var (
		mu    sync.Mutex
		files []string
	)
	record := func(name string, f *jen.File) error {
		if err := g.write(name, f); err != nil {
			return err
		}
		mu.Lock()
		files = append(files, name)
		mu.Unlock()
		return nil
	}

	grp, _ := errgroup.WithContext(ctx)
	if g.Workers > 0 {
		grp.SetLimit(g.Workers)
	}
	for _, t := range g.graph.ConcreteNodes() {
		t := t
		grp.Go(func() error { return g.emitType(t, record) })
	}
	if ae, ok := g.emitter.(AbstractEmitter); ok {
		for _, t := range g.graph.Nodes {
			if !t.Abstract {
				continue
			}
			t := t
			grp.Go(func() error {
				f, err := ae.EmitAbstract(t)
				if err != nil {
					return NewGenerationError("abstract", t.Name, "", err)
				}
				if f == nil {
					return nil
				}
				return record(t.Label()+".go", f)
			})
		}
	}
	if ee, ok := g.emitter.(EnumEmitter); ok {
		for _, e := range g.graph.Enums {
			e := e
			grp.Go(func() error {
				f, err := ee.EmitEnum(e)
				if err != nil {
					return NewGenerationError("enum", e.Name, "", err)
				}
				return record(e.Label()+".go", f)
			})
		}
	}
	if ue, ok := g.emitter.(UnionEmitter); ok {
		for _, u := range g.graph.Unions {
			u := u
			grp.Go(func() error {
				f, err := ue.EmitUnion(u)
				if err != nil {
					return NewGenerationError("union", u.Name, "", err)
				}
				return record(u.Label()+".go", f)
			})
		}
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	if re, ok := g.emitter.(RegistryEmitter); ok {
		f, err := re.EmitRegistry(g.graph)
		if err != nil {
			return nil, NewGenerationError("registry", "", "", err)
		}
		if err := record("registry.go", f); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	if or, ok := g.emitter.(OverrideReporter); ok {
		res.Overrides = or.Overrides()
		sort.Slice(res.Overrides, func(i, j int) bool {
			a, b := res.Overrides[i], res.Overrides[j]
			if a.Type != b.Type {
				return a.Type < b.Type
			}
			return a.Format < b.Format
		})
	}
	sort.Strings(files)
	res.Files = files

	if err := g.finish(res); err != nil {
		return nil, err
	}
	return res, nil
}

// emitType writes the struct, codec and per-format encoder files for
// one concrete type.
func (g *Generator) emitType(t *Type, record func(string, *jen.File) error) error {
	f, err := g.emitter.EmitNode(t)
	if err != nil {
		return NewGenerationError("node", t.Name, "", err)
	}
	if err := record(t.Label()+".go", f); err != nil {
		return err
	}
	codec, err := g.emitter.EmitCodec(t)
	if err != nil {
		return NewGenerationError("codec", t.Name, "", err)
	}
	if err := record(t.Label()+"_codec.go", codec); err != nil {
		return err
	}
	fe, ok := g.emitter.(FormatEmitter)
	if !ok {
		return nil
	}
	for _, format := range g.EmitFormats() {
		ff, err := fe.EmitFormat(t, format)
		if err != nil {
			return NewGenerationError("format", t.Name, format, err)
		}
		if ff == nil {
			continue
		}
		if err := record(t.Label()+"_"+format+".go", ff); err != nil {
			return err
		}
	}
	return nil
}

// finish writes the snapshot and manifest for enabled features and
// removes artifacts of disabled ones.
func (g *Generator) finish(res *Result) error {
	if enabled, err := g.FeatureEnabled(FeatureSnapshot.Name); err != nil {
		return err
	} else if enabled {
		if err := WriteSnapshot(filepath.Join(g.Target, SnapshotFile), g.graph); err != nil {
			return NewGenerationError("snapshot", SnapshotFile, "", err)
		}
		res.Files = append(res.Files, SnapshotFile)
	}
	if enabled, err := g.FeatureEnabled(FeatureManifest.Name); err != nil {
		return err
	} else if enabled {
		m := NewManifest(g.graph.Digest, res.Files, res.Overrides)
		if err := m.Write(filepath.Join(g.Target, ManifestFile)); err != nil {
			return NewGenerationError("manifest", ManifestFile, "", err)
		}
		res.Files = append(res.Files, ManifestFile)
	}
	sort.Strings(res.Files)
	return g.Cleanup()
}

// write renders a jennifer file into the target directory. The
// rendered source runs through imports.Process so import grouping is
// normalized across emitters.
func (g *Generator) write(name string, f *jen.File) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", name, "", err)
	}
	src, err := imports.Process(name, buf.Bytes(), nil)
	if err != nil {
		return NewGenerationError("render", name, "normalizing imports", err)
	}
	path := filepath.Join(g.Target, name)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return NewGenerationError("write", name, "", err)
	}
	return nil
}
