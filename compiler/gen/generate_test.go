package gen

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmitter emits minimal files so the orchestration can be tested
// without a real backend.
type stubEmitter struct {
	mu        sync.Mutex
	overrides []ExternalOverride
}

func (s *stubEmitter) file(decl string) *jen.File {
	f := jen.NewFile("nodes")
	f.Comment(decl)
	return f
}

func (s *stubEmitter) EmitNode(t *Type) (*jen.File, error)   { return s.file("node " + t.Name), nil }
func (s *stubEmitter) EmitCodec(t *Type) (*jen.File, error)  { return s.file("codec " + t.Name), nil }
func (s *stubEmitter) EmitEnum(e *Enum) (*jen.File, error)   { return s.file("enum " + e.Name), nil }
func (s *stubEmitter) EmitUnion(u *Union) (*jen.File, error) { return s.file("union " + u.Name), nil }

func (s *stubEmitter) EmitFormat(t *Type, format string) (*jen.File, error) {
	hint, ok := t.HintFor(format)
	if !ok {
		return nil, nil
	}
	if string(hint) == `{"derive": false}` {
		s.mu.Lock()
		s.overrides = append(s.overrides, ExternalOverride{Type: t.Name, Format: format})
		s.mu.Unlock()
	}
	return s.file("format " + t.Name + " " + format), nil
}

func (s *stubEmitter) Overrides() []ExternalOverride {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ExternalOverride(nil), s.overrides...)
}

func TestGenerate(t *testing.T) {
	g := corpusGraph(t)
	g.Config.Target = t.TempDir()
	g.Config.Workers = 4
	g.Config.Features = []Feature{FeatureManifest}

	emitter := &stubEmitter{}
	res, err := NewGenerator(g, emitter).Generate(context.Background())
	require.NoError(t, err)

	t.Run("emits structs and codecs per concrete type", func(t *testing.T) {
		assert.Contains(t, res.Files, "code_chunk.go")
		assert.Contains(t, res.Files, "code_chunk_codec.go")
		assert.Contains(t, res.Files, "article.go")
		assert.NotContains(t, res.Files, "entity.go", "abstract types have no struct file")
	})

	t.Run("emits unions and enums", func(t *testing.T) {
		assert.Contains(t, res.Files, "node.go")
		assert.Contains(t, res.Files, "block.go")
		assert.Contains(t, res.Files, "execution_mode.go")
		assert.Contains(t, res.Files, "provenance_category.go")
	})

	t.Run("format files follow the hint blocks", func(t *testing.T) {
		assert.Contains(t, res.Files, "paragraph_html.go")
		assert.Contains(t, res.Files, "paragraph_latex.go")
		assert.Contains(t, res.Files, "code_chunk_markdown.go")
		assert.NotContains(t, res.Files, "text_latex.go", "no latex hint on Text")
	})

	t.Run("collects override obligations", func(t *testing.T) {
		require.Len(t, res.Overrides, 1)
		assert.Equal(t, ExternalOverride{Type: "Paragraph", Format: "latex"}, res.Overrides[0])
	})

	t.Run("writes the manifest", func(t *testing.T) {
		assert.Contains(t, res.Files, ManifestFile)
		m, err := ReadManifest(filepath.Join(g.Target, ManifestFile))
		require.NoError(t, err)
		assert.NotEmpty(t, m.RunID)
		assert.Equal(t, g.Digest, m.Digest)
		assert.Equal(t, res.Overrides, m.Overrides)
	})

	t.Run("every reported file exists on disk", func(t *testing.T) {
		for _, name := range res.Files {
			_, err := os.Stat(filepath.Join(g.Target, name))
			assert.NoError(t, err, name)
		}
	})

	t.Run("snapshot is cleaned up when disabled", func(t *testing.T) {
		assert.NotContains(t, res.Files, SnapshotFile)
		_, err := os.Stat(filepath.Join(g.Target, SnapshotFile))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestGenerateSnapshotFeature(t *testing.T) {
	g := corpusGraph(t)
	g.Config.Target = t.TempDir()
	g.Config.Features = []Feature{FeatureSnapshot}

	res, err := NewGenerator(g, &stubEmitter{}).Generate(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res.Files, SnapshotFile)

	s, err := ReadSnapshot(filepath.Join(g.Target, SnapshotFile))
	require.NoError(t, err)
	assert.False(t, s.Stale(g.Digest))
}

func TestGenerateRequiresTarget(t *testing.T) {
	g := corpusGraph(t)
	_, err := NewGenerator(g, &stubEmitter{}).Generate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConfig)
}
