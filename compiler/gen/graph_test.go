package gen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodegen/nodegen/compiler/load"
)

// corpusGraph builds the graph over the shared document corpus.
func corpusGraph(t *testing.T) *Graph {
	t.Helper()
	corpus, err := load.New().Load(context.Background(), "../load/testdata/corpus")
	require.NoError(t, err)
	g, err := NewGraphFromCorpus(MustNewConfig(), corpus)
	require.NoError(t, err)
	return g
}

// schema parses one inline document.
func schema(t *testing.T, body string) *load.Schema {
	t.Helper()
	s, err := load.UnmarshalSchema("inline.schema.json", []byte(body))
	require.NoError(t, err)
	return s
}

func TestNewGraph(t *testing.T) {
	g := corpusGraph(t)

	t.Run("partitions the corpus", func(t *testing.T) {
		assert.Len(t, g.Nodes, 11)
		assert.Len(t, g.Unions, 3)
		assert.Len(t, g.Enums, 2)
		assert.NotEmpty(t, g.Digest)
		assert.Len(t, g.ConcreteNodes(), 6)
	})

	t.Run("flattens the inheritance chain root to leaf", func(t *testing.T) {
		chunk := g.Node("CodeChunk")
		require.NotNil(t, chunk)
		var ancestors []string
		for _, a := range chunk.Ancestors {
			ancestors = append(ancestors, a.Name)
		}
		assert.Equal(t, []string{"Entity", "Executable", "CodeExecutable"}, ancestors)
		assert.Len(t, chunk.Fields, 8)

		mode := chunk.Field("executionMode")
		require.NotNil(t, mode)
		assert.True(t, mode.Inherited)
		assert.Equal(t, "Executable", mode.DeclaredBy)
		assert.Equal(t, KindEnum, mode.Info.Kind)
		assert.Equal(t, "ExecutionMode", mode.Info.Ref)
		assert.Equal(t, []string{"execution-mode", "execution_mode"}, mode.Aliases)

		code := chunk.Field("code")
		require.NotNil(t, code)
		assert.True(t, code.Strip)
		assert.True(t, chunk.Required("code"))
		assert.True(t, chunk.Core("programmingLanguage"))
	})

	t.Run("accumulates core membership", func(t *testing.T) {
		av := g.Node("ArrayValidator")
		require.NotNil(t, av)
		assert.Len(t, av.Fields, 7)
		assert.Len(t, av.CoreFields(), 7)
		assert.True(t, av.Core("id"), "core membership inherited from the root")

		validator := av.Field("itemsValidator")
		require.NotNil(t, validator)
		assert.Equal(t, KindNode, validator.Info.Kind)
		assert.Equal(t, "Validator", validator.Info.Ref)
	})

	t.Run("resolves arrays and inline unions", func(t *testing.T) {
		chunk := g.Node("CodeChunk")
		outputs := chunk.Field("outputs")
		require.NotNil(t, outputs)
		assert.Equal(t, KindArray, outputs.Info.Kind)
		assert.Equal(t, KindUnion, outputs.Info.Item.Kind)
		assert.Equal(t, "Node", outputs.Info.Item.Ref)

		label := chunk.Field("label")
		require.NotNil(t, label)
		assert.Equal(t, KindUnion, label.Info.Kind)
		assert.Empty(t, label.Info.Ref)
		require.Len(t, label.Info.Members, 2)
		assert.Equal(t, KindString, label.Info.Members[0].Kind)
		assert.Equal(t, KindInteger, label.Info.Members[1].Kind)
	})

	t.Run("extension side-map follows the schema opt-in", func(t *testing.T) {
		assert.True(t, g.Node("Article").AllowsExtra())
		assert.False(t, g.Node("Paragraph").AllowsExtra())
	})

	t.Run("expands union members in declaration order", func(t *testing.T) {
		node := g.Union("Node")
		require.NotNil(t, node)
		assert.Equal(t, []string{"Article", "CodeChunk", "Emphasis", "Paragraph", "Text"}, node.MemberNames())
		assert.True(t, node.Has("Paragraph"))
		assert.False(t, node.Has("NotAType"))

		block := g.Union("Block")
		require.NotNil(t, block)
		assert.Equal(t, []string{"CodeChunk", "Paragraph"}, block.MemberNames())
	})

	t.Run("classifies closed enumerations", func(t *testing.T) {
		mode := g.Enum("ExecutionMode")
		require.NotNil(t, mode)
		assert.Len(t, mode.Variants, 5)
		assert.Equal(t, "Default", mode.Default)

		prov := g.Enum("ProvenanceCategory")
		require.NotNil(t, prov)
		assert.Len(t, prov.Variants, 17)
		assert.Equal(t, "Hw", prov.Default)
		assert.True(t, prov.Has("MwMeMv"))
		assert.False(t, prov.Has("Unknown"))
	})
}

func TestNewGraphErrors(t *testing.T) {
	t.Run("unresolved extends", func(t *testing.T) {
		_, err := NewGraph(nil, schema(t, `{"title": "Orphan", "extends": "Missing", "type": "object"}`))
		require.Error(t, err)
		assert.True(t, IsUnresolvedReferenceError(err))
		var ue *UnresolvedReferenceError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "Orphan", ue.Referrer)
		assert.Equal(t, "Missing", ue.Target)
	})

	t.Run("unresolved property ref names the property", func(t *testing.T) {
		_, err := NewGraph(nil, schema(t, `{"title": "Holder", "properties": {"item": {"$ref": "Missing"}}}`))
		require.Error(t, err)
		var ue *UnresolvedReferenceError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "Holder", ue.Referrer)
		assert.Equal(t, "item", ue.Property)
		assert.Equal(t, "Missing", ue.Target)
	})

	t.Run("inheritance cycle is named in order", func(t *testing.T) {
		a := schema(t, `{"title": "Alpha", "extends": "Beta", "type": "object"}`)
		b := schema(t, `{"title": "Beta", "extends": "Alpha", "type": "object"}`)
		_, err := NewGraph(nil, a, b)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCyclicInheritance)
		var ce *CyclicInheritanceError
		require.ErrorAs(t, err, &ce)
		require.Len(t, ce.Cycle, 3)
		assert.Equal(t, ce.Cycle[0], ce.Cycle[2])
	})

	t.Run("mixed union members", func(t *testing.T) {
		a := schema(t, `{"title": "Atom", "type": "object"}`)
		mixed := schema(t, `{"title": "Mixed", "anyOf": [{"const": "One"}, {"$ref": "Atom"}]}`)
		_, err := NewGraph(nil, a, mixed)
		require.Error(t, err)
		assert.True(t, IsMalformedUnionError(err))
	})

	t.Run("enum default must be a variant", func(t *testing.T) {
		e := schema(t, `{"title": "Mood", "default": "Angry", "anyOf": [{"const": "Happy"}, {"const": "Sad"}]}`)
		_, err := NewGraph(nil, e)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedUnion)
		assert.Contains(t, err.Error(), "Angry")
	})

	t.Run("abstract union member", func(t *testing.T) {
		base := schema(t, `{"title": "Base", "abstract": true, "type": "object"}`)
		u := schema(t, `{"title": "Sum", "anyOf": [{"$ref": "Base"}]}`)
		_, err := NewGraph(nil, base, u)
		require.Error(t, err)
		assert.True(t, IsMalformedUnionError(err))
	})

	t.Run("alias colliding with a property", func(t *testing.T) {
		s := schema(t, `{"title": "Clash", "properties": {"name": {"type": "string"}, "label": {"type": "string", "aliases": ["name"]}}}`)
		_, err := NewGraph(nil, s)
		require.Error(t, err)
		var se *load.SchemaShapeError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Clash", se.Title)
	})

	t.Run("required names an unknown property", func(t *testing.T) {
		s := schema(t, `{"title": "Gap", "required": ["missing"], "properties": {"present": {"type": "string"}}}`)
		_, err := NewGraph(nil, s)
		require.Error(t, err)
		var se *load.SchemaShapeError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "missing", se.Property)
	})

	t.Run("duplicate titles", func(t *testing.T) {
		a := schema(t, `{"title": "Twin", "type": "object"}`)
		b := schema(t, `{"title": "Twin", "type": "object"}`)
		_, err := NewGraph(nil, a, b)
		require.Error(t, err)
		assert.ErrorIs(t, err, load.ErrDuplicateType)
	})
}

func TestFieldOverride(t *testing.T) {
	parent := schema(t, `{"title": "Parent", "properties": {"count": {"type": "integer", "minimum": 0, "aliases": ["tally"]}}}`)
	child := schema(t, `{"title": "Child", "extends": "Parent", "properties": {"count": {"type": "number"}}}`)
	g, err := NewGraph(nil, parent, child)
	require.NoError(t, err)

	f := g.Node("Child").Field("count")
	require.NotNil(t, f)
	assert.False(t, f.Inherited, "redeclaration wins over the inherited field")
	assert.Equal(t, "Child", f.DeclaredBy)
	assert.Equal(t, KindNumber, f.Info.Kind)
	assert.Nil(t, f.Minimum, "constraints do not merge across the override")
	assert.Empty(t, f.Aliases, "aliases do not merge across the override")

	// The parent keeps its own declaration untouched.
	pf := g.Node("Parent").Field("count")
	assert.Equal(t, KindInteger, pf.Info.Kind)
	assert.Equal(t, []string{"tally"}, pf.Aliases)
}
