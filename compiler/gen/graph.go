package gen

import (
	"sort"

	"github.com/nodegen/nodegen/compiler/load"
)

// Graph is the flattened type graph built from a schema corpus:
// node types with inheritance resolved, unions with members expanded
// and closed enumerations, all keyed by title.
type Graph struct {
	*Config

	// Nodes are the flattened types, abstract ones included, sorted
	// by name. Emitters skip abstract entries.
	Nodes []*Type
	// Unions are the sums over node types, sorted by name.
	Unions []*Union
	// Enums are the closed enumerations, sorted by name.
	Enums []*Enum
	// Digest identifies the corpus the graph was built from. Set when
	// building from a load.Corpus; snapshots are keyed by it.
	Digest string

	schemas map[string]*load.Schema
	nodes   map[string]*Type
	unions  map[string]*Union
	enums   map[string]*Enum
}

// NewGraphFromCorpus builds the graph from a loaded corpus, carrying
// its digest for snapshot keying.
func NewGraphFromCorpus(c *Config, corpus *load.Corpus) (*Graph, error) {
	g, err := NewGraph(c, corpus.Schemas...)
	if err != nil {
		return nil, err
	}
	g.Digest = corpus.Digest
	return g, nil
}

// NewGraph resolves, flattens and classifies the given schemas. It
// fails fast: the first unresolved reference, inheritance cycle or
// malformed union aborts construction.
func NewGraph(c *Config, schemas ...*load.Schema) (*Graph, error) {
	if c == nil {
		c = &Config{}
	}
	g := &Graph{
		Config:  c,
		schemas: make(map[string]*load.Schema, len(schemas)),
		nodes:   make(map[string]*Type),
		unions:  make(map[string]*Union),
		enums:   make(map[string]*Enum),
	}
	for _, s := range schemas {
		if prev, ok := g.schemas[s.Title]; ok {
			return nil, &load.DuplicateTypeError{Title: s.Title, Paths: []string{prev.Path, s.Path}}
		}
		g.schemas[s.Title] = s
	}

	var typeDocs, unionDocs []*load.Schema
	for _, s := range schemas {
		if s.IsUnion() {
			unionDocs = append(unionDocs, s)
		} else {
			typeDocs = append(typeDocs, s)
		}
	}
	sortSchemas(typeDocs)
	sortSchemas(unionDocs)

	// Enums classify before flattening so property $refs to them
	// resolve; union member expansion waits for the flattened types.
	for _, s := range unionDocs {
		if err := g.classifyUnion(s); err != nil {
			return nil, err
		}
	}

	order, err := g.sortTypes(typeDocs)
	if err != nil {
		return nil, err
	}
	for _, s := range order {
		t, err := g.newType(s)
		if err != nil {
			return nil, err
		}
		g.nodes[s.Title] = t
	}
	for _, s := range typeDocs {
		g.Nodes = append(g.Nodes, g.nodes[s.Title])
	}

	for _, u := range g.Unions {
		if err := g.resolveMembers(u); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// sortTypes orders type schemas so every extends target precedes its
// extenders, reporting cycles by name.
func (g *Graph) sortTypes(docs []*load.Schema) ([]*load.Schema, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(docs))
	var (
		order []*load.Schema
		path  []string
		visit func(s *load.Schema) error
	)
	visit = func(s *load.Schema) error {
		switch state[s.Title] {
		case done:
			return nil
		case visiting:
			// Close the cycle at its first occurrence on the path.
			for i, name := range path {
				if name == s.Title {
					return &CyclicInheritanceError{Cycle: append(path[i:len(path):len(path)], s.Title)}
				}
			}
			return &CyclicInheritanceError{Cycle: []string{s.Title, s.Title}}
		}
		state[s.Title] = visiting
		path = append(path, s.Title)
		for _, parent := range s.Extends {
			target, ok := g.schemas[parent]
			if !ok {
				return NewUnresolvedReferenceError(s.Title, "", parent)
			}
			if target.IsUnion() {
				return NewUnresolvedReferenceError(s.Title, "", parent)
			}
			if err := visit(target); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[s.Title] = done
		order = append(order, s)
		return nil
	}
	for _, s := range docs {
		if err := visit(s); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// resolveProperty resolves one property declaration to a TypeInfo.
func (g *Graph) resolveProperty(owner string, p *load.Property) (*TypeInfo, error) {
	switch {
	case p.Ref != "":
		return g.resolveRef(owner, p.Name, p.Ref)
	case len(p.AnyOf) > 0:
		info := &TypeInfo{Kind: KindUnion}
		for _, m := range p.AnyOf {
			member, err := g.resolveMember(owner, p.Name, m)
			if err != nil {
				return nil, err
			}
			info.Members = append(info.Members, member)
		}
		return info, nil
	case p.Type == "array":
		info := &TypeInfo{Kind: KindArray}
		if p.Items == nil {
			info.Item = &TypeInfo{Kind: KindAny}
			return info, nil
		}
		item, err := g.resolveMember(owner, p.Name, p.Items)
		if err != nil {
			return nil, err
		}
		info.Item = item
		return info, nil
	case p.Type != "":
		kind, ok := primitiveKinds[p.Type]
		if !ok {
			return nil, NewUnresolvedReferenceError(owner, p.Name, p.Type)
		}
		return &TypeInfo{Kind: kind}, nil
	}
	return &TypeInfo{Kind: KindAny}, nil
}

// resolveMember resolves an items or anyOf member to a TypeInfo.
func (g *Graph) resolveMember(owner, property string, m *load.Member) (*TypeInfo, error) {
	switch {
	case m.Ref != "":
		return g.resolveRef(owner, property, m.Ref)
	case m.Type == "array":
		info := &TypeInfo{Kind: KindArray}
		if m.Items == nil {
			info.Item = &TypeInfo{Kind: KindAny}
			return info, nil
		}
		item, err := g.resolveMember(owner, property, m.Items)
		if err != nil {
			return nil, err
		}
		info.Item = item
		return info, nil
	case m.Type != "":
		kind, ok := primitiveKinds[m.Type]
		if !ok {
			return nil, NewUnresolvedReferenceError(owner, property, m.Type)
		}
		return &TypeInfo{Kind: kind}, nil
	}
	return &TypeInfo{Kind: KindAny}, nil
}

// resolveRef resolves a $ref target: a reserved primitive, a node
// type, an enumeration or a union.
func (g *Graph) resolveRef(owner, property, target string) (*TypeInfo, error) {
	if kind, ok := primitiveKinds[target]; ok {
		return &TypeInfo{Kind: kind}, nil
	}
	s, ok := g.schemas[target]
	if !ok {
		return nil, NewUnresolvedReferenceError(owner, property, target)
	}
	if !s.IsUnion() {
		return &TypeInfo{Kind: KindNode, Ref: target}, nil
	}
	if _, ok := g.enums[target]; ok {
		return &TypeInfo{Kind: KindEnum, Ref: target}, nil
	}
	return &TypeInfo{Kind: KindUnion, Ref: target}, nil
}

// Node returns the flattened type with the given title.
func (g *Graph) Node(name string) *Type { return g.nodes[name] }

// Union returns the union with the given title.
func (g *Graph) Union(name string) *Union { return g.unions[name] }

// Enum returns the enumeration with the given title.
func (g *Graph) Enum(name string) *Enum { return g.enums[name] }

// ConcreteNodes returns the non-abstract types.
func (g *Graph) ConcreteNodes() []*Type {
	out := make([]*Type, 0, len(g.Nodes))
	for _, t := range g.Nodes {
		if !t.Abstract {
			out = append(out, t)
		}
	}
	return out
}

// sortSchemas orders schemas by title for deterministic output.
func sortSchemas(docs []*load.Schema) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
}
