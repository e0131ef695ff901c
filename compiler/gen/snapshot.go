package gen

import (
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotFile is the graph snapshot written beside generated code.
const SnapshotFile = "nodegen_snapshot.bin"

// Snapshot is a compact projection of a resolved graph, keyed by the
// corpus digest. Watch mode reads it to skip regeneration when the
// corpus has not changed.
type Snapshot struct {
	Digest string              `msgpack:"digest"`
	Nodes  map[string][]string `msgpack:"nodes"`
	Unions map[string][]string `msgpack:"unions"`
	Enums  map[string][]string `msgpack:"enums"`
}

// NewSnapshot projects a graph into its snapshot form.
func NewSnapshot(g *Graph) *Snapshot {
	s := &Snapshot{
		Digest: g.Digest,
		Nodes:  make(map[string][]string, len(g.Nodes)),
		Unions: make(map[string][]string, len(g.Unions)),
		Enums:  make(map[string][]string, len(g.Enums)),
	}
	for _, t := range g.Nodes {
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name
		}
		s.Nodes[t.Name] = names
	}
	for _, u := range g.Unions {
		s.Unions[u.Name] = u.MemberNames()
	}
	for _, e := range g.Enums {
		s.Enums[e.Name] = e.Values()
	}
	return s
}

// Stale reports whether the snapshot no longer matches the corpus.
func (s *Snapshot) Stale(digest string) bool {
	return s.Digest == "" || s.Digest != digest
}

// WriteSnapshot stores the graph projection, msgpack-encoded and
// zstd-compressed.
func WriteSnapshot(path string, g *Graph) error {
	raw, err := msgpack.Marshal(NewSnapshot(g))
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()
	return os.WriteFile(path, enc.EncodeAll(raw, nil), 0o644)
}

// ReadSnapshot loads a stored graph projection.
func ReadSnapshot(path string) (*Snapshot, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := msgpack.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
