package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g := corpusGraph(t)
	path := filepath.Join(t.TempDir(), SnapshotFile)

	require.NoError(t, WriteSnapshot(path, g))
	s, err := ReadSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, g.Digest, s.Digest)
	assert.Len(t, s.Nodes, len(g.Nodes))
	assert.Equal(t,
		[]string{"code", "executionCount", "executionMode", "id", "label", "outputs", "programmingLanguage", "provenance"},
		s.Nodes["CodeChunk"])
	assert.Equal(t, []string{"CodeChunk", "Paragraph"}, s.Unions["Block"])
	assert.Contains(t, s.Enums["ProvenanceCategory"], "MwMeMv")

	assert.False(t, s.Stale(g.Digest))
	assert.True(t, s.Stale("something-else"))
}

func TestReadSnapshotMissing(t *testing.T) {
	_, err := ReadSnapshot(filepath.Join(t.TempDir(), "absent.bin"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
