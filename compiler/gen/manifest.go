package gen

import (
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ManifestFile is the run manifest written beside generated code.
const ManifestFile = "manifest.json"

// Manifest records one generation run: which corpus produced which
// files, and which encoders were stubbed for a hand-written override.
type Manifest struct {
	RunID       string             `json:"runId"`
	Digest      string             `json:"digest,omitempty"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Files       []string           `json:"files"`
	Overrides   []ExternalOverride `json:"overrides,omitempty"`
}

// NewManifest stamps a manifest for the current run.
func NewManifest(digest string, files []string, overrides []ExternalOverride) *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		Digest:      digest,
		GeneratedAt: time.Now().UTC(),
		Files:       files,
		Overrides:   overrides,
	}
}

// Write stores the manifest as indented JSON.
func (m *Manifest) Write(path string) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

// ReadManifest loads a stored manifest.
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
