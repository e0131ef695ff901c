package gen

import (
	"os"
	"path/filepath"
)

// Stage marks the maturity of a feature.
type Stage int

const (
	// Experimental features may change or be removed.
	Experimental Stage = iota
	// Alpha features are settling but not yet stable.
	Alpha
	// Stable features keep backward compatibility.
	Stable
)

// Feature is an optional generation capability gated by configuration.
type Feature struct {
	// Name of the feature as referenced by configuration.
	Name string
	// Stage of the feature.
	Stage Stage
	// Default enablement.
	Default bool
	// Description of the feature.
	Description string

	// cleanup removes the feature's artifacts when it is disabled.
	cleanup func(c *Config) error
}

var (
	// FeatureSnapshot persists the resolved graph beside the output so
	// watch mode can skip re-resolution of an unchanged corpus.
	FeatureSnapshot = Feature{
		Name:        "snapshot",
		Stage:       Alpha,
		Default:     false,
		Description: "Snapshot stores the resolved type graph for incremental regeneration",
		cleanup: func(c *Config) error {
			return os.RemoveAll(filepath.Join(c.Target, SnapshotFile))
		},
	}

	// FeatureManifest writes a manifest.json describing the run: its
	// ID, the corpus digest, emitted files and external override
	// obligations.
	FeatureManifest = Feature{
		Name:        "manifest",
		Stage:       Alpha,
		Default:     false,
		Description: "Manifest records emitted files and external override obligations",
		cleanup: func(c *Config) error {
			return os.RemoveAll(filepath.Join(c.Target, ManifestFile))
		},
	}

	// FeatureVocabCheck cross-checks schema @id values against the
	// loaded JSON-LD vocabularies before generating.
	FeatureVocabCheck = Feature{
		Name:        "vocabcheck",
		Stage:       Experimental,
		Default:     false,
		Description: "VocabCheck reports schema @id values missing from the JSON-LD vocabulary",
	}
)

// AllFeatures holds all known features.
var AllFeatures = []Feature{
	FeatureSnapshot,
	FeatureManifest,
	FeatureVocabCheck,
}

// Cleanup removes the artifacts of features that are not enabled.
func (c *Config) Cleanup() error {
	for _, f := range AllFeatures {
		if f.cleanup == nil {
			continue
		}
		if enabled, _ := c.FeatureEnabled(f.Name); enabled {
			continue
		}
		if err := f.cleanup(c); err != nil {
			return err
		}
	}
	return nil
}
