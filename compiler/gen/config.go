package gen

import "fmt"

// Config holds the settings of one generation run.
type Config struct {
	// Package is the import path of the generated package.
	Package string
	// Target is the output directory.
	Target string
	// Header is prepended to every generated file.
	Header string
	// Formats lists the per-format encoders to emit for types that
	// carry the matching hint block. Defaults to all known formats.
	Formats []string
	// Features holds the enabled optional features.
	Features []Feature
	// Workers bounds parallel emission. Zero means GOMAXPROCS.
	Workers int
}

// knownFormats are the format hint blocks the emitter can act on.
// patch, proptest and serde are consumed by the graph itself (strip
// hints, extension side-maps) rather than by per-format encoders.
var knownFormats = []string{"dom", "html", "jats", "latex", "markdown"}

// DefaultFormats returns the formats emitted when none are configured.
func DefaultFormats() []string {
	out := make([]string, len(knownFormats))
	copy(out, knownFormats)
	return out
}

// EmitFormats returns the configured formats, defaulting to all.
func (c *Config) EmitFormats() []string {
	if len(c.Formats) == 0 {
		return DefaultFormats()
	}
	return c.Formats
}

// FeatureEnabled reports whether the named feature is enabled.
// Unknown names are an error so typos fail loudly.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	var known bool
	for _, f := range AllFeatures {
		if f.Name == name {
			known = true
			break
		}
	}
	if !known {
		return false, fmt.Errorf("nodegen: unknown feature %q", name)
	}
	for _, f := range c.Features {
		if f.Name == name {
			return true, nil
		}
	}
	return false, nil
}
