package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("applies options", func(t *testing.T) {
		c, err := NewConfig(
			WithPackage("github.com/org/project/nodes"),
			WithTarget("nodes"),
			WithHeader("Code generated by nodegen. DO NOT EDIT."),
			WithFormats("html", "markdown"),
			WithFeatures(FeatureSnapshot),
			WithWorkers(4),
		)
		require.NoError(t, err)
		assert.Equal(t, "github.com/org/project/nodes", c.Package)
		assert.Equal(t, "nodes", c.Target)
		assert.Equal(t, []string{"html", "markdown"}, c.EmitFormats())
		assert.Equal(t, 4, c.Workers)

		enabled, err := c.FeatureEnabled("snapshot")
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("rejects empty package", func(t *testing.T) {
		_, err := NewConfig(WithPackage(""))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingConfig)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := NewConfig(WithFormats("pdf"))
		require.Error(t, err)
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "Formats", ce.Option)
		assert.Equal(t, "pdf", ce.Value)
	})

	t.Run("rejects negative workers", func(t *testing.T) {
		_, err := NewConfig(WithWorkers(-1))
		require.Error(t, err)
	})

	t.Run("ApplyAll collects every failure", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithPackage(""), WithTarget(""), WithWorkers(2))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Package")
		assert.Contains(t, err.Error(), "Target")
		assert.Equal(t, 2, c.Workers)
	})

	t.Run("unknown feature name fails loudly", func(t *testing.T) {
		c := MustNewConfig()
		_, err := c.FeatureEnabled("snapsot")
		require.Error(t, err)
	})

	t.Run("formats default to all", func(t *testing.T) {
		c := MustNewConfig()
		assert.Equal(t, []string{"dom", "html", "jats", "latex", "markdown"}, c.EmitFormats())
	})
}

func TestMustNewConfig(t *testing.T) {
	assert.Panics(t, func() {
		MustNewConfig(WithTarget(""))
	})
}
