package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "nodegen",
		Short:        "Generate Go types and codecs from a schema corpus",
		Long:         "nodegen reads a corpus of *.schema.json and *.jsonld documents,\nresolves inheritance and references into a flattened type graph, and\nemits Go structs, round-trip codecs and per-format encoders.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "nodegen.yaml", "project file")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	root.AddCommand(newGenerateCmd(), newVetCmd(), newWatchCmd())
	return root
}

// newLogger builds the CLI logger. The library packages stay silent
// and return errors; all operational logging happens here.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
