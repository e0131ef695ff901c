package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nodegen/nodegen/compiler/gen"
	"github.com/nodegen/nodegen/compiler/gen/golang"
	"github.com/nodegen/nodegen/compiler/load"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Resolve the corpus and emit Go code",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			return runGenerate(cmd.Context(), log, project, force)
		},
	}
	addProjectFlags(cmd)
	cmd.Flags().Bool("force", false, "regenerate even when the snapshot matches")
	return cmd
}

// addProjectFlags registers the flags that override project fields.
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "schema corpus directory")
	cmd.Flags().String("target", "", "output directory")
	cmd.Flags().String("package", "", "import path of the generated package")
	cmd.Flags().StringSlice("formats", nil, "per-format encoders to emit")
	cmd.Flags().StringSlice("features", nil, "optional features to enable")
	cmd.Flags().Int("workers", 0, "parallel workers")
	cmd.Flags().String("duplicates", "", "title collision policy: strict or last-wins")
}

// resolveProject loads nodegen.yaml and applies flag overrides.
func resolveProject(cmd *cobra.Command) (*Project, error) {
	path, _ := cmd.Flags().GetString("config")
	project, err := loadProject(path, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("source"); v != "" {
		project.Source = v
	}
	if v, _ := cmd.Flags().GetString("target"); v != "" {
		project.Target = v
	}
	if v, _ := cmd.Flags().GetString("package"); v != "" {
		project.Package = v
	}
	if v, _ := cmd.Flags().GetStringSlice("formats"); len(v) > 0 {
		project.Formats = v
	}
	if v, _ := cmd.Flags().GetStringSlice("features"); len(v) > 0 {
		project.Features = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		project.Workers = v
	}
	if v, _ := cmd.Flags().GetString("duplicates"); v != "" {
		project.Duplicates = v
	}
	return project, nil
}

// loadCorpus reads the schema corpus per the project settings.
func loadCorpus(ctx context.Context, project *Project) (*load.Corpus, error) {
	opts, err := project.loaderOptions()
	if err != nil {
		return nil, err
	}
	return load.New(opts...).Load(ctx, project.Source)
}

// runGenerate is the full pipeline: load, resolve, flatten, emit.
// It is shared by the generate and watch commands.
func runGenerate(ctx context.Context, log *zap.Logger, project *Project, force bool) error {
	start := time.Now()
	log = log.With(zap.String("run", uuid.NewString()))

	corpus, err := loadCorpus(ctx, project)
	if err != nil {
		return err
	}
	log.Info("corpus loaded",
		zap.Int("schemas", len(corpus.Schemas)),
		zap.Int("vocabularies", len(corpus.Vocabularies)),
		zap.String("digest", corpus.Digest[:12]),
	)

	if project.featureEnabled(gen.FeatureVocabCheck.Name) {
		for _, m := range load.CheckVocabulary(corpus) {
			log.Warn("vocabulary mismatch",
				zap.String("title", m.Title),
				zap.String("property", m.Property),
				zap.String("id", m.ID),
				zap.String("detail", m.Message),
			)
		}
	}

	if !force && project.featureEnabled(gen.FeatureSnapshot.Name) {
		snap, err := gen.ReadSnapshot(filepath.Join(project.Target, gen.SnapshotFile))
		if err == nil && !snap.Stale(corpus.Digest) {
			log.Info("corpus unchanged, skipping generation")
			return nil
		}
	}

	opts, err := project.genOptions()
	if err != nil {
		return err
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}
	graph, err := gen.NewGraphFromCorpus(cfg, corpus)
	if err != nil {
		return err
	}
	res, err := gen.NewGenerator(graph, golang.New(graph)).Generate(ctx)
	if err != nil {
		return err
	}
	for _, o := range res.Overrides {
		log.Warn("hand-written encoder required",
			zap.String("type", o.Type),
			zap.String("format", o.Format),
		)
	}
	log.Info("generated",
		zap.Int("types", len(graph.ConcreteNodes())),
		zap.Int("unions", len(graph.Unions)),
		zap.Int("enums", len(graph.Enums)),
		zap.Int("files", len(res.Files)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
