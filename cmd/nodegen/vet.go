package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nodegen/nodegen/compiler/gen"
	"github.com/nodegen/nodegen/compiler/load"
)

func newVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Check the corpus without emitting code",
		Long:  "vet loads the corpus, resolves references and inheritance, classifies\nunions and cross-checks the JSON-LD vocabulary, reporting every\nproblem a generate run would fail on.",
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
			return runVet(cmd, log, project)
		},
	}
	addProjectFlags(cmd)
	return cmd
}

func runVet(cmd *cobra.Command, log *zap.Logger, project *Project) error {
	corpus, err := loadCorpus(cmd.Context(), project)
	if err != nil {
		return err
	}
	graph, err := gen.NewGraphFromCorpus(gen.MustNewConfig(), corpus)
	if err != nil {
		return err
	}
	mismatches := load.CheckVocabulary(corpus)
	for _, m := range mismatches {
		log.Warn("vocabulary mismatch",
			zap.String("title", m.Title),
			zap.String("property", m.Property),
			zap.String("id", m.ID),
			zap.String("detail", m.Message),
		)
	}
	log.Info("corpus ok",
		zap.Int("schemas", len(corpus.Schemas)),
		zap.Int("types", len(graph.ConcreteNodes())),
		zap.Int("unions", len(graph.Unions)),
		zap.Int("enums", len(graph.Enums)),
		zap.Int("vocabulary_mismatches", len(mismatches)),
	)
	return nil
}
