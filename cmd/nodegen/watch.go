package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchDebounce coalesces editor save bursts into one regeneration.
const watchDebounce = 250 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the corpus changes",
		Long:  "watch runs an initial generation, then watches the source directory\nand regenerates on every change to a schema or vocabulary document.\nWith the snapshot feature enabled, runs whose corpus digest is\nunchanged are skipped.",
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
			return runWatch(cmd.Context(), log, project)
		},
	}
	addProjectFlags(cmd)
	return cmd
}

func runWatch(ctx context.Context, log *zap.Logger, project *Project) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runGenerate(ctx, log, project, false); err != nil {
		// Keep watching: the corpus is being edited and the next save
		// may fix it.
		log.Error("generation failed", zap.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(project.Source); err != nil {
		return err
	}
	log.Info("watching", zap.String("source", project.Source))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", zap.Error(err))
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !corpusDocument(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("corpus changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := runGenerate(ctx, log, project, false); err != nil {
				log.Error("generation failed", zap.Error(err))
			}
		}
	}
}

// corpusDocument reports whether the changed path is part of the
// corpus rather than editor noise.
func corpusDocument(path string) bool {
	return strings.HasSuffix(path, ".schema.json") || strings.HasSuffix(path, ".jsonld")
}
