package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/fsnotify.v1"

	"github.com/coolbeans/draftcheck/pkg/parse"
	"github.com/coolbeans/draftcheck/pkg/pattern"
	"github.com/coolbeans/draftcheck/pkg/report"
	"github.com/coolbeans/draftcheck/pkg/validate"
)

// watcher re-checks files when they are written. The parser is swapped
// when the pattern tables change.
type watcher struct {
	validator *validate.Validator
	registry  *pattern.DefaultRegistry

	mu     sync.Mutex
	parser *parse.Parser
}

func (w *watcher) check(ctx context.Context, path string) {
	w.mu.Lock()
	p := w.parser
	w.mu.Unlock()

	rep := checkFile(ctx, w.validator, p, path)
	if err := writeReports([]*report.Report{rep}); err != nil {
		log.Error().Err(err).Str("file", path).Msg("writing report")
	}
}

// reloadParser rebuilds the parser from the registry.
func (w *watcher) reloadParser(event string, _ *pattern.Table) {
	p, err := newParser(w.registry)
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("keeping previous pattern table")
		return
	}
	w.mu.Lock()
	w.parser = p
	w.mu.Unlock()
	log.Info().Str("event", event).Str("table", p.Table().TableID).Msg("pattern table reloaded")
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>...",
		Short: "Re-check files whenever they are written",
		Long: `Check each file, then check it again every time it is written.
Pattern tables under --patterns-dir are reloaded when they change.

Example:
  draftcheck watch --offline draft-ietf-foo-bar-03.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			registry, err := loadRegistry()
			if err != nil {
				return err
			}
			parser, err := newParser(registry)
			if err != nil {
				return err
			}
			validator, err := newValidator()
			if err != nil {
				return err
			}
			w := &watcher{validator: validator, registry: registry, parser: parser}

			if cfg.Patterns.Dir != "" {
				registry.SetOnChange(w.reloadParser)
				if err := registry.Watch(); err != nil {
					return err
				}
				defer registry.StopWatch()
			}

			fsw, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			defer fsw.Close()

			// Editors often replace files, so directories are watched.
			files := make(map[string]bool)
			dirs := make(map[string]bool)
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				files[path] = true
				dir := filepath.Dir(path)
				if !dirs[dir] {
					if err := fsw.Add(dir); err != nil {
						return fmt.Errorf("watching directory %s: %w", dir, err)
					}
					dirs[dir] = true
				}
				w.check(ctx, arg)
			}

			for {
				select {
				case <-ctx.Done():
					return nil

				case event, ok := <-fsw.Events:
					if !ok {
						return nil
					}
					if !files[filepath.Clean(event.Name)] {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("file changed")
						fmt.Println()
						w.check(ctx, event.Name)
					}

				case err, ok := <-fsw.Errors:
					if !ok {
						return nil
					}
					log.Warn().Err(err).Msg("file watcher error")
				}
			}
		},
	}
}
