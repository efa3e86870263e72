package compare

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
)

// Watch runs the comparison once, then again after every burst of changes
// under the locale directories, until ctx is canceled.
func Watch(ctx context.Context, cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	engine, err := app.Engine()
	if err != nil {
		return err
	}
	logger := app.Logger()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapResource("create", "watcher", "", err)
	}
	defer w.Close()

	for _, root := range []string{engine.BasePath(), engine.ReferencePath()} {
		if err := addTree(w, root); err != nil {
			return err
		}
	}

	if err := run(ctx, cmd, app, flags); err != nil {
		logger.Error().Err(err).Msg("Comparison failed")
	}
	logger.Info().Str("path", engine.BasePath()).Msg("Watching for changes")

	return loop(ctx, w, &watchConfig{
		debounce: constants.WatchDebounce,
		ignore:   ignoreDir(app.Config().OutputDir, engine.BasePath(), engine.ReferencePath()),
		logger:   logger,
		onChange: func() {
			if err := run(ctx, cmd, app, flags); err != nil {
				logger.Error().Err(err).Msg("Comparison failed")
			}
		},
	})
}

type watchConfig struct {
	debounce time.Duration
	ignore   string // absolute directory whose events are dropped
	logger   *zerolog.Logger
	onChange func()
}

// loop calls cfg.onChange once events stop arriving for cfg.debounce.
func loop(ctx context.Context, w *fsnotify.Watcher, cfg *watchConfig) error {
	timer := time.NewTimer(cfg.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || cfg.ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						cfg.logger.Warn().Err(err).Str("path", ev.Name).Msg("Cannot watch new directory")
					}
				}
			}
			cfg.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("Locale file changed")
			timer.Reset(cfg.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cfg.logger.Warn().Err(err).Msg("Watcher error")

		case <-timer.C:
			cfg.onChange()
		}
	}
}

func (cfg *watchConfig) ignored(name string) bool {
	if cfg.ignore == "" {
		return false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == cfg.ignore || strings.HasPrefix(abs, cfg.ignore+string(filepath.Separator))
}

// ignoreDir returns the absolute output directory when its events can be
// dropped safely. It returns "" when out is unset or contains one of the
// watched roots, since ignoring it would hide every locale change.
func ignoreDir(out string, roots ...string) string {
	if out == "" {
		return ""
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return ""
	}
	for _, root := range roots {
		r, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(abs, r); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return ""
		}
	}
	return abs
}

// addTree watches root and every directory below it.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapIO("watch", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return errors.WrapIO("watch", path, err)
		}
		return nil
	})
}
