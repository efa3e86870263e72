// Package scan searches a source tree for references to translation keys.
package scan

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"

	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/logging"
)

// DefaultExcludes are skipped by every scan.
var DefaultExcludes = []string{"**/.git/**", "**/node_modules/**"}

// Scanner finds keys that never appear in any file under Root.
type Scanner struct {
	// Root is the directory searched recursively.
	Root string

	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to Root. DefaultExcludes always apply.
	Exclude []string

	// MaxFileSize skips larger files. Zero means constants.MaxScanFileSize.
	MaxFileSize int64

	// Progress receives a spinner while scanning. When nil, stderr is used
	// if it is a terminal and progress is hidden otherwise.
	Progress io.Writer
}

// Unused walks Root once and returns the keys whose text is not contained in
// any file, sorted. Unreadable files are skipped.
func (s *Scanner) Unused(ctx context.Context, keys []string) ([]string, error) {
	log := logging.Ctx(ctx)

	root := s.Root
	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("search path", root)
		}
		return nil, errors.WrapIO("stat", root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("search_path", root, "not a directory")
	}

	remaining := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			remaining[k] = struct{}{}
		}
	}

	limit := s.MaxFileSize
	if limit <= 0 {
		limit = constants.MaxScanFileSize
	}
	patterns := append(append([]string{}, DefaultExcludes...), s.Exclude...)
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.NewValidationError("exclude", p, "invalid glob pattern")
		}
	}

	bar := s.progress()
	files := 0

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Debug().Err(err).Str("path", p).Msg("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if len(remaining) == 0 {
			return fs.SkipAll
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excluded(patterns, rel) || excluded(patterns, path.Join(rel, "_")) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || excluded(patterns, rel) {
			return nil
		}

		fi, err := d.Info()
		if err != nil || fi.Size() > limit {
			log.Debug().Str("path", rel).Msg("Skipping file")
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			log.Debug().Err(err).Str("path", rel).Msg("Skipping unreadable file")
			return nil
		}

		for k := range remaining {
			if bytes.Contains(data, []byte(k)) {
				delete(remaining, k)
			}
		}
		files++
		if bar != nil {
			_ = bar.Add(1)
		}
		return nil
	})
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapIO("walk", root, err)
	}

	unused := make([]string, 0, len(remaining))
	for k := range remaining {
		unused = append(unused, k)
	}
	sort.Strings(unused)

	log.Debug().
		Int("files", files).
		Int("keys", len(keys)).
		Int("unused", len(unused)).
		Msg("Scan complete")
	return unused, nil
}

func (s *Scanner) progress() *progressbar.ProgressBar {
	w := s.Progress
	if w == nil {
		if !logging.IsTerminal(os.Stderr) {
			return nil
		}
		w = os.Stderr
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("scanning files"),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ExcludeDir returns a pattern excluding dir when it lies under root, or ""
// when it does not.
func ExcludeDir(root, dir string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return ""
	}
	return doublestar.EscapeMeta(filepath.ToSlash(rel)) + "/**"
}
