// Package locales reads and writes locale directories: one directory per
// locale under a base path, each holding a tree of JSON, YAML, or TOML
// documents.
package locales

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/save"
	"github.com/agentstation/lexicon/pkg/tree"
)

// Discover lists the locale directories under base, excluding the reference
// locale and hidden directories, sorted. When only is non-empty the result is
// limited to those locales. Names that are not BCP 47 tags are kept but
// warned about.
func Discover(ctx context.Context, base, reference string, only []string) ([]string, error) {
	log := logging.Ctx(ctx)

	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("locale directory", base)
		}
		return nil, errors.WrapIO("read", base, err)
	}

	var found []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || name == reference || strings.HasPrefix(name, ".") {
			continue
		}
		if len(only) > 0 && !slices.Contains(only, name) {
			continue
		}
		if _, err := language.Parse(strings.ReplaceAll(name, "_", "-")); err != nil {
			log.Warn().Str("locale", name).Msg("Locale directory is not a BCP 47 language tag")
		}
		found = append(found, name)
	}

	for _, want := range only {
		if want != reference && !slices.Contains(found, want) {
			log.Warn().Str("locale", want).Str("base", base).Msg("Requested locale has no directory")
		}
	}

	sort.Strings(found)
	return found, nil
}

// Load reads every locale document under dir.
func Load(dir string) ([]tree.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("locale directory", dir)
		}
		return nil, errors.WrapIO("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("path", dir, "not a directory")
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads every .json, .yaml, .yml and .toml document in fsys,
// recursively, sorted by relative path. Hidden files and directories are
// skipped. A malformed document fails the whole load.
func LoadFS(fsys fs.FS) ([]tree.Document, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && save.FormatFromPath(p).IsValid() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("walk", ".", err)
	}
	sort.Strings(paths)

	docs := make([]tree.Document, 0, len(paths))
	for _, p := range paths {
		t, err := readDocument(fsys, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, tree.Document{Origin: p, Tree: t})
	}
	return docs, nil
}

func readDocument(fsys fs.FS, p string) (*tree.Tree, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return nil, errors.WrapIO("open", p, err)
	}
	defer f.Close()
	return Decode(save.FormatFromPath(p), f, p)
}

// Save writes doc under dir at its origin, atomically. The format follows the
// origin's extension unless overridden.
func Save(dir string, doc tree.Document, opts ...save.Option) error {
	o := save.Defaults().Apply(opts...)
	format := o.Format()
	if !format.IsValid() {
		format = save.FormatFromPath(doc.Origin)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, doc.Tree, o.Indent()); err != nil {
		return err
	}
	if w := o.Writer(); w != nil {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return errors.WrapIO("write", doc.Origin, err)
		}
	}
	if o.DryRun() {
		return nil
	}

	target := filepath.Join(dir, filepath.FromSlash(path.Clean(doc.Origin)))
	if rel, err := filepath.Rel(dir, target); err != nil || strings.HasPrefix(rel, "..") {
		return errors.NewValidationError("origin", doc.Origin, "escapes the locale directory")
	}
	return save.Atomic(target, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Validate reports keys containing the path separator, which cannot be
// addressed unambiguously. They are warned about, or rejected when strict.
func Validate(ctx context.Context, locale string, docs []tree.Document, strict bool) error {
	log := logging.Ctx(ctx)

	var ambiguous []string
	for _, doc := range docs {
		for _, p := range tree.AmbiguousSegments(doc.Tree) {
			ambiguous = append(ambiguous, doc.Origin+":"+p.String())
			log.Warn().
				Str("locale", locale).
				Str("file", doc.Origin).
				Strs("segments", p).
				Msg("Key contains the path separator and cannot be addressed unambiguously")
		}
	}

	if strict && len(ambiguous) > 0 {
		return errors.NewValidationError("key", ambiguous[0],
			fmt.Sprintf("%d key(s) in locale %s contain %q, first at %s", len(ambiguous), locale, tree.Separator, ambiguous[0]))
	}
	return nil
}
