package lexicon

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/lexicon/internal/locales"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/reconcile"
	"github.com/agentstation/lexicon/pkg/save"
	"github.com/agentstation/lexicon/pkg/tree"
)

// PatchOptions controls Engine.Patch.
type PatchOptions struct {
	DryRun     bool      // Reconcile without writing files
	NoBaseline bool      // Apply patches only, without completing files from the reference
	Indent     int       // Indentation of written files
	Preview    io.Writer // Receives the content of every changed file when set
}

// PatchOption is a function that configures PatchOptions.
type PatchOption func(*PatchOptions)

// Apply applies the given options.
func (o *PatchOptions) Apply(opts ...PatchOption) *PatchOptions {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PatchDefaults returns the default patch options.
func PatchDefaults() *PatchOptions {
	return &PatchOptions{Indent: 2}
}

// WithDryRun reconciles without writing files
func WithDryRun(dryRun bool) PatchOption {
	return func(o *PatchOptions) {
		o.DryRun = dryRun
	}
}

// WithNoBaseline skips baseline completion
func WithNoBaseline(skip bool) PatchOption {
	return func(o *PatchOptions) {
		o.NoBaseline = skip
	}
}

// WithIndent sets the indentation of written files
func WithIndent(n int) PatchOption {
	return func(o *PatchOptions) {
		o.Indent = n
	}
}

// WithPreview writes the content of every changed file to w
func WithPreview(w io.Writer) PatchOption {
	return func(o *PatchOptions) {
		o.Preview = w
	}
}

// FileResult is the outcome of reconciling one locale file.
type FileResult struct {
	Locale  string          `json:"locale" yaml:"locale"`
	File    string          `json:"file" yaml:"file"`
	Created bool            `json:"created" yaml:"created"`
	Changed bool            `json:"changed" yaml:"changed"`
	Saved   bool            `json:"saved" yaml:"saved"`
	Stats   reconcile.Stats `json:"stats" yaml:"stats"`
}

// LocaleResult is the outcome of reconciling one locale.
type LocaleResult struct {
	Locale string            `json:"locale" yaml:"locale"`
	Files  []FileResult      `json:"files" yaml:"files"`
	Report *reconcile.Report `json:"-" yaml:"-"`
}

// Stats returns the totals of the locale.
func (r *LocaleResult) Stats() reconcile.Stats {
	return r.Report.Stats()
}

// PatchSummary is the outcome of Engine.Patch.
type PatchSummary struct {
	DryRun  bool           `json:"dry_run" yaml:"dry_run"`
	Locales []LocaleResult `json:"locales" yaml:"locales"`
}

// Stats returns the totals across locales.
func (s *PatchSummary) Stats() reconcile.Stats {
	var total reconcile.Stats
	for i := range s.Locales {
		st := s.Locales[i].Stats()
		total.Applied += st.Applied
		total.Skipped += st.Skipped
		total.Conflicts += st.Conflicts
		total.Baseline += st.Baseline
	}
	return total
}

// ChangedFiles returns the number of files whose tree changed.
func (s *PatchSummary) ChangedFiles() int {
	n := 0
	for _, l := range s.Locales {
		for _, f := range l.Files {
			if f.Changed {
				n++
			}
		}
	}
	return n
}

// Locale returns the result of one locale.
func (s *PatchSummary) Locale(locale string) (*LocaleResult, bool) {
	for i := range s.Locales {
		if s.Locales[i].Locale == locale {
			return &s.Locales[i], true
		}
	}
	return nil, false
}

// Patch reconciles every target locale of ws with patches. Locales run in
// parallel; within a locale each reference file is completed from the
// reference, then receives its patches in input order. Patches for files
// the reference does not have come last. Only changed files are written.
func (e *Engine) Patch(ctx context.Context, ws *Workspace, patches []reconcile.Patch, opts ...PatchOption) (*PatchSummary, error) {
	o := PatchDefaults().Apply(opts...)
	if o.Preview != nil {
		o.Preview = &lockedWriter{w: o.Preview}
	}
	log := e.logger(ctx)
	ctx = logging.WithLogger(ctx, log)

	byLocale := make(map[string][]reconcile.Patch)
	names := slices.Clone(ws.Locales)
	for _, p := range patches {
		if p.Locale == ws.referenceLocale {
			log.Warn().Str("key", p.Key).Str("file", p.File).Msg("Skipping patch for the reference locale")
			continue
		}
		if p.Locale == "" {
			log.Warn().Str("key", p.Key).Str("file", p.File).Msg("Skipping patch without locale")
			continue
		}
		if _, ok := byLocale[p.Locale]; !ok && !slices.Contains(names, p.Locale) {
			names = append(names, p.Locale)
		}
		byLocale[p.Locale] = append(byLocale[p.Locale], p)
	}
	slices.Sort(names)

	results := make([]LocaleResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.patchLocale(logging.WithLocale(gctx, name), ws, name, byLocale[name], o)
			if err != nil {
				return fmt.Errorf("patching locale %s: %w", name, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &PatchSummary{DryRun: o.DryRun, Locales: results}
	st := summary.Stats()
	log.Info().
		Int("locales", len(results)).
		Int("files_changed", summary.ChangedFiles()).
		Int("applied", st.Applied).
		Int("skipped", st.Skipped).
		Int("baseline", st.Baseline).
		Int("conflicts", st.Conflicts).
		Bool("dry_run", o.DryRun).
		Msg("Patch complete")
	return summary, nil
}

func (e *Engine) patchLocale(ctx context.Context, ws *Workspace, locale string, patches []reconcile.Patch, o *PatchOptions) (*LocaleResult, error) {
	log := logging.Ctx(ctx)

	existing := make(map[string]*tree.Tree)
	if l, ok := ws.Targets[locale]; ok {
		for _, d := range l.Documents {
			existing[d.Origin] = d.Tree
		}
	}

	byFile := make(map[string][]reconcile.Patch)
	var fileOrder []string
	for _, p := range patches {
		if _, ok := byFile[p.File]; !ok {
			fileOrder = append(fileOrder, p.File)
		}
		byFile[p.File] = append(byFile[p.File], p)
	}

	res := &LocaleResult{Locale: locale, Report: reconcile.NewReport()}
	done := make(map[string]bool)

	reconcileFile := func(origin string, baseline bool) error {
		done[origin] = true
		current, found := existing[origin]

		next := current
		rep := reconcile.NewReport()
		if baseline {
			var events []reconcile.Event
			next, events = reconcile.Baseline(current, ws.ReferenceCatalog, origin)
			rep.AddBaseline(events)
		}
		next, applied := reconcile.Apply(next, byFile[origin], reconcile.WithLogger(log))
		rep.Merge(applied)
		res.Report.Merge(rep)

		changed := next.Len() > 0
		if found {
			changed = !current.Equal(next)
		}
		fr := FileResult{
			Locale:  locale,
			File:    origin,
			Created: !found && changed,
			Changed: changed,
			Stats:   rep.Stats(),
		}
		if changed {
			if err := e.saveFile(ctx, locale, tree.Document{Origin: origin, Tree: next}, o); err != nil {
				return err
			}
			fr.Saved = !o.DryRun
			if fr.Saved {
				e.triggerFileSaved(fr)
			}
		}
		res.Files = append(res.Files, fr)
		return nil
	}

	for _, doc := range ws.Reference {
		if done[doc.Origin] {
			continue
		}
		if err := reconcileFile(doc.Origin, !o.NoBaseline); err != nil {
			return nil, err
		}
	}
	for _, origin := range fileOrder {
		if done[origin] {
			continue
		}
		if origin == "" {
			log.Warn().Int("patches", len(byFile[origin])).Msg("Skipping patches without file")
			continue
		}
		if err := reconcileFile(origin, false); err != nil {
			return nil, err
		}
	}

	if len(patches) == 0 {
		log.Warn().Msg("No patches for locale, baseline completion only")
	}
	log.Debug().Str("summary", res.Report.Summary()).Msg("Reconciled locale")
	return res, nil
}

func (e *Engine) saveFile(ctx context.Context, locale string, doc tree.Document, o *PatchOptions) error {
	log := logging.Ctx(ctx)
	saveOpts := []save.Option{save.WithIndent(o.Indent), save.WithDryRun(o.DryRun)}
	if o.Preview != nil {
		saveOpts = append(saveOpts, save.WithWriter(o.Preview))
	}
	if err := locales.Save(e.LocaleDir(locale), doc, saveOpts...); err != nil {
		return errors.WrapResource("save", "locale file", locale+"/"+doc.Origin, err)
	}
	if o.DryRun {
		log.Info().Str("file", doc.Origin).Msg("Would update locale file")
	} else {
		log.Info().Str("file", doc.Origin).Msg("Updated locale file")
	}
	return nil
}

// lockedWriter serializes previews written by parallel locale workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
