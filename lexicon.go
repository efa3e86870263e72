package lexicon

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/lexicon/internal/locales"
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/tree"
)

// Engine runs the compare, translate, and patch stages over a locale
// directory. It is safe for concurrent use.
type Engine struct {
	config *config
	*hooks
}

// New creates an Engine with the given options
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if cfg.referencePath == "" {
		cfg.referencePath = filepath.Join(cfg.basePath, cfg.referenceLocale)
	}
	if cfg.differ == nil {
		cfg.differ = differ.New()
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}

	return &Engine{config: cfg, hooks: newHooks()}, nil
}

// BasePath returns the locale base directory.
func (e *Engine) BasePath() string { return e.config.basePath }

// ReferenceLocale returns the reference locale name.
func (e *Engine) ReferenceLocale() string { return e.config.referenceLocale }

// ReferencePath returns the reference locale directory.
func (e *Engine) ReferencePath() string { return e.config.referencePath }

// LocaleDir returns the directory of a target locale.
func (e *Engine) LocaleDir(locale string) string {
	return filepath.Join(e.config.basePath, locale)
}

func (e *Engine) logger(ctx context.Context) *zerolog.Logger {
	if l := logging.FromContext(ctx); l != logging.Default() {
		return l
	}
	return e.config.logger
}

// Locale is one loaded target locale.
type Locale struct {
	Name      string
	Documents []tree.Document
	Catalog   *tree.Catalog
}

// Workspace is a snapshot of the reference and every target locale, read
// fresh from disk by Load.
type Workspace struct {
	Reference        []tree.Document
	ReferenceCatalog *tree.Catalog
	Locales          []string
	Targets          map[string]*Locale

	referenceLocale string
	differ          differ.Differ
}

// Load reads the reference locale and every target locale. Targets are
// loaded in parallel. A malformed file fails the whole load.
func (e *Engine) Load(ctx context.Context) (*Workspace, error) {
	log := e.logger(ctx)
	ctx = logging.WithLogger(ctx, log)
	cfg := e.config

	refDocs, err := locales.Load(cfg.referencePath)
	if err != nil {
		return nil, fmt.Errorf("loading reference locale %s: %w", cfg.referenceLocale, err)
	}
	if err := locales.Validate(ctx, cfg.referenceLocale, refDocs, cfg.strictKeys); err != nil {
		return nil, err
	}
	refCatalog := flatten(log, cfg.referenceLocale, refDocs)

	names, err := locales.Discover(ctx, cfg.basePath, cfg.referenceLocale, cfg.locales)
	if err != nil {
		return nil, err
	}

	loaded := make([]*Locale, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs, err := locales.Load(e.LocaleDir(name))
			if err != nil {
				return fmt.Errorf("loading locale %s: %w", name, err)
			}
			if err := locales.Validate(gctx, name, docs, cfg.strictKeys); err != nil {
				return err
			}
			loaded[i] = &Locale{Name: name, Documents: docs, Catalog: flatten(log, name, docs)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ws := &Workspace{
		Reference:        refDocs,
		ReferenceCatalog: refCatalog,
		Locales:          names,
		Targets:          make(map[string]*Locale, len(loaded)),
		referenceLocale:  cfg.referenceLocale,
		differ:           cfg.differ,
	}
	for _, l := range loaded {
		ws.Targets[l.Name] = l
	}

	log.Debug().
		Str("reference", cfg.referenceLocale).
		Int("reference_keys", refCatalog.Len()).
		Int("locales", len(names)).
		Msg("Loaded workspace")
	return ws, nil
}

func flatten(log *zerolog.Logger, locale string, docs []tree.Document) *tree.Catalog {
	c := tree.FlattenAll(docs)
	for _, o := range c.Overrides {
		log.Debug().
			Str("locale", locale).
			Str("key", o.Path).
			Str("previous", o.PreviousOrigin).
			Str("file", o.Origin).
			Msg("Key defined in more than one file, later file wins")
	}
	return c
}

// ReferenceLocale returns the name of the reference locale.
func (ws *Workspace) ReferenceLocale() string { return ws.referenceLocale }

// Catalogs returns the catalog of every target locale.
func (ws *Workspace) Catalogs() map[string]*tree.Catalog {
	out := make(map[string]*tree.Catalog, len(ws.Targets))
	for name, l := range ws.Targets {
		out[name] = l.Catalog
	}
	return out
}

// Catalog returns the catalog of locale, which may be the reference locale.
func (ws *Workspace) Catalog(locale string) (*tree.Catalog, bool) {
	if locale == ws.referenceLocale {
		return ws.ReferenceCatalog, true
	}
	l, ok := ws.Targets[locale]
	if !ok {
		return nil, false
	}
	return l.Catalog, true
}
