package lexicon

import (
	"context"
	"slices"

	"github.com/ohler55/ojg/jp"

	"github.com/agentstation/lexicon/internal/scan"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/reconcile"
	"github.com/agentstation/lexicon/pkg/tree"
)

// Unused returns the reference keys that no file under the scanner's root
// mentions. The locale directories are never searched.
func (e *Engine) Unused(ctx context.Context, ws *Workspace, scanner *scan.Scanner) ([]string, error) {
	s := *scanner
	s.Exclude = slices.Clone(scanner.Exclude)
	for _, dir := range []string{e.config.basePath, e.config.referencePath} {
		if pattern := scan.ExcludeDir(s.Root, dir); pattern != "" {
			s.Exclude = append(s.Exclude, pattern)
		}
	}
	return s.Unused(ctx, ws.ReferenceCatalog.Keys())
}

// Merged returns the tree of locale with every document folded together,
// later documents winning on shared paths.
func (ws *Workspace) Merged(locale string) (*tree.Tree, error) {
	c, ok := ws.Catalog(locale)
	if !ok {
		return nil, errors.NewNotFoundError("locale", locale)
	}
	merged := tree.New()
	for _, key := range c.Ordered() {
		e, _ := c.Get(key)
		reconcile.Set(merged, tree.ParsePath(key), e.Value)
	}
	return merged, nil
}

// Query evaluates a JSONPath expression against the merged tree of locale.
func (ws *Workspace) Query(locale, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, errors.NewValidationError("expression", expr, err.Error())
	}
	merged, err := ws.Merged(locale)
	if err != nil {
		return nil, err
	}
	return x.Get(merged.ToMap()), nil
}
