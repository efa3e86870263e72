package lexicon

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"slices"

	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/report"
	"github.com/agentstation/lexicon/pkg/save"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Translate sends every missing record to provider, one request stream per
// locale, and returns a copy of records with the answers merged in. A failed
// locale leaves its rows untouched; the other locales still complete. memory
// may be nil.
func (e *Engine) Translate(
	ctx context.Context,
	ws *Workspace,
	records []report.TranslationRecord,
	provider translate.Provider,
	memory translate.Memory,
) ([]report.TranslationRecord, []translate.Outcome) {
	ctx = logging.WithProvider(logging.WithLogger(ctx, e.logger(ctx)), provider.Name())
	log := logging.Ctx(ctx)

	out := slices.Clone(records)
	reqs := e.requests(ctx, ws, out)
	if len(reqs) == 0 {
		log.Info().Msg("Nothing to translate")
		return out, nil
	}

	opts := []translate.Option{
		translate.WithConcurrency(e.config.concurrency),
		translate.WithLogger(log),
	}
	if memory != nil {
		opts = append(opts, translate.WithMemory(memory))
	}
	opts = append(opts, e.config.translateOpts...)

	batcher := translate.NewBatcher(provider, opts...)
	results, outcomes := batcher.Run(ctx, reqs)

	rows := make(map[rowKey][]int, len(out))
	for i, r := range out {
		k := rowKey{r.Locale, r.LabelKey}
		rows[k] = append(rows[k], i)
	}

	var all []translate.Result
	for _, batch := range results {
		for _, res := range batch {
			idx, ok := rows[rowKey{res.Locale, res.Key}]
			if !ok {
				log.Warn().
					Str("locale", res.Locale).
					Str("key", res.Key).
					Msg("No matching row for translation")
				continue
			}
			for _, i := range idx {
				out[i].SetTranslation(res.EN, res.TranslatedValue)
			}
			all = append(all, res)
		}
	}

	for _, o := range outcomes {
		e.triggerLocaleTranslated(o)
	}

	if e.config.outputDir != "" && len(all) > 0 {
		path := filepath.Join(e.config.outputDir, constants.IntermediateFile)
		if err := save.Atomic(path, func(w io.Writer) error { return WriteIntermediate(w, all) }); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to save intermediate translations")
		} else {
			log.Info().Str("path", path).Int("translations", len(all)).Msg("Saved intermediate translations")
		}
	}

	return out, outcomes
}

type rowKey struct {
	locale string
	key    string
}

// requests groups the missing rows by locale, in order of first appearance,
// and joins each with its reference value.
func (e *Engine) requests(ctx context.Context, ws *Workspace, records []report.TranslationRecord) []*translate.Request {
	log := logging.Ctx(ctx)

	byLocale := make(map[string]*translate.Request)
	var order []string
	seen := make(map[rowKey]bool)

	for _, r := range records {
		if r.Status != report.StatusMissing {
			continue
		}
		if r.Locale == ws.referenceLocale {
			log.Warn().Str("locale", r.Locale).Str("key", r.LabelKey).Msg("Skipping row for the reference locale")
			continue
		}
		k := rowKey{r.Locale, r.LabelKey}
		if seen[k] {
			continue
		}
		seen[k] = true

		entry, ok := ws.ReferenceCatalog.Get(r.LabelKey)
		if !ok {
			log.Warn().Str("locale", r.Locale).Str("key", r.LabelKey).Msg("Reference no longer defines key")
			continue
		}

		req, ok := byLocale[r.Locale]
		if !ok {
			req = &translate.Request{Locale: r.Locale, Language: translate.Language(r.Locale)}
			byLocale[r.Locale] = req
			order = append(order, r.Locale)
		}
		req.Items = append(req.Items, translate.Item{Key: r.LabelKey, Text: report.FormatValue(entry.Value)})
	}

	reqs := make([]*translate.Request, 0, len(order))
	for _, locale := range order {
		reqs = append(reqs, byLocale[locale])
	}
	return reqs
}

// WriteIntermediate writes results as an indented JSON array without ASCII
// or HTML escaping.
func WriteIntermediate(w io.Writer, results []translate.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if results == nil {
		results = []translate.Result{}
	}
	if err := enc.Encode(results); err != nil {
		return errors.WrapParse("json", constants.IntermediateFile, err)
	}
	return nil
}
