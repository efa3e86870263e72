package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/lexicon/pkg/coerce"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/logging"
)

// Outcome summarizes the translation of one locale.
type Outcome struct {
	Locale     string `json:"locale" yaml:"locale"`
	Requested  int    `json:"requested" yaml:"requested"`
	Translated int    `json:"translated" yaml:"translated"`
	FromMemory int    `json:"from_memory" yaml:"from_memory"`
	Batches    int    `json:"batches" yaml:"batches"`
	Failed     bool   `json:"failed" yaml:"failed"`
	Err        error  `json:"-" yaml:"-"`
}

// Batcher drives a provider for one or more locales.
type Batcher struct {
	provider    Provider
	memory      Memory
	prompt      *Prompt
	batchSize   int
	timeout     time.Duration
	concurrency int
	logger      *zerolog.Logger
}

// Option configures a Batcher.
type Option func(*Batcher)

// WithMemory consults and fills m around provider calls.
func WithMemory(m Memory) Option {
	return func(b *Batcher) {
		b.memory = m
	}
}

// WithPrompt sets the instructions rendered for each locale.
func WithPrompt(p *Prompt) Option {
	return func(b *Batcher) {
		b.prompt = p
	}
}

// WithBatchSize splits each locale into requests of at most n items.
// Zero or less sends everything in one request.
func WithBatchSize(n int) Option {
	return func(b *Batcher) {
		b.batchSize = n
	}
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(b *Batcher) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithConcurrency sets how many locales run in parallel.
func WithConcurrency(n int) Option {
	return func(b *Batcher) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(b *Batcher) {
		b.logger = logger
	}
}

// NewBatcher returns a batcher for provider.
func NewBatcher(provider Provider, opts ...Option) *Batcher {
	b := &Batcher{
		provider:    provider,
		batchSize:   constants.DefaultBatchSize,
		timeout:     constants.DefaultProviderTimeout,
		concurrency: constants.DefaultConcurrency,
		logger:      logging.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run translates every request, one locale per goroutine, bounded by the
// configured concurrency. Results and outcomes keep the order of reqs. A
// failing locale never cancels the others.
func (b *Batcher) Run(ctx context.Context, reqs []*Request) ([][]Result, []Outcome) {
	results := make([][]Result, len(reqs))
	outcomes := make([]Outcome, len(reqs))

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i], outcomes[i] = b.Translate(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results, outcomes
}

// Translate handles one locale. Items found in memory are not sent. The rest
// go out in sequential batches; the first failed batch aborts the locale and
// no results are returned for it.
func (b *Batcher) Translate(ctx context.Context, req *Request) ([]Result, Outcome) {
	log := b.logger.With().
		Str("locale", req.Locale).
		Str("provider", b.provider.Name()).
		Logger()
	out := Outcome{Locale: req.Locale, Requested: len(req.Items)}

	fail := func(batch, keys int, err error) ([]Result, Outcome) {
		out.Failed = true
		out.Err = &errors.BatchError{
			Locale:   req.Locale,
			Provider: b.provider.Name(),
			Batch:    batch,
			Keys:     keys,
			Err:      err,
		}
		out.Translated = 0
		log.Warn().Err(out.Err).Msg("Translation failed, locale skipped")
		return nil, out
	}

	language := req.Language
	if language == "" {
		language = Language(req.Locale)
	}
	instructions := req.Instructions
	if instructions == "" {
		rendered, err := b.prompt.Render(req.Locale)
		if err != nil {
			return fail(0, len(req.Items), err)
		}
		instructions = rendered
	}

	var results []Result
	pending := b.recall(ctx, req, &results, &log)
	out.FromMemory = len(results)

	for i, batch := range split(pending, b.batchSize) {
		if err := ctx.Err(); err != nil {
			return fail(i+1, len(batch), err)
		}
		out.Batches++

		log.Info().
			Int("batch", i+1).
			Int("keys", len(batch)).
			Str("language", language).
			Msg("Requesting translations")

		accepted, err := b.send(ctx, &Request{
			Locale:       req.Locale,
			Language:     language,
			Instructions: instructions,
			Items:        batch,
		}, &log)
		if err != nil {
			return fail(i+1, len(batch), err)
		}
		results = append(results, accepted...)
		b.remember(ctx, req.Locale, batch, accepted, &log)
	}

	out.Translated = len(results)
	if len(results) == 0 && len(req.Items) > 0 {
		log.Warn().Int("requested", len(req.Items)).Msg("No translations were returned")
	}
	return results, out
}

// send performs one provider call under the timeout and validates the answer
// against the batch.
func (b *Batcher) send(ctx context.Context, req *Request, log *zerolog.Logger) ([]Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.provider.Translate(callCtx, req)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, errors.NewTimeoutError("translate "+req.Locale, b.timeout.String(), err.Error())
		}
		return nil, err
	}
	if resp == nil {
		return nil, errors.NewResponseError(b.provider.Name(), "nil response", nil)
	}
	return validate(req, resp, log), nil
}

// validate keeps results whose key was requested and whose value is not
// blank. A blank answer leaves the key untranslated so the next run asks
// again. The request's locale and source text win over whatever the
// provider echoed back.
func validate(req *Request, resp *Response, log *zerolog.Logger) []Result {
	texts := make(map[string]string, len(req.Items))
	for _, it := range req.Items {
		texts[it.Key] = it.Text
	}

	seen := make(map[string]int, len(resp.Result))
	accepted := make([]Result, 0, len(resp.Result))
	for _, r := range resp.Result {
		text, ok := texts[r.Key]
		if !ok {
			log.Warn().Str("key", r.Key).Msg("Dropped translation for a key that was not requested")
			continue
		}
		if coerce.IsBlank(r.TranslatedValue) {
			log.Warn().Str("key", r.Key).Msg("Provider returned a blank value, key left untranslated")
			continue
		}
		if r.Locale != "" && r.Locale != req.Locale {
			log.Debug().Str("key", r.Key).Str("echoed", r.Locale).Msg("Provider echoed a different locale")
		}
		r.Locale = req.Locale
		r.EN = text
		if i, dup := seen[r.Key]; dup {
			accepted[i] = r
			continue
		}
		seen[r.Key] = len(accepted)
		accepted = append(accepted, r)
	}

	if missing := len(req.Items) - len(accepted); missing > 0 {
		log.Warn().Int("missing", missing).Msg("Provider left keys untranslated")
	}
	return accepted
}

// recall fills results from memory and returns the items still to send.
func (b *Batcher) recall(ctx context.Context, req *Request, results *[]Result, log *zerolog.Logger) []Item {
	if b.memory == nil {
		return req.Items
	}
	pending := make([]Item, 0, len(req.Items))
	for _, it := range req.Items {
		v, ok, err := b.memory.Lookup(ctx, req.Locale, it)
		if err != nil {
			log.Warn().Err(err).Str("key", it.Key).Msg("Translation memory lookup failed")
		}
		if err != nil || !ok {
			pending = append(pending, it)
			continue
		}
		*results = append(*results, Result{Key: it.Key, EN: it.Text, TranslatedValue: v, Locale: req.Locale})
	}
	if hits := len(req.Items) - len(pending); hits > 0 {
		log.Debug().Int("hits", hits).Msg("Reused remembered translations")
	}
	return pending
}

func (b *Batcher) remember(ctx context.Context, locale string, batch []Item, accepted []Result, log *zerolog.Logger) {
	if b.memory == nil || len(accepted) == 0 {
		return
	}
	texts := make(map[string]string, len(batch))
	for _, it := range batch {
		texts[it.Key] = it.Text
	}
	entries := make([]Entry, 0, len(accepted))
	for _, r := range accepted {
		if coerce.IsBlank(r.TranslatedValue) {
			continue
		}
		entries = append(entries, Entry{Key: r.Key, Text: texts[r.Key], Value: r.TranslatedValue})
	}
	if err := b.memory.Save(ctx, locale, b.provider.Name(), entries); err != nil {
		log.Warn().Err(err).Msg("Failed to save translations to memory")
	}
}

// split cuts items into consecutive batches of at most size items.
func split(items []Item, size int) [][]Item {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]Item{items}
	}
	batches := make([][]Item, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o.Failed {
		return fmt.Sprintf("%s: failed (%v)", o.Locale, o.Err)
	}
	return fmt.Sprintf("%s: %d/%d translated (%d from memory)", o.Locale, o.Translated, o.Requested, o.FromMemory)
}
