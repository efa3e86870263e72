package translate_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/translate"
)

// fakeProvider answers with fn and records every request it saw.
type fakeProvider struct {
	mu       sync.Mutex
	requests []*translate.Request
	fn       func(ctx context.Context, req *translate.Request) (*translate.Response, error)
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Translate(ctx context.Context, req *translate.Request) (*translate.Response, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	return p.fn(ctx, req)
}

// echo translates every item to "<locale>:<text>".
func echo(_ context.Context, req *translate.Request) (*translate.Response, error) {
	resp := &translate.Response{}
	for _, it := range req.Items {
		resp.Result = append(resp.Result, translate.Result{
			Key:             it.Key,
			EN:              it.Text,
			TranslatedValue: req.Locale + ":" + it.Text,
			Locale:          req.Locale,
		})
	}
	return resp, nil
}

type mapMemory struct {
	mu    sync.Mutex
	data  map[string]any
	saved int
}

func newMapMemory() *mapMemory {
	return &mapMemory{data: map[string]any{}}
}

func (m *mapMemory) Lookup(_ context.Context, locale string, item translate.Item) (any, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[locale+"|"+item.Key+"|"+item.Text]
	return v, ok, nil
}

func (m *mapMemory) Save(_ context.Context, locale, _ string, entries []translate.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.data[locale+"|"+e.Key+"|"+e.Text] = e.Value
		m.saved++
	}
	return nil
}

func items(keys ...string) []translate.Item {
	out := make([]translate.Item, len(keys))
	for i, k := range keys {
		out[i] = translate.Item{Key: k, Text: "text " + k}
	}
	return out
}

func TestParseResponse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		resp, err := translate.ParseResponse("openai", []byte(`{"result":[{"key":"a.b","en":"Hello","translated_value":"Bonjour","locale":"fr"}]}`))
		require.NoError(t, err)
		require.Len(t, resp.Result, 1)
		assert.Equal(t, translate.Result{Key: "a.b", EN: "Hello", TranslatedValue: "Bonjour", Locale: "fr"}, resp.Result[0])
	})

	t.Run("fenced", func(t *testing.T) {
		resp, err := translate.ParseResponse("gemini", []byte("```json\n{\"result\":[]}\n```"))
		require.NoError(t, err)
		assert.Empty(t, resp.Result)
	})

	for name, raw := range map[string]string{
		"empty":        "",
		"whitespace":   "  \n",
		"not json":     "Sure! Here are your translations",
		"no result":    `{"translations":[]}`,
		"wrong shape":  `{"result":"none"}`,
		"array at top": `[{"key":"a"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := translate.ParseResponse("openai", []byte(raw))
			require.Error(t, err)
			assert.True(t, errors.IsBadResponse(err))
		})
	}
}

func TestLanguage(t *testing.T) {
	tests := map[string]string{
		"fr":      "French",
		"de":      "German",
		"ja":      "Japanese",
		"cn":      "Chinese",
		"zh":      "Chinese",
		"fil":     "Filipino",
		"not a!!": "not a!!",
	}
	for locale, want := range tests {
		assert.Equal(t, want, translate.Language(locale), locale)
	}
}

func TestPromptRender(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var p *translate.Prompt
		out, err := p.Render("fr")
		require.NoError(t, err)
		assert.Contains(t, out, "into French")
		assert.Contains(t, out, translate.DefaultContext)
		assert.Contains(t, out, `"locale": "fr"`)
		assert.Contains(t, out, "{{count}}")
		assert.NotContains(t, out, "Glossary")
	})

	t.Run("context and glossary", func(t *testing.T) {
		p := &translate.Prompt{
			Context:  "A cryptocurrency mining dashboard.",
			Glossary: map[string]string{"Hashrate": "mining speed", "Floor": "minimum value"},
		}
		out, err := p.Render("de")
		require.NoError(t, err)
		assert.Contains(t, out, "A cryptocurrency mining dashboard.")
		assert.Contains(t, out, "Glossary of Specific Terms:\nFloor: minimum value\nHashrate: mining speed\n")
	})
}

func TestBatcherTranslate(t *testing.T) {
	nop := translate.WithLogger(logging.NewNopLogger())

	t.Run("single batch by default", func(t *testing.T) {
		p := &fakeProvider{fn: echo}
		results, out := translate.NewBatcher(p, nop).Translate(context.Background(),
			&translate.Request{Locale: "fr", Items: items("a", "b", "c")})

		require.Len(t, p.requests, 1)
		assert.Equal(t, "French", p.requests[0].Language)
		assert.NotEmpty(t, p.requests[0].Instructions)
		assert.Len(t, results, 3)
		assert.Equal(t, translate.Outcome{Locale: "fr", Requested: 3, Translated: 3, Batches: 1}, out)
	})

	t.Run("batch size splits requests in order", func(t *testing.T) {
		p := &fakeProvider{fn: echo}
		results, out := translate.NewBatcher(p, nop, translate.WithBatchSize(2)).Translate(context.Background(),
			&translate.Request{Locale: "de", Items: items("a", "b", "c", "d", "e")})

		require.Len(t, p.requests, 3)
		assert.Equal(t, []string{"a", "b"}, p.requests[0].Keys())
		assert.Equal(t, []string{"e"}, p.requests[2].Keys())
		assert.Len(t, results, 5)
		assert.Equal(t, 3, out.Batches)
	})

	t.Run("failed batch aborts the locale", func(t *testing.T) {
		calls := 0
		p := &fakeProvider{fn: func(ctx context.Context, req *translate.Request) (*translate.Response, error) {
			calls++
			if calls == 2 {
				return nil, errors.NewAPIError("fake", 500, "boom")
			}
			return echo(ctx, req)
		}}
		results, out := translate.NewBatcher(p, nop, translate.WithBatchSize(1)).Translate(context.Background(),
			&translate.Request{Locale: "de", Items: items("a", "b", "c")})

		assert.Nil(t, results)
		assert.True(t, out.Failed)
		assert.Equal(t, 2, calls, "remaining batches are not sent")
		assert.True(t, errors.IsBatchFailed(out.Err))
		assert.True(t, errors.IsProviderUnavailable(out.Err))
		var be *errors.BatchError
		require.ErrorAs(t, out.Err, &be)
		assert.Equal(t, 2, be.Batch)
	})

	t.Run("unknown keys are dropped", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		p := &fakeProvider{fn: func(_ context.Context, req *translate.Request) (*translate.Response, error) {
			return &translate.Response{Result: []translate.Result{
				{Key: "a", TranslatedValue: "A", Locale: "xx"},
				{Key: "invented", TranslatedValue: "?"},
			}}, nil
		}}
		results, out := translate.NewBatcher(p, translate.WithLogger(tl.Logger)).Translate(context.Background(),
			&translate.Request{Locale: "fr", Items: items("a", "b")})

		require.Len(t, results, 1)
		assert.Equal(t, translate.Result{Key: "a", EN: "text a", TranslatedValue: "A", Locale: "fr"}, results[0])
		assert.Equal(t, 1, out.Translated)
		tl.AssertContains(t, "not requested")
		tl.AssertContains(t, "untranslated")
	})

	t.Run("blank answers stay untranslated", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		mem := newMapMemory()
		p := &fakeProvider{fn: func(_ context.Context, req *translate.Request) (*translate.Response, error) {
			return &translate.Response{Result: []translate.Result{
				{Key: "a", TranslatedValue: ""},
				{Key: "b", TranslatedValue: nil},
				{Key: "c", TranslatedValue: "  "},
				{Key: "d", TranslatedValue: "D"},
			}}, nil
		}}
		results, out := translate.NewBatcher(p, translate.WithLogger(tl.Logger), translate.WithMemory(mem)).Translate(
			context.Background(), &translate.Request{Locale: "fr", Items: items("a", "b", "c", "d")})

		require.Len(t, results, 1)
		assert.Equal(t, "d", results[0].Key)
		assert.Equal(t, 1, out.Translated)
		assert.Equal(t, 1, mem.saved, "only the usable answer is remembered")
		tl.AssertContains(t, "blank value")
	})

	t.Run("empty result list warns", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		p := &fakeProvider{fn: func(context.Context, *translate.Request) (*translate.Response, error) {
			return &translate.Response{}, nil
		}}
		results, out := translate.NewBatcher(p, translate.WithLogger(tl.Logger)).Translate(context.Background(),
			&translate.Request{Locale: "fr", Items: items("a")})

		assert.Empty(t, results)
		assert.False(t, out.Failed)
		tl.AssertContains(t, "No translations were returned")
	})

	t.Run("timeout", func(t *testing.T) {
		p := &fakeProvider{fn: func(ctx context.Context, _ *translate.Request) (*translate.Response, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
		_, out := translate.NewBatcher(p, nop, translate.WithTimeout(10*time.Millisecond)).Translate(context.Background(),
			&translate.Request{Locale: "ja", Items: items("a")})

		assert.True(t, out.Failed)
		assert.True(t, errors.IsTimeout(out.Err))
	})

	t.Run("memory is consulted first and filled", func(t *testing.T) {
		mem := newMapMemory()
		mem.data["fr|a|text a"] = "remembered"
		mem.data["fr|b|stale source"] = "outdated"

		p := &fakeProvider{fn: echo}
		b := translate.NewBatcher(p, nop, translate.WithMemory(mem))
		results, out := b.Translate(context.Background(), &translate.Request{Locale: "fr", Items: items("a", "b")})

		require.Len(t, p.requests, 1)
		assert.Equal(t, []string{"b"}, p.requests[0].Keys())
		assert.Equal(t, "remembered", results[0].TranslatedValue)
		assert.Equal(t, 1, out.FromMemory)
		assert.Equal(t, 2, out.Translated)
		assert.Equal(t, 1, mem.saved)

		_, out = b.Translate(context.Background(), &translate.Request{Locale: "fr", Items: items("a", "b")})
		assert.Len(t, p.requests, 1, "second run is served from memory")
		assert.Equal(t, 2, out.FromMemory)
		assert.Zero(t, out.Batches)
	})
}

func TestBatcherRunIsolatesLocales(t *testing.T) {
	p := &fakeProvider{fn: func(ctx context.Context, req *translate.Request) (*translate.Response, error) {
		if req.Locale == "de" {
			return nil, fmt.Errorf("connection reset")
		}
		return echo(ctx, req)
	}}
	reqs := []*translate.Request{
		{Locale: "de", Items: items("a")},
		{Locale: "fr", Items: items("a", "b")},
		{Locale: "ja", Items: items("a")},
	}
	results, outcomes := translate.NewBatcher(p,
		translate.WithLogger(logging.NewNopLogger()),
		translate.WithConcurrency(2),
	).Run(context.Background(), reqs)

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Failed)
	assert.Nil(t, results[0])
	assert.False(t, outcomes[1].Failed)
	assert.Len(t, results[1], 2)
	assert.Equal(t, "ja:text a", results[2][0].TranslatedValue)
	assert.Contains(t, outcomes[0].String(), "de: failed")
	assert.Equal(t, "fr: 2/2 translated (0 from memory)", outcomes[1].String())
}
