package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/translate"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache", "memory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, "fr", "openai", []translate.Entry{
		{Key: "a.b", Text: "Hello", Value: "Bonjour"},
		{Key: "list", Text: "['x']", Value: []any{"x"}},
	}))

	v, ok, err := s.Lookup(ctx, "fr", translate.Item{Key: "a.b", Text: "Hello"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bonjour", v)

	v, ok, err = s.Lookup(ctx, "fr", translate.Item{Key: "list", Text: "['x']"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{"x"}, v)

	_, ok, err = s.Lookup(ctx, "fr", translate.Item{Key: "a.b", Text: "Hello!"})
	require.NoError(t, err)
	assert.False(t, ok, "changed source text is a miss")

	_, ok, err = s.Lookup(ctx, "de", translate.Item{Key: "a.b", Text: "Hello"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	entry := translate.Entry{Key: "k", Text: "Save", Value: "Sichern"}
	require.NoError(t, s.Save(ctx, "de", "openai", []translate.Entry{entry}))
	entry.Value = "Speichern"
	require.NoError(t, s.Save(ctx, "de", "gemini", []translate.Entry{entry}))

	v, _, err := s.Lookup(ctx, "de", translate.Item{Key: "k", Text: "Save"})
	require.NoError(t, err)
	assert.Equal(t, "Speichern", v)

	n, err := s.Count(ctx, "de")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountAndForget(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, "de", "openai", []translate.Entry{{Key: "a", Text: "A", Value: "A"}}))
	require.NoError(t, s.Save(ctx, "fr", "openai", []translate.Entry{{Key: "a", Text: "A", Value: "A"}, {Key: "b", Text: "B", Value: "B"}}))
	require.NoError(t, s.Save(ctx, "fr", "openai", nil))

	total, err := s.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	removed, err := s.Forget(ctx, "fr")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	total, err = s.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "memory.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "ja", "openai", []translate.Entry{{Key: "k", Text: "Hi", Value: "こんにちは"}}))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Lookup(ctx, "ja", translate.Item{Key: "k", Text: "Hi"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "こんにちは", v)
	assert.Equal(t, path, s.Path())
}

func TestBatcherUsesStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Save(ctx, "fr", "openai", []translate.Entry{{Key: "k", Text: "Hello", Value: "Bonjour"}}))

	p := providerFunc(func(context.Context, *translate.Request) (*translate.Response, error) {
		t.Fatal("provider must not be called when every item is remembered")
		return nil, nil
	})
	results, out := translate.NewBatcher(p, translate.WithMemory(s)).Translate(ctx,
		&translate.Request{Locale: "fr", Items: []translate.Item{{Key: "k", Text: "Hello"}}})

	require.Len(t, results, 1)
	assert.Equal(t, "Bonjour", results[0].TranslatedValue)
	assert.Equal(t, 1, out.FromMemory)
}

func TestSaveSkipsBlankValues(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, "fr", "openai", []translate.Entry{
		{Key: "empty", Text: "Hello", Value: ""},
		{Key: "null", Text: "Hello", Value: nil},
		{Key: "space", Text: "Hello", Value: " \n"},
		{Key: "ok", Text: "Hello", Value: "Bonjour"},
	}))

	n, err := s.Count(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, err := s.Lookup(ctx, "fr", translate.Item{Key: "empty", Text: "Hello"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupTreatsStoredBlankAsMiss(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (locale, label_key, source_text, value, provider, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"fr", "k", "Hello", `""`, "openai", "2024-01-01T00:00:00Z")
	require.NoError(t, err)

	_, ok, err := s.Lookup(ctx, "fr", translate.Item{Key: "k", Text: "Hello"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBatcherRetriesBlankAnswers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	calls := 0
	p := providerFunc(func(_ context.Context, req *translate.Request) (*translate.Response, error) {
		calls++
		value := "Bonjour"
		if calls == 1 {
			value = ""
		}
		return &translate.Response{Result: []translate.Result{{Key: "k", TranslatedValue: value}}}, nil
	})
	b := translate.NewBatcher(p, translate.WithMemory(s), translate.WithLogger(logging.NewNopLogger()))
	req := &translate.Request{Locale: "fr", Items: []translate.Item{{Key: "k", Text: "Hello"}}}

	results, out := b.Translate(ctx, req)
	assert.Empty(t, results)
	assert.Zero(t, out.Translated)

	results, out = b.Translate(ctx, req)
	assert.Equal(t, 2, calls, "blank answer is asked again")
	assert.Zero(t, out.FromMemory)
	require.Len(t, results, 1)
	assert.Equal(t, "Bonjour", results[0].TranslatedValue)

	_, out = b.Translate(ctx, req)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, out.FromMemory)
}

type providerFunc func(context.Context, *translate.Request) (*translate.Response, error)

func (providerFunc) Name() string { return "func" }

func (f providerFunc) Translate(ctx context.Context, req *translate.Request) (*translate.Response, error) {
	return f(ctx, req)
}
