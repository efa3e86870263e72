package memory

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/internal/cmd/cmdtest"
	tm "github.com/agentstation/lexicon/internal/memory"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/translate"
)

func withStore(t *testing.T) (*cmdtest.Fixture, *tm.Store) {
	t.Helper()
	f := cmdtest.New(t)
	s, err := tm.Open(filepath.Join(f.Dir, "memory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "fr", "stub", []translate.Entry{
		{Key: "greeting", Text: "Hello", Value: "Bonjour"},
		{Key: "farewell", Text: "Goodbye", Value: "Au revoir"},
	}))
	require.NoError(t, s.Save(ctx, "de", "stub", []translate.Entry{
		{Key: "greeting", Text: "Hello", Value: "Hallo"},
	}))
	f.App.MemoryValue = s
	return f, s
}

func decode(t *testing.T, out string) []Entries {
	t.Helper()
	var rows []Entries
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	return rows
}

func TestMemoryStats(t *testing.T) {
	f, _ := withStore(t)

	out, err := cmdtest.Run(t, NewCommand(f.App), "stats")
	require.NoError(t, err)
	assert.Equal(t, []Entries{{Locale: "all", Entries: 3}}, decode(t, out))

	out, err = cmdtest.Run(t, NewCommand(f.App), "stats", "fr", "ja")
	require.NoError(t, err)
	assert.Equal(t, []Entries{{Locale: "fr", Entries: 2}, {Locale: "ja", Entries: 0}}, decode(t, out))
}

func TestMemoryForget(t *testing.T) {
	f, s := withStore(t)

	out, err := cmdtest.Run(t, NewCommand(f.App), "forget", "fr")
	require.NoError(t, err)
	assert.Equal(t, []Entries{{Locale: "fr", Entries: 2}}, decode(t, out))

	n, err := s.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, err := s.Lookup(context.Background(), "fr", translate.Item{Key: "greeting", Text: "Hello"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cmdtest.Run(t, NewCommand(f.App), "forget")
	assert.Error(t, err, "a locale is required")
}

func TestMemoryNotConfigured(t *testing.T) {
	f := cmdtest.New(t)

	_, err := cmdtest.Run(t, NewCommand(f.App), "stats")
	require.Error(t, err)
	var ce *errors.ConfigError
	assert.ErrorAs(t, err, &ce)
}
