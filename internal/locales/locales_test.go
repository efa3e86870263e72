package locales

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/save"
	"github.com/agentstation/lexicon/pkg/tree"
)

func TestDecodeFormats(t *testing.T) {
	want := map[string]any{
		"app":  map[string]any{"title": "Hello", "count": 3.0, "enabled": true},
		"tags": []any{"a", "b"},
	}

	tests := []struct {
		name   string
		format save.Format
		src    string
	}{
		{"json", save.FormatJSON, `{"app":{"title":"Hello","count":3,"enabled":true},"tags":["a","b"]}`},
		{"yaml", save.FormatYAML, "app:\n  title: Hello\n  count: 3\n  enabled: true\ntags:\n  - a\n  - b\n"},
		{"toml", save.FormatTOML, "tags = [\"a\", \"b\"]\n\n[app]\ntitle = \"Hello\"\ncount = 3\nenabled = true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.format, strings.NewReader(tt.src), "common."+tt.name)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got.ToMap()); diff != "" {
				t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeKeepsOrder(t *testing.T) {
	js, err := Decode(save.FormatJSON, strings.NewReader(`{"z":"1","a":{"y":"2","b":"3"}}`), "order.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, js.Keys())

	ym, err := Decode(save.FormatYAML, strings.NewReader("z: 1\na:\n  y: 2\n  b: 3\n"), "order.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, ym.Keys())
	sub, _ := ym.Subtree("a")
	assert.Equal(t, []string{"y", "b"}, sub.Keys())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format save.Format
		src    string
	}{
		{"json syntax", save.FormatJSON, `{"a":`},
		{"json array", save.FormatJSON, `["a"]`},
		{"yaml list", save.FormatYAML, "- a\n- b\n"},
		{"toml syntax", save.FormatTOML, "a = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.format, strings.NewReader(tt.src), "broken")
			require.Error(t, err)
			var pe *errors.ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}

	_, err := Decode(save.FormatUnknown, strings.NewReader("{}"), "x.txt")
	assert.True(t, errors.IsValidationError(err))
}

func TestEncodeJSON(t *testing.T) {
	src := `{"b":"<b>Tom & Jerry</b>","a":{"n":2,"f":1.5}}`
	parsed, err := Decode(save.FormatJSON, strings.NewReader(src), "x.json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, save.FormatJSON, parsed, 2))
	assert.Equal(t, "{\n  \"b\": \"<b>Tom & Jerry</b>\",\n  \"a\": {\n    \"n\": 2,\n    \"f\": 1.5\n  }\n}\n", buf.String())
}

func TestEncodeRoundTrip(t *testing.T) {
	original := tree.FromMap(map[string]any{
		"menu":  map[string]any{"open": "Open", "count": 2},
		"items": []any{"x", 1.5},
	})
	for _, format := range []save.Format{save.FormatJSON, save.FormatYAML, save.FormatTOML} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, format, original, 2))
			back, err := Decode(format, &buf, "rt")
			require.NoError(t, err)
			assert.True(t, original.Equal(back), buf.String())
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"common.json":           {Data: []byte(`{"hello":"Hello"}`)},
		"settings/general.yaml": {Data: []byte("title: General\n")},
		"a.toml":                {Data: []byte("k = \"v\"\n")},
		"README.md":             {Data: []byte("# not a locale file")},
		".hidden/secret.json":   {Data: []byte(`{"x":"y"}`)},
		".draft.json":           {Data: []byte(`{"x":"y"}`)},
	}

	docs, err := LoadFS(fsys)
	require.NoError(t, err)

	var origins []string
	for _, d := range docs {
		origins = append(origins, d.Origin)
	}
	assert.Equal(t, []string{"a.toml", "common.json", "settings/general.yaml"}, origins)

	fsys["broken.json"] = &fstest.MapFile{Data: []byte(`{"x":`)}
	_, err = LoadFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.IsNotFound(err))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	doc := tree.Document{Origin: "settings/general.json", Tree: tree.FromMap(map[string]any{"title": "Allgemein"})}

	require.NoError(t, Save(dir, doc))
	data, err := os.ReadFile(filepath.Join(dir, "settings", "general.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"title\": \"Allgemein\"\n}\n", string(data))

	var preview bytes.Buffer
	doc.Tree.Set("title", "Changed")
	require.NoError(t, Save(dir, doc, save.WithDryRun(true), save.WithWriter(&preview)))
	assert.Contains(t, preview.String(), "Changed")
	data, err = os.ReadFile(filepath.Join(dir, "settings", "general.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Allgemein", "dry run leaves files alone")

	err = Save(dir, tree.Document{Origin: "../outside.json", Tree: tree.New()})
	assert.True(t, errors.IsValidationError(err))
}

func TestDiscover(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"en", "fr", "de", "cn", ".git", "not a tag"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.txt"), nil, 0o644))

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	got, err := Discover(ctx, base, "en", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cn", "de", "fr", "not a tag"}, got)
	tl.AssertContains(t, "not a BCP 47")

	got, err = Discover(ctx, base, "en", []string{"fr", "ja"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fr"}, got)
	tl.AssertContains(t, "Requested locale has no directory")

	_, err = Discover(ctx, filepath.Join(base, "missing"), "en", nil)
	assert.True(t, errors.IsNotFound(err))
}

func TestValidate(t *testing.T) {
	docs := []tree.Document{
		{Origin: "common.json", Tree: tree.FromMap(map[string]any{"ok": "x", "v1.2": map[string]any{"note": "y"}})},
	}
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	require.NoError(t, Validate(ctx, "en", docs, false))
	tl.AssertContains(t, "path separator")

	err := Validate(ctx, "en", docs, true)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "common.json:v1.2")
}
