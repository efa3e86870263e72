package report_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/reconcile"
	"github.com/agentstation/lexicon/pkg/report"
	"github.com/agentstation/lexicon/pkg/tree"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "Hello <b>", "Hello <b>"},
		{"integral float", 3.0, "3"},
		{"bool", true, "true"},
		{"list", []any{"a", 1.0}, `["a",1]`},
		{"subtree", tree.FromMap(map[string]any{"k": "v & w"}), `{"k":"v & w"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, report.FormatValue(tt.in))
		})
	}
}

func TestDiffRecordsRoundTrip(t *testing.T) {
	rows := []report.DiffRecord{
		{Locale: "de", Status: report.StatusMissing, LabelKey: "a.b", JSONFile: "common.json"},
		{Locale: "de", Status: report.StatusExtraneous, LabelKey: "old", JSONFile: "common.json"},
	}
	var buf bytes.Buffer
	require.NoError(t, report.WriteDiffRecords(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), "locale,status,label_key,json_file\n"))

	got, err := report.ReadDiffRecords(&buf, "diff.csv")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadDiffRecordsRejectsUnknownStatus(t *testing.T) {
	in := "locale,status,label_key,json_file\nde,stale,a,common.json\n"
	_, err := report.ReadDiffRecords(strings.NewReader(in), "diff.csv")
	require.Error(t, err)
	var pe *errors.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestTranslationRecords(t *testing.T) {
	t.Run("written with BOM and read back", func(t *testing.T) {
		rec := report.TranslationRecord{
			DiffRecord: report.DiffRecord{Locale: "fr", Status: report.StatusMissing, LabelKey: "a.b", JSONFile: "common.json"},
		}
		rec.SetTranslation("Hello", "Bonjour, ça va")
		assert.Equal(t, report.StatusTranslated, rec.Status)
		assert.Equal(t, 5, rec.ENLength)
		assert.Equal(t, 14, rec.TranslatedLength)

		pending := report.TranslationRecord{
			DiffRecord: report.DiffRecord{Locale: "fr", Status: report.StatusMissing, LabelKey: "c", JSONFile: "common.json"},
		}

		var buf bytes.Buffer
		require.NoError(t, report.WriteTranslationRecords(&buf, []report.TranslationRecord{rec, pending}, true))
		assert.True(t, strings.HasPrefix(buf.String(), "\uFEFFlocale,"))
		assert.Contains(t, buf.String(), "fr,missing,c,common.json,,,,\n")

		got, err := report.ReadTranslationRecords(&buf, "translated.csv")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Bonjour, ça va", got[0].TranslatedValue)
		assert.Equal(t, 14, got[0].TranslatedLength)
		assert.Equal(t, report.StatusMissing, got[1].Status)
	})

	t.Run("minimal columns", func(t *testing.T) {
		in := "label_key,translated_value,json_file,locale\nx.y,Hallo,common.json,de\nz,,common.json,de\n"
		got, err := report.ReadTranslationRecords(strings.NewReader(in), "patch.csv")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, report.StatusTranslated, got[0].Status)
		assert.Equal(t, report.StatusMissing, got[1].Status)
	})

	t.Run("spreadsheet lengths", func(t *testing.T) {
		in := "locale,json_file,label_key,translated_value,en_length,translated_length\nde,c.json,k,v,5.0,7\n"
		got, err := report.ReadTranslationRecords(strings.NewReader(in), "patch.csv")
		require.NoError(t, err)
		assert.Equal(t, 5, got[0].ENLength)
		assert.Equal(t, 7, got[0].TranslatedLength)
	})

	t.Run("missing required column", func(t *testing.T) {
		in := "locale,json_file,label_key\nde,c.json,k\n"
		_, err := report.ReadTranslationRecords(strings.NewReader(in), "patch.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "translated_value")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := report.ReadTranslationRecords(strings.NewReader(""), "patch.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing header row")
	})
}

func TestPatches(t *testing.T) {
	records := []report.TranslationRecord{
		{DiffRecord: report.DiffRecord{Locale: "fr", Status: report.StatusTranslated, LabelKey: "a", JSONFile: "c.json"}, TranslatedValue: "A"},
		{DiffRecord: report.DiffRecord{Locale: "fr", Status: report.StatusExtraneous, LabelKey: "old", JSONFile: "c.json"}},
		{DiffRecord: report.DiffRecord{Locale: "fr", Status: report.StatusMissing, LabelKey: "b", JSONFile: "c.json"}, TranslatedValue: ""},
	}
	assert.Equal(t, []reconcile.Patch{
		{Locale: "fr", File: "c.json", Key: "a", Value: "A"},
		{Locale: "fr", File: "c.json", Key: "b", Value: ""},
	}, report.Patches(records))
}

func TestQA(t *testing.T) {
	ref := tree.FlattenAll([]tree.Document{
		{Origin: "common.json", Tree: tree.FromMap(map[string]any{"greet": "Hello"})},
		{Origin: "extra.json", Tree: tree.FromMap(map[string]any{"bye": "Bye"})},
	})
	de := tree.FlattenAll([]tree.Document{
		{Origin: "common.json", Tree: tree.FromMap(map[string]any{"greet": "Hallo", "bye": "Tschüss"})},
	})
	fr := tree.Flatten(tree.FromMap(map[string]any{"greet": "Bonjour"}), "common.json")

	table := report.BuildQA(ref, map[string]*tree.Catalog{"fr": fr, "de": de})
	assert.Equal(t, []string{"de", "fr"}, table.Locales)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Hallo", table.Rows[0].Values["de"])
	_, ok := table.Rows[1].Values["de"]
	assert.False(t, ok, "values from another file are not matched")

	var buf bytes.Buffer
	require.NoError(t, report.WriteQA(&buf, table))
	assert.Equal(t,
		"json_file,key,english,de,fr\ncommon.json,greet,Hello,Hallo,Bonjour\nextra.json,bye,Bye,,\n",
		buf.String())
}

func TestSaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "unused_keys.csv")
	require.NoError(t, report.Save(path, func(w io.Writer) error {
		return report.WriteUnusedKeys(w, []string{"a.b", "c"})
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "unused_key\na.b\nc\n", string(data))

	labels := []report.ReferenceLabel{{LabelKey: "k", Value: "v", JSONFile: "common.json"}}
	labelPath := filepath.Join(filepath.Dir(path), "english_labels.csv")
	require.NoError(t, report.Save(labelPath, func(w io.Writer) error {
		return report.WriteReferenceLabels(w, labels)
	}))
	got, err := report.Open(labelPath, report.ReadReferenceLabels)
	require.NoError(t, err)
	assert.Equal(t, labels, got)

	_, err = report.Open(filepath.Join(t.TempDir(), "nope.csv"), report.ReadDiffRecords)
	assert.Error(t, err)
}
