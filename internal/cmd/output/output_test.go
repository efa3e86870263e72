package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/reconcile"
	"github.com/agentstation/lexicon/pkg/translate"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"table", FormatTable, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestPrintChangeset(t *testing.T) {
	summary := differ.ChangesetSummary{
		ReferenceKeys: 4,
		Locales: []differ.LocaleSummary{
			{Locale: "fr", Missing: 2, Identical: 1, Coverage: 0.5},
		},
		TotalMissing: 2,
		TotalChanges: 2,
	}
	table := func() Data { return ChangesetTable(summary) }

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatTable, summary, table))
	assert.Contains(t, buf.String(), "fr")
	assert.Contains(t, buf.String(), "50.0%")

	buf.Reset()
	require.NoError(t, Print(&buf, FormatJSON, summary, table))
	assert.Contains(t, buf.String(), `"total_missing": 2`)

	buf.Reset()
	require.NoError(t, Print(&buf, FormatYAML, summary, table))
	assert.Contains(t, buf.String(), "reference_keys: 4")
}

func TestOutcomesTable(t *testing.T) {
	data := OutcomesTable([]translate.Outcome{
		{Locale: "de", Requested: 3, Translated: 3, Batches: 1},
		{Locale: "fr", Requested: 2, Failed: true, Err: errors.New("boom")},
	})
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{symbolOK, "de", "3", "3", "0", "1", ""}, data.Rows[0])
	assert.Equal(t, symbolFailed, data.Rows[1][0])
	assert.Equal(t, "boom", data.Rows[1][6])
}

func TestPatchTable(t *testing.T) {
	summary := &lexicon.PatchSummary{
		DryRun: true,
		Locales: []lexicon.LocaleResult{{
			Locale: "fr",
			Files: []lexicon.FileResult{
				{Locale: "fr", File: "common.json", Changed: true, Stats: reconcile.Stats{Applied: 1, Baseline: 2}},
				{Locale: "fr", File: "home.json"},
			},
		}},
	}
	data := PatchTable(summary)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{symbolDryRun, "fr", "common.json", "1", "2", "0", "0"}, data.Rows[0])
	assert.Equal(t, "", data.Rows[1][0])
}

func TestPrintReflectsStructs(t *testing.T) {
	type row struct {
		LocaleName string `json:"locale_name"`
		Count      int
		Err        error `json:"-"`
		hidden     string
	}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatTable, []row{{LocaleName: "fr", Count: 2, hidden: "x"}}, nil))
	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "locale name")
	assert.Contains(t, out, "count")
	assert.Contains(t, out, "fr")
	assert.NotContains(t, out, "err")

	buf.Reset()
	require.NoError(t, Print(&buf, FormatTable, row{LocaleName: "de"}, nil))
	out = strings.ToLower(buf.String())
	assert.Contains(t, out, "property")
	assert.Contains(t, out, "de")
}

func TestPrintFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatTable, []string{}, nil))
	assert.Equal(t, "[]\n", buf.String())
}
