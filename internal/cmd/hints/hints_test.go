package hints

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/reconcile"
	"github.com/agentstation/lexicon/pkg/translate"
)

func TestHintString(t *testing.T) {
	assert.Equal(t, "💡 Done", New("Done").String())
	assert.Equal(t, "💡 Missing keys\n   Run: lexicon translate", NewCommand("Missing keys", "lexicon translate").String())
}

func TestAfterCompare(t *testing.T) {
	got := AfterCompare(differ.ChangesetSummary{
		Locales:         []differ.LocaleSummary{{Locale: "de"}, {Locale: "fr"}},
		TotalMissing:    3,
		TotalExtraneous: 1,
	})
	require.Len(t, got, 2)
	assert.Equal(t, "3 missing keys across 2 locales", got[0].Message)
	assert.Equal(t, "lexicon translate", got[0].Command)
	assert.Contains(t, got[1].Message, "1 key not in")

	got = AfterCompare(differ.ChangesetSummary{Locales: []differ.LocaleSummary{{Locale: "fr"}}})
	require.Len(t, got, 1)
	assert.Equal(t, "Every locale is complete", got[0].Message)
}

func TestAfterTranslate(t *testing.T) {
	got := AfterTranslate([]translate.Outcome{
		{Locale: "fr", Translated: 1},
		{Locale: "ja", Failed: true, Err: errors.New("timeout")},
		{Locale: "de", Failed: true},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "Review 1 translation, then write them to the locale files", got[0].Message)
	assert.Equal(t, "Translation failed for de, ja", got[1].Message)
	assert.Equal(t, "lexicon translate --fresh --locales de,ja", got[1].Command)

	assert.Empty(t, AfterTranslate(nil))
}

func TestAfterPatch(t *testing.T) {
	summary := &lexicon.PatchSummary{
		DryRun: true,
		Locales: []lexicon.LocaleResult{{
			Locale: "fr",
			Files:  []lexicon.FileResult{{File: "a.json", Changed: true}, {File: "b.json"}},
			Report: reconcile.NewReport(),
		}},
	}
	got := AfterPatch(summary)
	require.Len(t, got, 1)
	assert.Equal(t, "1 file would change", got[0].Message)

	summary.DryRun = false
	assert.Empty(t, AfterPatch(summary))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, []*Hint{New("a"), New("b")})
	assert.Equal(t, "\n💡 a\n\n💡 b\n", buf.String())
}
