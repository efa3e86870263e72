package translate

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/internal/cmd/cmdtest"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/report"
	"github.com/agentstation/lexicon/pkg/translate"
)

func outcomes(t *testing.T, out string) []translate.Outcome {
	t.Helper()
	var got []translate.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	return got
}

func TestTranslateWritesReports(t *testing.T) {
	f := cmdtest.New(t)
	f.App.ProviderValue = &cmdtest.Provider{}

	out, err := cmdtest.Run(t, NewCommand(f.App))
	require.NoError(t, err)

	got := outcomes(t, out)
	require.Len(t, got, 1)
	assert.Equal(t, "fr", got[0].Locale)
	assert.Equal(t, 3, got[0].Requested)
	assert.Equal(t, 3, got[0].Translated)
	assert.False(t, got[0].Failed)

	rows, err := report.Open(f.Path("out", constants.TranslatedFile), report.ReadTranslationRecords)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	translated := map[string]string{}
	for _, r := range rows {
		if r.Status == report.StatusTranslated {
			translated[r.Locale+"/"+r.LabelKey] = report.FormatValue(r.TranslatedValue)
		}
	}
	assert.Equal(t, map[string]string{
		"fr/brand":    "fr:Lexicon",
		"fr/farewell": "fr:Goodbye",
		"fr/greeting": "fr:Hello",
	}, translated)

	assert.FileExists(t, f.Path("out", constants.IntermediateFile))
	assert.FileExists(t, f.Path("out", constants.ComparisonFile))
}

func TestTranslateDryRun(t *testing.T) {
	f := cmdtest.New(t)

	out, err := cmdtest.Run(t, NewCommand(f.App), "--dry-run")
	require.NoError(t, err)

	got := outcomes(t, out)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Requested)
	assert.NoFileExists(t, f.Path("out", constants.TranslatedFile))
}

func TestTranslateReadsExistingReport(t *testing.T) {
	f := cmdtest.New(t)
	f.App.ProviderValue = &cmdtest.Provider{}

	require.NoError(t, report.Save(f.Path("out", constants.ComparisonFile), func(w io.Writer) error {
		return report.WriteDiffRecords(w, []report.DiffRecord{
			{Locale: "fr", Status: report.StatusMissing, LabelKey: "farewell", JSONFile: "common.json"},
		})
	}))

	out, err := cmdtest.Run(t, NewCommand(f.App))
	require.NoError(t, err)
	got := outcomes(t, out)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Requested)

	out, err = cmdtest.Run(t, NewCommand(f.App), "--fresh")
	require.NoError(t, err)
	got = outcomes(t, out)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Requested)
}

func TestTranslateFailOnError(t *testing.T) {
	f := cmdtest.New(t)
	f.App.ProviderValue = &cmdtest.Provider{
		Fail: map[string]bool{"fr": true},
		Err:  errors.New("provider down"),
	}

	out, err := cmdtest.Run(t, NewCommand(f.App))
	require.NoError(t, err)
	got := outcomes(t, out)
	require.Len(t, got, 1)
	assert.True(t, got[0].Failed)
	f.Logger.AssertContains(t, "Translation failed, locale skipped")

	_, err = cmdtest.Run(t, NewCommand(f.App), "--fail-on-error")
	assert.Error(t, err)
}

func TestTranslateProviderError(t *testing.T) {
	f := cmdtest.New(t)
	f.App.ProviderFunc = func() (translate.Provider, error) {
		return nil, errors.New("no api key")
	}

	_, err := cmdtest.Run(t, NewCommand(f.App))
	assert.ErrorContains(t, err, "no api key")
	_, statErr := os.Stat(f.Path("out", constants.TranslatedFile))
	assert.True(t, os.IsNotExist(statErr))
}
