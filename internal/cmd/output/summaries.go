package output

import (
	"fmt"
	"strconv"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Status symbols used in summary tables.
const (
	symbolOK     = "✓"
	symbolFailed = "✗"
	symbolDryRun = "-"
)

// ChangesetTable converts a comparison summary to a table.
func ChangesetTable(s differ.ChangesetSummary) Data {
	data := Data{
		Headers:         []string{"Locale", "Missing", "Identical", "Extraneous", "Coverage"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
	for _, ls := range s.Locales {
		data.Rows = append(data.Rows, []string{
			ls.Locale,
			strconv.Itoa(ls.Missing),
			strconv.Itoa(ls.Identical),
			strconv.Itoa(ls.Extraneous),
			fmt.Sprintf("%.1f%%", ls.Coverage*100),
		})
	}
	return data
}

// OutcomesTable converts translation outcomes to a table.
func OutcomesTable(outcomes []translate.Outcome) Data {
	data := Data{
		Headers:         []string{"", "Locale", "Requested", "Translated", "Memory", "Batches", "Error"},
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
	for _, o := range outcomes {
		status, msg := symbolOK, ""
		if o.Failed {
			status = symbolFailed
			if o.Err != nil {
				msg = o.Err.Error()
			}
		}
		data.Rows = append(data.Rows, []string{
			status,
			o.Locale,
			strconv.Itoa(o.Requested),
			strconv.Itoa(o.Translated),
			strconv.Itoa(o.FromMemory),
			strconv.Itoa(o.Batches),
			msg,
		})
	}
	return data
}

// PatchTable converts a patch summary to a table with one row per file.
func PatchTable(s *lexicon.PatchSummary) Data {
	data := Data{
		Headers:         []string{"", "Locale", "File", "Applied", "Baseline", "Skipped", "Conflicts"},
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
	for _, lr := range s.Locales {
		for _, f := range lr.Files {
			status := ""
			switch {
			case f.Changed && s.DryRun:
				status = symbolDryRun
			case f.Changed:
				status = symbolOK
			}
			data.Rows = append(data.Rows, []string{
				status,
				f.Locale,
				f.File,
				strconv.Itoa(f.Stats.Applied),
				strconv.Itoa(f.Stats.Baseline),
				strconv.Itoa(f.Stats.Skipped),
				strconv.Itoa(f.Stats.Conflicts),
			})
		}
	}
	return data
}

// KeysTable converts a key list to a single-column table.
func KeysTable(header string, keys []string) Data {
	data := Data{Headers: []string{header}}
	for _, k := range keys {
		data.Rows = append(data.Rows, []string{k})
	}
	return data
}
