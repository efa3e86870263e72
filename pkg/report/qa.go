package report

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/agentstation/lexicon/pkg/tree"
)

// QARow holds one reference path and its value in every locale.
type QARow struct {
	JSONFile string
	Key      string
	English  any
	Values   map[string]any
}

// QATable is the side-by-side translation review sheet.
type QATable struct {
	Locales []string
	Rows    []QARow
}

// BuildQA lines up every reference path with the value each locale holds for
// it. A locale value counts only when it comes from the same file as the
// reference value; anything else is left empty.
func BuildQA(reference *tree.Catalog, locales map[string]*tree.Catalog) *QATable {
	names := make([]string, 0, len(locales))
	for name := range locales {
		names = append(names, name)
	}
	sort.Strings(names)

	table := &QATable{Locales: names}
	for _, key := range reference.Ordered() {
		ref, _ := reference.Get(key)
		row := QARow{
			JSONFile: ref.Origin,
			Key:      key,
			English:  ref.Value,
			Values:   make(map[string]any, len(names)),
		}
		for _, name := range names {
			if e, ok := locales[name].Get(key); ok && e.Origin == ref.Origin {
				row.Values[name] = e.Value
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// WriteQA writes json_file,key,english followed by one column per locale.
func WriteQA(w io.Writer, table *QATable) error {
	cols := append([]string{ColJSONFile, "key", "english"}, table.Locales...)
	return writeRows(w, cols, func(cw *csv.Writer) error {
		rec := make([]string, len(cols))
		for _, row := range table.Rows {
			rec[0], rec[1], rec[2] = row.JSONFile, row.Key, FormatValue(row.English)
			for i, name := range table.Locales {
				rec[3+i] = FormatValue(row.Values[name])
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
