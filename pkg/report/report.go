// Package report defines the tabular records exchanged with operators and
// external tools, and reads and writes them as CSV.
//
// Every reader validates the header before any row enters the engine, so a
// renamed or missing column fails fast with a ParseError instead of producing
// empty patches.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/save"
	"github.com/agentstation/lexicon/pkg/tree"
)

// Status is the state of a key in a diff or translation record.
type Status string

const (
	StatusMissing    Status = "missing"
	StatusExtraneous Status = "extraneous"
	StatusTranslated Status = "translated"
)

// utf8BOM is written by spreadsheet tools and stripped on read.
const utf8BOM = "\uFEFF"

// FormatValue renders a leaf for a CSV cell: strings verbatim, nil as empty,
// everything else as compact JSON.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *tree.Tree:
		b, err := x.MarshalJSON()
		if err != nil {
			return fmt.Sprint(x.ToMap())
		}
		return string(b)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(tree.Normalize(v)); err != nil {
			return fmt.Sprint(v)
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}

// header maps column names to positions.
type header map[string]int

func readHeader(cr *csv.Reader, name string, required ...string) (header, error) {
	rec, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("csv", name, "missing header row", err)
	}
	if err != nil {
		return nil, errors.WrapParse("csv", name, err)
	}

	h := make(header, len(rec))
	for i, col := range rec {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		h[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, errors.NewParseError("csv", name, fmt.Sprintf("missing required column %q", col), nil)
		}
	}
	return h, nil
}

func (h header) get(rec []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func (h header) has(col string) bool {
	_, ok := h[col]
	return ok
}

// readRows validates the header and calls fn for each data row.
func readRows(r io.Reader, name string, required []string, fn func(h header, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	h, err := readHeader(cr, name, required...)
	if err != nil {
		return err
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.WrapParse("csv", name, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if err := fn(h, rec); err != nil {
			return err
		}
	}
}

// writeRows writes a header and rows, flushing at the end.
func writeRows(w io.Writer, cols []string, rows func(cw *csv.Writer) error) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	if err := rows(cw); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Save writes a report file through write, creating parent directories.
// The file is replaced atomically.
func Save(path string, write func(w io.Writer) error) error {
	return save.Atomic(path, write)
}

// Open reads a report file through read.
func Open[T any](path string, read func(r io.Reader, name string) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, errors.WrapIO("open", path, err)
	}
	defer f.Close()
	return read(f, path)
}
