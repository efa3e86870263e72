package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/lexicon/pkg/errors"
)

// Column names shared by the record schemas.
const (
	ColLabelKey         = "label_key"
	ColValue            = "value"
	ColJSONFile         = "json_file"
	ColLocale           = "locale"
	ColStatus           = "status"
	ColTranslatedValue  = "translated_value"
	ColOriginalENValue  = "original_en_value"
	ColENLength         = "en_length"
	ColTranslatedLength = "translated_length"
	ColUnusedKey        = "unused_key"
)

// ReferenceLabel is one flattened reference path.
type ReferenceLabel struct {
	LabelKey string
	Value    any
	JSONFile string
}

// DiffRecord is one missing or extraneous path of a locale.
type DiffRecord struct {
	Locale   string
	Status   Status
	LabelKey string
	JSONFile string
}

// TranslationRecord is a diff record with the provider's answer attached.
// It is both the translate output and the patch input.
type TranslationRecord struct {
	DiffRecord
	TranslatedValue  any
	OriginalENValue  any
	ENLength         int
	TranslatedLength int
}

// SetTranslation records a translated value and its rune lengths, and marks
// the record translated.
func (r *TranslationRecord) SetTranslation(original, translated any) {
	r.OriginalENValue = original
	r.TranslatedValue = translated
	r.ENLength = utf8.RuneCountInString(FormatValue(original))
	r.TranslatedLength = utf8.RuneCountInString(FormatValue(translated))
	r.Status = StatusTranslated
}

var (
	referenceColumns   = []string{ColLabelKey, ColValue, ColJSONFile}
	diffColumns        = []string{ColLocale, ColStatus, ColLabelKey, ColJSONFile}
	translationColumns = []string{
		ColLocale, ColStatus, ColLabelKey, ColJSONFile,
		ColTranslatedValue, ColOriginalENValue, ColENLength, ColTranslatedLength,
	}
	patchColumns = []string{ColLocale, ColJSONFile, ColLabelKey, ColTranslatedValue}
)

// WriteReferenceLabels writes label_key,value,json_file rows.
func WriteReferenceLabels(w io.Writer, rows []ReferenceLabel) error {
	return writeRows(w, referenceColumns, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{r.LabelKey, FormatValue(r.Value), r.JSONFile}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadReferenceLabels reads rows written by WriteReferenceLabels. Values are
// kept as the strings found in the file.
func ReadReferenceLabels(r io.Reader, name string) ([]ReferenceLabel, error) {
	var out []ReferenceLabel
	err := readRows(r, name, referenceColumns, func(h header, rec []string) error {
		out = append(out, ReferenceLabel{
			LabelKey: h.get(rec, ColLabelKey),
			Value:    h.get(rec, ColValue),
			JSONFile: h.get(rec, ColJSONFile),
		})
		return nil
	})
	return out, err
}

// WriteDiffRecords writes locale,status,label_key,json_file rows.
func WriteDiffRecords(w io.Writer, rows []DiffRecord) error {
	return writeRows(w, diffColumns, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{r.Locale, string(r.Status), r.LabelKey, r.JSONFile}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadDiffRecords reads rows written by WriteDiffRecords.
func ReadDiffRecords(r io.Reader, name string) ([]DiffRecord, error) {
	var out []DiffRecord
	err := readRows(r, name, diffColumns, func(h header, rec []string) error {
		d, err := readDiff(h, rec, name)
		if err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	return out, err
}

func readDiff(h header, rec []string, name string) (DiffRecord, error) {
	d := DiffRecord{
		Locale:   h.get(rec, ColLocale),
		Status:   Status(strings.TrimSpace(h.get(rec, ColStatus))),
		LabelKey: h.get(rec, ColLabelKey),
		JSONFile: h.get(rec, ColJSONFile),
	}
	switch d.Status {
	case StatusMissing, StatusExtraneous, StatusTranslated:
	case "":
		if h.has(ColStatus) {
			return d, errors.NewParseError("csv", name, fmt.Sprintf("empty status for key %q", d.LabelKey), nil)
		}
	default:
		return d, errors.NewParseError("csv", name, fmt.Sprintf("unknown status %q for key %q", d.Status, d.LabelKey), nil)
	}
	if d.Locale == "" || d.LabelKey == "" {
		return d, errors.NewParseError("csv", name, "row without locale or label_key", nil)
	}
	return d, nil
}

// WriteTranslationRecords writes the full translation schema. With bom set
// the file starts with a UTF-8 byte order mark so spreadsheet tools detect
// the encoding. Lengths are written only for translated rows.
func WriteTranslationRecords(w io.Writer, rows []TranslationRecord, bom bool) error {
	if bom {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
	}
	return writeRows(w, translationColumns, func(cw *csv.Writer) error {
		for _, r := range rows {
			enLen, trLen := "", ""
			if r.Status == StatusTranslated {
				enLen = strconv.Itoa(r.ENLength)
				trLen = strconv.Itoa(r.TranslatedLength)
			}
			rec := []string{
				r.Locale, string(r.Status), r.LabelKey, r.JSONFile,
				FormatValue(r.TranslatedValue), FormatValue(r.OriginalENValue), enLen, trLen,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadTranslationRecords reads patch input. Only locale, json_file,
// label_key and translated_value are required; status and the bookkeeping
// columns are read when present. A row without status is treated as
// translated when it carries a value and missing otherwise.
func ReadTranslationRecords(r io.Reader, name string) ([]TranslationRecord, error) {
	var out []TranslationRecord
	err := readRows(r, name, patchColumns, func(h header, rec []string) error {
		d, err := readDiff(h, rec, name)
		if err != nil {
			return err
		}
		tr := TranslationRecord{
			DiffRecord:      d,
			TranslatedValue: h.get(rec, ColTranslatedValue),
			OriginalENValue: h.get(rec, ColOriginalENValue),
		}
		if tr.Status == "" {
			tr.Status = StatusMissing
			if strings.TrimSpace(h.get(rec, ColTranslatedValue)) != "" {
				tr.Status = StatusTranslated
			}
		}
		if tr.ENLength, err = parseLength(h.get(rec, ColENLength)); err != nil {
			return errors.NewParseError("csv", name, fmt.Sprintf("en_length for key %q", d.LabelKey), err)
		}
		if tr.TranslatedLength, err = parseLength(h.get(rec, ColTranslatedLength)); err != nil {
			return errors.NewParseError("csv", name, fmt.Sprintf("translated_length for key %q", d.LabelKey), err)
		}
		out = append(out, tr)
		return nil
	})
	return out, err
}

// parseLength accepts integers and the "12.0" form spreadsheets produce.
func parseLength(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// WriteUnusedKeys writes a single unused_key column.
func WriteUnusedKeys(w io.Writer, keys []string) error {
	return writeRows(w, []string{ColUnusedKey}, func(cw *csv.Writer) error {
		for _, k := range keys {
			if err := cw.Write([]string{k}); err != nil {
				return err
			}
		}
		return nil
	})
}
