// Package output renders command results as tables, JSON, or YAML.
package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/agentstation/lexicon/pkg/errors"
)

// Format names an output encoding.
type Format string

const (
	// FormatTable renders aligned columns for terminals.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat validates s. The empty string is accepted and means table.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: table, json, yaml")
	}
}

// DetectFormat returns the explicit format, or table on a terminal and JSON
// when stdout is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// Print writes data to w in format. For tables, table converts data when
// set; otherwise struct values are tabulated by reflection and anything else
// falls back to JSON.
func Print(w io.Writer, format Format, data any, table func() Data) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, data)
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	if table != nil {
		return table().Render(w)
	}
	if d, ok := data.(Data); ok {
		return d.Render(w)
	}
	if d, ok := reflectTable(data); ok {
		return d.Render(w)
	}
	return writeJSON(w, data)
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
