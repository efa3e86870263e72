// Package coerce turns raw translated values from external providers into
// tree leaf values.
//
// Providers and spreadsheets hand back strings that sometimes look like
// structured literals written in another convention: single-quoted strings,
// True/False/None tokens, or a JavaScript undefined. Coerce makes a best-effort
// attempt to read those as JSON and otherwise keeps the original text.
package coerce

import (
	"math"
	"regexp"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/agentstation/lexicon/pkg/tree"
)

var tokenPattern = regexp.MustCompile(`\b(True|False|None|undefined)\b`)

var canonicalTokens = map[string]string{
	"True":      "true",
	"False":     "false",
	"None":      "null",
	"undefined": "null",
}

// Normalize rewrites alternate quoting and literal tokens to their JSON form.
// The result is only meaningful as parser input.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "'", `"`)
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		return canonicalTokens[tok]
	})
}

// Coerce converts raw into a leaf value. It never fails: text that does not
// parse as a literal after normalization is returned unchanged, and NaN
// becomes nil.
func Coerce(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return coerceString(v)
	case float64:
		if math.IsNaN(v) {
			return nil
		}
		return v
	case float32:
		if math.IsNaN(float64(v)) {
			return nil
		}
		return float64(v)
	default:
		return tree.Normalize(v)
	}
}

func coerceString(s string) any {
	if strings.TrimSpace(s) == "" {
		return s
	}
	parsed, err := oj.ParseString(Normalize(s))
	if err != nil {
		return s
	}
	if f, ok := parsed.(float64); ok {
		if math.IsNaN(f) {
			return nil
		}
		// out of float64 range; the text is worth more than +Inf
		if math.IsInf(f, 0) {
			return s
		}
	}
	return tree.Normalize(parsed)
}

// IsBlank reports whether raw carries no usable value: nil, NaN, or a string
// that is empty after trimming whitespace.
func IsBlank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	default:
		return false
	}
}
