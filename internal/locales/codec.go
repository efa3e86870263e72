package locales

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/save"
	"github.com/agentstation/lexicon/pkg/tree"
)

// Decode parses one locale document. JSON and YAML keep the key order of the
// file; TOML loads with sorted keys. The top level must be a mapping.
func Decode(format save.Format, r io.Reader, name string) (*tree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	switch format {
	case save.FormatJSON:
		t, err := tree.DecodeJSON(bytes.NewReader(data))
		if err != nil {
			return nil, errors.NewParseError("json", name, err.Error(), err)
		}
		return t, nil

	case save.FormatYAML:
		var v any
		if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
			return nil, errors.NewParseError("yaml", name, err.Error(), err)
		}
		if v == nil {
			return tree.New(), nil
		}
		ms, ok := v.(yaml.MapSlice)
		if !ok {
			return nil, errors.NewParseError("yaml", name, fmt.Sprintf("top level is %T, not a mapping", v), nil)
		}
		return fromMapSlice(ms), nil

	case save.FormatTOML:
		m := map[string]any{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, errors.NewParseError("toml", name, err.Error(), err)
		}
		return tree.FromMap(m), nil

	default:
		return nil, errors.NewValidationError("format", format.String(), "unsupported locale file format for "+name)
	}
}

// Encode writes t in format. JSON is indented, written without HTML escaping,
// and ends with a newline.
func Encode(w io.Writer, format save.Format, t *tree.Tree, indent int) error {
	if t == nil {
		t = tree.New()
	}
	switch format {
	case save.FormatJSON:
		compact, err := t.MarshalJSON()
		if err != nil {
			return errors.WrapParse("json", "tree", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, compact, "", strings.Repeat(" ", indent)); err != nil {
			return errors.WrapParse("json", "tree", err)
		}
		buf.WriteByte('\n')
		_, err = w.Write(buf.Bytes())
		return err

	case save.FormatYAML:
		if indent <= 0 {
			indent = 2
		}
		out, err := yaml.MarshalWithOptions(toMapSlice(t), yaml.Indent(indent))
		if err != nil {
			return errors.WrapParse("yaml", "tree", err)
		}
		_, err = w.Write(out)
		return err

	case save.FormatTOML:
		out, err := toml.Marshal(encodable(t))
		if err != nil {
			return errors.WrapParse("toml", "tree", err)
		}
		_, err = w.Write(out)
		return err

	default:
		return errors.NewValidationError("format", format.String(), "unsupported locale file format")
	}
}

func fromMapSlice(ms yaml.MapSlice) *tree.Tree {
	t := tree.New()
	for _, item := range ms {
		t.Set(fmt.Sprint(item.Key), fromYAML(item.Value))
	}
	return t
}

func fromYAML(v any) any {
	switch x := v.(type) {
	case yaml.MapSlice:
		return fromMapSlice(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = fromYAML(x[i])
		}
		return out
	default:
		return tree.Normalize(x)
	}
}

func toMapSlice(t *tree.Tree) yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, t.Len())
	t.Range(func(k string, v any) bool {
		ms = append(ms, yaml.MapItem{Key: k, Value: toYAML(v)})
		return true
	})
	return ms
}

func toYAML(v any) any {
	switch x := v.(type) {
	case *tree.Tree:
		return toMapSlice(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = toYAML(x[i])
		}
		return out
	case float64:
		return integral(x)
	default:
		return x
	}
}

// encodable converts t into plain maps for encoders without ordered-map
// support. Whole numbers become int64 so they do not gain a fraction.
func encodable(v any) any {
	switch x := v.(type) {
	case *tree.Tree:
		m := make(map[string]any, x.Len())
		x.Range(func(k string, v any) bool {
			m[k] = encodable(v)
			return true
		})
		return m
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = encodable(x[i])
		}
		return out
	case float64:
		return integral(x)
	default:
		return x
	}
}

func integral(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
