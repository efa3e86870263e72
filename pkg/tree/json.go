package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MarshalJSON encodes t as a JSON object with keys in tree order.
// HTML characters are not escaped.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *Tree) writeJSON(buf *bytes.Buffer) error {
	if t == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeScalar(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeNode(buf, t.vals[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeNode(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case *Tree:
		return x.writeJSON(buf)
	case []any:
		buf.WriteByte('[')
		for i := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, x[i]); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, x)
	}
}

func writeScalar(buf *bytes.Buffer, v any) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(scratch.Bytes(), []byte{'\n'}))
	return nil
}

// UnmarshalJSON decodes a JSON object into t, keeping key order.
func (t *Tree) UnmarshalJSON(data []byte) error {
	parsed, err := DecodeJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

// DecodeJSON reads one JSON object from r into an ordered tree.
// Numbers become float64. Trailing data after the object is an error.
func DecodeJSON(r io.Reader) (*Tree, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeNode(dec)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*Tree)
	if !ok {
		return nil, fmt.Errorf("top-level value is %T, want object", v)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return t, nil
}

func decodeNode(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch x := tok.(type) {
	case json.Delim:
		switch x {
		case '{':
			t := New()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", kt)
				}
				v, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				t.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return t, nil
		case '[':
			list := []any{}
			for dec.More() {
				v, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", x)
		}
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", x, err)
		}
		return f, nil
	default:
		// string, bool, or nil
		return x, nil
	}
}
