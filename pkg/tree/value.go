package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// IsLeaf reports whether v is a leaf value rather than a subtree.
func IsLeaf(v any) bool {
	_, ok := v.(*Tree)
	return !ok
}

// Normalize converts decoded data into the node types a Tree holds.
// Integers of any width become float64, maps become *Tree with sorted keys,
// and slices are normalized element-wise. Types with no natural mapping are
// kept as their string form.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return x
	case *Tree:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t := New()
		for _, k := range keys {
			t.Set(k, Normalize(x[k]))
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = v
		}
		return Normalize(m)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = Normalize(x[i])
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// ValuesEqual reports literal equality of two nodes after normalization.
// Subtrees compare by content regardless of key order. NaN never equals
// anything, itself included.
func ValuesEqual(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	switch x := a.(type) {
	case nil:
		return b == nil
	case *Tree:
		y, ok := b.(*Tree)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == y
		}
		if len(x.keys) != len(y.keys) {
			return false
		}
		for k, xv := range x.vals {
			yv, ok := y.vals[k]
			if !ok || !ValuesEqual(xv, yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !ValuesEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case float64:
		y, ok := b.(float64)
		return ok && !math.IsNaN(x) && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	default:
		return false
	}
}
