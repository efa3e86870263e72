// Package tree provides the ordered locale tree, dotted paths, and the flattened
// catalog used by every stage of reconciliation.
//
// A Tree maps string segments to nodes. A node is either a leaf value (nil,
// string, float64, bool, or []any) or a nested *Tree. Keys keep insertion order
// so a document that is loaded and saved again keeps its layout.
package tree

import (
	"slices"
)

// Tree is an ordered mapping from segment to node.
// The zero value is not usable; call New.
type Tree struct {
	keys []string
	vals map[string]any
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{vals: make(map[string]any)}
}

// Len returns the number of direct children.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the direct child segments in order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// Get returns the node bound to key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.vals[key]
	return v, ok
}

// Subtree returns the child tree bound to key, if key holds a subtree.
func (t *Tree) Subtree(key string) (*Tree, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Tree)
	return sub, ok
}

// Set binds key to v. An existing key keeps its position.
func (t *Tree) Set(key string, v any) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
}

// Delete removes key.
func (t *Tree) Delete(key string) {
	if _, ok := t.vals[key]; !ok {
		return
	}
	delete(t.vals, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
}

// Range calls fn for each child in order until fn returns false.
func (t *Tree) Range(fn func(key string, v any) bool) {
	if t == nil {
		return
	}
	for _, k := range t.keys {
		if !fn(k, t.vals[k]) {
			return
		}
	}
}

// Resolve returns the node at p. An empty path resolves to t itself.
func (t *Tree) Resolve(p Path) (any, bool) {
	var cur any = t
	for _, seg := range p {
		sub, ok := cur.(*Tree)
		if !ok || sub == nil {
			return nil, false
		}
		cur, ok = sub.vals[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := &Tree{
		keys: slices.Clone(t.keys),
		vals: make(map[string]any, len(t.vals)),
	}
	for k, v := range t.vals {
		c.vals[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Tree:
		return x.Clone()
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = cloneValue(x[i])
		}
		return out
	default:
		return v
	}
}

// Equal reports whether t and o hold the same content. Key order is ignored.
func (t *Tree) Equal(o *Tree) bool {
	return ValuesEqual(t, o)
}

// ToMap converts t into plain nested maps, for consumers that need
// map[string]any such as JSONPath evaluation and the TOML encoder.
func (t *Tree) ToMap() map[string]any {
	if t == nil {
		return nil
	}
	m := make(map[string]any, len(t.keys))
	for _, k := range t.keys {
		m[k] = toPlain(t.vals[k])
	}
	return m
}

func toPlain(v any) any {
	switch x := v.(type) {
	case *Tree:
		return x.ToMap()
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = toPlain(x[i])
		}
		return out
	default:
		return v
	}
}

// FromMap builds a tree from plain maps. Keys are sorted since map order is
// not stable, and values are normalized.
func FromMap(m map[string]any) *Tree {
	return Normalize(m).(*Tree)
}
