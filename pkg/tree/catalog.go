package tree

import (
	"slices"
	"sort"
)

// Entry is a flattened leaf with the document it came from.
type Entry struct {
	Value  any
	Origin string
}

// Override records a path that a later document redefined during FlattenAll.
type Override struct {
	Path           string
	PreviousOrigin string
	Origin         string
}

// Document is one locale file: its path relative to the locale directory
// (always with "/" separators) and its parsed tree.
type Document struct {
	Origin string
	Tree   *Tree
}

// Catalog maps canonical dotted paths to leaf entries.
type Catalog struct {
	entries   map[string]Entry
	order     []string
	Overrides []Override
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Len returns the number of paths.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Get returns the entry at path.
func (c *Catalog) Get(path string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[path]
	return e, ok
}

// Has reports whether path is present.
func (c *Catalog) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// Put stores e at path, replacing any existing entry. A replaced path keeps
// its original position in document order.
func (c *Catalog) Put(path string, e Entry) {
	if _, ok := c.entries[path]; !ok {
		c.order = append(c.order, path)
	}
	c.entries[path] = e
}

// Keys returns all paths sorted lexicographically.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ordered returns all paths in document order: the order in which they were
// first flattened.
func (c *Catalog) Ordered() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.order)
}

// KeysFrom returns the paths whose entry came from origin, in document order.
func (c *Catalog) KeysFrom(origin string) []string {
	if c == nil {
		return nil
	}
	var keys []string
	for _, k := range c.order {
		if c.entries[k].Origin == origin {
			keys = append(keys, k)
		}
	}
	return keys
}

// Origins returns the distinct origins in the catalog, sorted.
func (c *Catalog) Origins() []string {
	seen := make(map[string]struct{})
	for _, e := range c.entries {
		seen[e.Origin] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// Flatten walks t depth-first in key order and emits one entry per leaf.
// Empty subtrees emit nothing.
func Flatten(t *Tree, origin string) *Catalog {
	c := NewCatalog()
	flattenInto(c, t, nil, origin)
	return c
}

func flattenInto(c *Catalog, t *Tree, prefix Path, origin string) {
	t.Range(func(k string, v any) bool {
		p := prefix.Append(k)
		if sub, ok := v.(*Tree); ok {
			flattenInto(c, sub, p, origin)
			return true
		}
		key := p.String()
		if prev, ok := c.entries[key]; ok {
			c.Overrides = append(c.Overrides, Override{Path: key, PreviousOrigin: prev.Origin, Origin: origin})
		}
		c.Put(key, Entry{Value: v, Origin: origin})
		return true
	})
}

// FlattenAll unions the documents in input order. When two documents define
// the same path the later one wins.
func FlattenAll(docs []Document) *Catalog {
	c := NewCatalog()
	for _, d := range docs {
		flattenInto(c, d.Tree, nil, d.Origin)
	}
	return c
}
