package tree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/lexicon/pkg/errors"
)

// Separator joins path segments in canonical form.
const Separator = "."

// Path is an ordered sequence of segments addressing a node in a Tree.
type Path []string

// ParsePath splits a canonical dotted path into segments.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return strings.Split(s, Separator)
}

// String returns the canonical dotted form.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Append returns a new path with seg added. p is not modified.
func (p Path) Append(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return slices.Clone(p[:len(p)-1])
}

// Validate rejects empty paths and empty segments.
func (p Path) Validate() error {
	if len(p) == 0 {
		return errors.NewValidationError("path", p.String(), "empty path")
	}
	for i, seg := range p {
		if seg == "" {
			return errors.NewValidationError("path", p.String(), fmt.Sprintf("segment %d is empty", i))
		}
	}
	return nil
}

// AmbiguousSegments walks t and returns the paths of keys whose segment
// contains the separator. Such keys cannot round-trip through a dotted path.
func AmbiguousSegments(t *Tree) []Path {
	var out []Path
	var walk func(t *Tree, prefix Path)
	walk = func(t *Tree, prefix Path) {
		t.Range(func(k string, v any) bool {
			p := prefix.Append(k)
			if strings.Contains(k, Separator) {
				out = append(out, p)
			}
			if sub, ok := v.(*Tree); ok {
				walk(sub, p)
			}
			return true
		})
	}
	walk(t, nil)
	return out
}
