// Package reconcile merges translated values back into locale trees.
//
// Two operations make up a reconciliation. Baseline completes a target tree so
// that every reference path defined by the same file resolves to a leaf,
// defaulting to the reference value. Apply then writes patches in input order.
// Both return a new tree; the input is never modified.
//
// Structural conflicts are resolved with one rule, implemented by Set: the
// patch path always wins. A leaf bound to an intermediate segment is discarded
// and replaced by an empty subtree, and the final segment is overwritten
// whatever it held before.
package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/lexicon/pkg/coerce"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/tree"
)

// Patch is one externally supplied value for a locale file.
// Value is raw, before coercion.
type Patch struct {
	Locale string
	File   string
	Key    string
	Value  any
}

// ConflictKind identifies which side of a leaf/subtree collision was discarded.
type ConflictKind string

const (
	// ConflictLeafReplaced means an intermediate leaf was replaced by a subtree.
	ConflictLeafReplaced ConflictKind = "leaf_replaced"
	// ConflictSubtreeReplaced means a subtree at the final segment was replaced by a leaf.
	ConflictSubtreeReplaced ConflictKind = "subtree_replaced"
)

// Conflict records a destructive structural change made by Set.
type Conflict struct {
	Path     string       // Path of the node that was replaced
	Kind     ConflictKind // What was discarded
	Previous any          // The discarded node
}

// Set writes value at path in t, creating intermediate subtrees as needed.
// It mutates t and returns the conflicts it resolved. An empty path is a no-op.
func Set(t *tree.Tree, path tree.Path, value any) []Conflict {
	if len(path) == 0 {
		return nil
	}

	var conflicts []Conflict
	cur := t
	for i, seg := range path[:len(path)-1] {
		existing, ok := cur.Get(seg)
		if !ok {
			sub := tree.New()
			cur.Set(seg, sub)
			cur = sub
			continue
		}
		if sub, isTree := existing.(*tree.Tree); isTree {
			cur = sub
			continue
		}
		conflicts = append(conflicts, Conflict{
			Path:     path[:i+1].String(),
			Kind:     ConflictLeafReplaced,
			Previous: existing,
		})
		sub := tree.New()
		cur.Set(seg, sub)
		cur = sub
	}

	last := path[len(path)-1]
	if existing, ok := cur.Get(last); ok && !tree.IsLeaf(existing) && tree.IsLeaf(value) {
		conflicts = append(conflicts, Conflict{
			Path:     path.String(),
			Kind:     ConflictSubtreeReplaced,
			Previous: existing,
		})
	}
	cur.Set(last, value)

	return conflicts
}

// Event is one baseline insertion.
type Event struct {
	Path      string
	Value     any
	Conflicts []Conflict
}

// Baseline returns a copy of target in which every reference path whose
// origin is origin resolves to a leaf. Paths the target lacks receive the
// reference value. Paths occupied by a subtree, or blocked by a leaf further
// up, are resolved by the conflict rule and reported in the events.
func Baseline(target *tree.Tree, reference *tree.Catalog, origin string) (*tree.Tree, []Event) {
	out := target.Clone()
	if out == nil {
		out = tree.New()
	}

	var events []Event
	for _, key := range reference.KeysFrom(origin) {
		path := tree.ParsePath(key)
		if v, ok := out.Resolve(path); ok && tree.IsLeaf(v) {
			continue
		}
		entry, _ := reference.Get(key)
		value := tree.Normalize(entry.Value)
		if sub, ok := value.(*tree.Tree); ok {
			value = sub.Clone()
		}
		events = append(events, Event{
			Path:      key,
			Value:     value,
			Conflicts: Set(out, path, value),
		})
	}

	return out, events
}

// ApplyOption configures Apply.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	logger *zerolog.Logger
}

// WithLogger sets the logger for skipped patches and conflicts.
func WithLogger(logger *zerolog.Logger) ApplyOption {
	return func(c *applyConfig) {
		c.logger = logger
	}
}

// Apply returns a copy of t with patches applied strictly in input order.
// Each value passes through coerce.Coerce. Blank values and invalid keys are
// skipped and reported. Replaying the same patches on the result yields an
// equal tree.
func Apply(t *tree.Tree, patches []Patch, opts ...ApplyOption) (*tree.Tree, *Report) {
	cfg := &applyConfig{logger: logging.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger

	out := t.Clone()
	if out == nil {
		out = tree.New()
	}
	report := NewReport()

	for _, p := range patches {
		if coerce.IsBlank(p.Value) {
			report.skip(p, SkipBlankValue)
			log.Warn().
				Str("locale", p.Locale).
				Str("file", p.File).
				Str("key", p.Key).
				Msg("Skipped patch with empty value")
			continue
		}

		path := tree.ParsePath(p.Key)
		if err := path.Validate(); err != nil {
			report.skip(p, SkipInvalidKey)
			log.Warn().
				Err(err).
				Str("locale", p.Locale).
				Str("file", p.File).
				Str("key", p.Key).
				Msg("Skipped patch with invalid key")
			continue
		}

		value := coerce.Coerce(p.Value)
		conflicts := Set(out, path, value)
		for _, c := range conflicts {
			log.Info().
				Str("locale", p.Locale).
				Str("file", p.File).
				Str("key", p.Key).
				Str("path", c.Path).
				Str("kind", string(c.Kind)).
				Interface("discarded", c.Previous).
				Msg("Resolved structural conflict")
		}
		report.apply(p, value, conflicts)
	}

	return out, report
}
