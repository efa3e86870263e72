package reconcile

import (
	"fmt"
	"strings"
)

// SkipReason explains why a patch was not applied.
type SkipReason string

const (
	// SkipBlankValue is used for nil, NaN, and empty or whitespace values.
	SkipBlankValue SkipReason = "blank value"
	// SkipInvalidKey is used for keys with empty segments.
	SkipInvalidKey SkipReason = "invalid key"
)

// Applied is a patch that was written, with its coerced value.
type Applied struct {
	Patch     Patch
	Value     any
	Conflicts []Conflict
}

// Skipped is a patch that was not written.
type Skipped struct {
	Patch  Patch
	Reason SkipReason
}

// Report represents the outcome of reconciling one locale file
type Report struct {
	// Applied contains patches written to the tree, in input order
	Applied []Applied

	// Skipped contains patches left out, in input order
	Skipped []Skipped

	// Conflicts contains every structural conflict, baseline included
	Conflicts []Conflict

	// Baseline contains the reference values inserted before patching
	Baseline []Event
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		Applied:   []Applied{},
		Skipped:   []Skipped{},
		Conflicts: []Conflict{},
		Baseline:  []Event{},
	}
}

func (r *Report) apply(p Patch, value any, conflicts []Conflict) {
	r.Applied = append(r.Applied, Applied{Patch: p, Value: value, Conflicts: conflicts})
	r.Conflicts = append(r.Conflicts, conflicts...)
}

func (r *Report) skip(p Patch, reason SkipReason) {
	r.Skipped = append(r.Skipped, Skipped{Patch: p, Reason: reason})
}

// AddBaseline records baseline insertions made before the patches.
func (r *Report) AddBaseline(events []Event) {
	r.Baseline = append(r.Baseline, events...)
	for _, e := range events {
		r.Conflicts = append(r.Conflicts, e.Conflicts...)
	}
}

// Merge folds other into r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Applied = append(r.Applied, other.Applied...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Conflicts = append(r.Conflicts, other.Conflicts...)
	r.Baseline = append(r.Baseline, other.Baseline...)
}

// HasConflicts returns true if any structural conflict was resolved
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Stats contains counts about the reconciliation
type Stats struct {
	Applied   int `json:"applied" yaml:"applied"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Conflicts int `json:"conflicts" yaml:"conflicts"`
	Baseline  int `json:"baseline" yaml:"baseline"`
}

// Stats returns the report counts.
func (r *Report) Stats() Stats {
	return Stats{
		Applied:   len(r.Applied),
		Skipped:   len(r.Skipped),
		Conflicts: len(r.Conflicts),
		Baseline:  len(r.Baseline),
	}
}

// Summary returns a human-readable summary of the report
func (r *Report) Summary() string {
	s := r.Stats()
	parts := []string{
		fmt.Sprintf("%d applied", s.Applied),
		fmt.Sprintf("%d skipped", s.Skipped),
	}
	if s.Baseline > 0 {
		parts = append(parts, fmt.Sprintf("%d baseline", s.Baseline))
	}
	if s.Conflicts > 0 {
		parts = append(parts, fmt.Sprintf("%d conflicts", s.Conflicts))
	}
	return strings.Join(parts, ", ")
}
