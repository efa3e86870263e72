// Package differ compares a reference locale catalog against target locales
// and reports which paths are missing or extraneous in each target.
package differ

import (
	"fmt"
	"io"
	"strings"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeMissing marks a reference path the target lacks or has not translated.
	ChangeTypeMissing ChangeType = "missing"
	// ChangeTypeExtraneous marks a target path the reference does not define.
	ChangeTypeExtraneous ChangeType = "extraneous"
)

// Reason explains why a path is missing.
type Reason string

const (
	// ReasonAbsent means the target does not define the path at all.
	ReasonAbsent Reason = "absent"
	// ReasonIdentical means the target value is a literal copy of the reference.
	ReasonIdentical Reason = "identical"
)

// Change is one differing path.
type Change struct {
	Path      string     // Dotted path
	Type      ChangeType // missing or extraneous
	Reason    Reason     // Set for missing changes only
	Origin    string     // File defining the path (reference file for missing, target file for extraneous)
	Reference any        // Reference value, when the reference defines the path
	Target    any        // Target value, when the target defines the path
}

// Result is the diff of a single target locale.
type Result struct {
	Missing    []Change
	Extraneous []Change
}

// HasChanges returns true if the result contains any changes.
func (r *Result) HasChanges() bool {
	return len(r.Missing) > 0 || len(r.Extraneous) > 0
}

// MissingKeys returns the missing paths in order.
func (r *Result) MissingKeys() []string {
	return paths(r.Missing)
}

// ExtraneousKeys returns the extraneous paths in order.
func (r *Result) ExtraneousKeys() []string {
	return paths(r.Extraneous)
}

func paths(changes []Change) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Path
	}
	return out
}

// LocaleChanges pairs a locale with its diff.
type LocaleChanges struct {
	Locale string
	Result *Result
}

// Changeset represents the diff of every target locale.
type Changeset struct {
	Locales []LocaleChanges // Sorted by locale
	Summary ChangesetSummary
}

// LocaleSummary holds per-locale counts.
type LocaleSummary struct {
	Locale     string  `json:"locale" yaml:"locale"`
	Missing    int     `json:"missing" yaml:"missing"`
	Identical  int     `json:"identical" yaml:"identical"`
	Extraneous int     `json:"extraneous" yaml:"extraneous"`
	Coverage   float64 `json:"coverage" yaml:"coverage"`
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	ReferenceKeys   int             `json:"reference_keys" yaml:"reference_keys"`
	Locales         []LocaleSummary `json:"locales" yaml:"locales"`
	TotalMissing    int             `json:"total_missing" yaml:"total_missing"`
	TotalExtraneous int             `json:"total_extraneous" yaml:"total_extraneous"`
	TotalChanges    int             `json:"total_changes" yaml:"total_changes"`
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(referenceKeys int, locales []LocaleChanges) ChangesetSummary {
	s := ChangesetSummary{
		ReferenceKeys: referenceKeys,
		Locales:       make([]LocaleSummary, 0, len(locales)),
	}
	for _, lc := range locales {
		ls := LocaleSummary{
			Locale:     lc.Locale,
			Missing:    len(lc.Result.Missing),
			Extraneous: len(lc.Result.Extraneous),
			Coverage:   1,
		}
		for _, c := range lc.Result.Missing {
			if c.Reason == ReasonIdentical {
				ls.Identical++
			}
		}
		if referenceKeys > 0 {
			ls.Coverage = float64(referenceKeys-ls.Missing) / float64(referenceKeys)
		}
		s.Locales = append(s.Locales, ls)
		s.TotalMissing += ls.Missing
		s.TotalExtraneous += ls.Extraneous
	}
	s.TotalChanges = s.TotalMissing + s.TotalExtraneous
	return s
}

// Locale returns the diff for one locale.
func (c *Changeset) Locale(locale string) (*Result, bool) {
	for _, lc := range c.Locales {
		if lc.Locale == locale {
			return lc.Result, true
		}
	}
	return nil, false
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	for _, ls := range c.Summary.Locales {
		if ls.Missing == 0 && ls.Extraneous == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %d missing, %d extraneous", ls.Locale, ls.Missing, ls.Extraneous))
	}

	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, "; "), c.Summary.TotalChanges)
}

// Print writes a detailed, human-readable view of the changeset to w.
func (c *Changeset) Print(w io.Writer) {
	fmt.Fprintln(w, c.String())
	fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, lc := range c.Locales {
		if !lc.Result.HasChanges() {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", lc.Locale)
		for _, ch := range lc.Result.Missing {
			if ch.Reason == ReasonIdentical {
				fmt.Fprintf(w, "  ➕ %s (%s, untranslated)\n", ch.Path, ch.Origin)
				continue
			}
			fmt.Fprintf(w, "  ➕ %s (%s)\n", ch.Path, ch.Origin)
		}
		for _, ch := range lc.Result.Extraneous {
			fmt.Fprintf(w, "  ⚠️  %s (%s)\n", ch.Path, ch.Origin)
		}
	}
}

// Filter returns a changeset restricted to the given change types, with the
// summary recomputed.
func (c *Changeset) Filter(types ...ChangeType) *Changeset {
	keep := make(map[ChangeType]bool, len(types))
	for _, t := range types {
		keep[t] = true
	}

	filtered := &Changeset{Locales: make([]LocaleChanges, 0, len(c.Locales))}
	for _, lc := range c.Locales {
		r := &Result{Missing: []Change{}, Extraneous: []Change{}}
		if keep[ChangeTypeMissing] {
			r.Missing = lc.Result.Missing
		}
		if keep[ChangeTypeExtraneous] {
			r.Extraneous = lc.Result.Extraneous
		}
		filtered.Locales = append(filtered.Locales, LocaleChanges{Locale: lc.Locale, Result: r})
	}
	filtered.Summary = calculateSummary(c.Summary.ReferenceKeys, filtered.Locales)

	return filtered
}
