package differ

import (
	"sort"

	"github.com/agentstation/lexicon/pkg/tree"
)

// Differ handles change detection between a reference catalog and target locales.
type Differ interface {
	// Compare computes the missing and extraneous paths of one target
	Compare(reference, target *tree.Catalog) *Result

	// Locales compares every target against the reference
	Locales(reference *tree.Catalog, targets map[string]*tree.Catalog) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	identicalAsMissing bool
	ignoreKeys         map[string]bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		identicalAsMissing: true,
		ignoreKeys:         make(map[string]bool),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Compare computes the diff of target against reference. Neither catalog is modified.
func (diff *differ) Compare(reference, target *tree.Catalog) *Result {
	result := &Result{
		Missing:    []Change{},
		Extraneous: []Change{},
	}

	// Keys() is sorted, so both lists come out ordered by path
	for _, key := range reference.Keys() {
		if diff.ignoreKeys[key] {
			continue
		}
		ref, _ := reference.Get(key)
		got, exists := target.Get(key)

		switch {
		case !exists:
			result.Missing = append(result.Missing, Change{
				Path:      key,
				Type:      ChangeTypeMissing,
				Reason:    ReasonAbsent,
				Origin:    ref.Origin,
				Reference: ref.Value,
			})
		case diff.identicalAsMissing && tree.ValuesEqual(got.Value, ref.Value):
			result.Missing = append(result.Missing, Change{
				Path:      key,
				Type:      ChangeTypeMissing,
				Reason:    ReasonIdentical,
				Origin:    ref.Origin,
				Reference: ref.Value,
				Target:    got.Value,
			})
		}
	}

	for _, key := range target.Keys() {
		if diff.ignoreKeys[key] || reference.Has(key) {
			continue
		}
		got, _ := target.Get(key)
		result.Extraneous = append(result.Extraneous, Change{
			Path:   key,
			Type:   ChangeTypeExtraneous,
			Origin: got.Origin,
			Target: got.Value,
		})
	}

	return result
}

// Locales compares each target catalog and summarizes the run.
func (diff *differ) Locales(reference *tree.Catalog, targets map[string]*tree.Catalog) *Changeset {
	locales := make([]string, 0, len(targets))
	for locale := range targets {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	cs := &Changeset{
		Locales: make([]LocaleChanges, 0, len(locales)),
	}
	for _, locale := range locales {
		cs.Locales = append(cs.Locales, LocaleChanges{
			Locale: locale,
			Result: diff.Compare(reference, targets[locale]),
		})
	}
	cs.Summary = calculateSummary(reference.Len(), cs.Locales)

	return cs
}
