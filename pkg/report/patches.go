package report

import (
	"github.com/agentstation/lexicon/pkg/reconcile"
)

// Patches converts translation records into reconcile patches, keeping input
// order. Extraneous rows are dropped. Rows with an empty translated value are
// kept so the reconciler reports them as skipped.
func Patches(records []TranslationRecord) []reconcile.Patch {
	out := make([]reconcile.Patch, 0, len(records))
	for _, r := range records {
		if r.Status == StatusExtraneous {
			continue
		}
		out = append(out, reconcile.Patch{
			Locale: r.Locale,
			File:   r.JSONFile,
			Key:    r.LabelKey,
			Value:  r.TranslatedValue,
		})
	}
	return out
}

// Missing returns the diff records with status missing, in input order.
func Missing(records []DiffRecord) []DiffRecord {
	var out []DiffRecord
	for _, r := range records {
		if r.Status == StatusMissing {
			out = append(out, r)
		}
	}
	return out
}

// FromDiff wraps diff records as untranslated translation records.
func FromDiff(records []DiffRecord) []TranslationRecord {
	out := make([]TranslationRecord, len(records))
	for i, r := range records {
		out[i] = TranslationRecord{DiffRecord: r}
	}
	return out
}
