package lexicon

import (
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/report"
)

// Compare diffs every target locale against the reference.
func (ws *Workspace) Compare() *differ.Changeset {
	d := ws.differ
	if d == nil {
		d = differ.New()
	}
	return d.Locales(ws.ReferenceCatalog, ws.Catalogs())
}

// ReferenceLabels lists every reference path in document order.
func (ws *Workspace) ReferenceLabels() []report.ReferenceLabel {
	keys := ws.ReferenceCatalog.Ordered()
	rows := make([]report.ReferenceLabel, 0, len(keys))
	for _, k := range keys {
		e, _ := ws.ReferenceCatalog.Get(k)
		rows = append(rows, report.ReferenceLabel{LabelKey: k, Value: e.Value, JSONFile: e.Origin})
	}
	return rows
}

// DiffRecords converts a changeset into report rows: per locale, missing
// paths then extraneous paths.
func (ws *Workspace) DiffRecords(cs *differ.Changeset) []report.DiffRecord {
	var rows []report.DiffRecord
	for _, lc := range cs.Locales {
		for _, c := range lc.Result.Missing {
			rows = append(rows, report.DiffRecord{
				Locale:   lc.Locale,
				Status:   report.StatusMissing,
				LabelKey: c.Path,
				JSONFile: c.Origin,
			})
		}
		for _, c := range lc.Result.Extraneous {
			rows = append(rows, report.DiffRecord{
				Locale:   lc.Locale,
				Status:   report.StatusExtraneous,
				LabelKey: c.Path,
				JSONFile: c.Origin,
			})
		}
	}
	return rows
}

// QA lines up the reference value of every path with each locale's value.
func (ws *Workspace) QA() *report.QATable {
	return report.BuildQA(ws.ReferenceCatalog, ws.Catalogs())
}
