package suppress

import (
	"sort"

	"apicompat/internal/classify"
)

// Outcome is the result of filtering classified differences through the
// suppression set. Every difference resolves to exactly one side:
// reportable or suppressed.
type Outcome struct {
	// Reportable differences survived filtering and go to the reporter.
	Reportable []classify.Classified
	// Suppressed differences were matched by an entry; kept for audit.
	Suppressed []Audit
	// Stale entries matched no live difference. Inert, flagged as
	// warnings, never a failure.
	Stale []Suppression
}

// Audit records one suppressed difference occurrence.
type Audit struct {
	Suppression Suppression         `json:"suppression"`
	Item        classify.Classified `json:"item"`
}

// Apply filters classified differences against the suppression file.
// A suppression hits at most one difference occurrence; duplicate
// occurrences of the same (diagnostic, target) pair would each need
// their own entry, which cannot arise while surfaces keep signatures
// unique.
func Apply(items []classify.Classified, file *File) Outcome {
	bySuppression := make(map[string]*Suppression, len(file.Suppressions))
	for i := range file.Suppressions {
		s := &file.Suppressions[i]
		bySuppression[s.key()] = s
	}

	used := make(map[string]bool, len(bySuppression))
	var out Outcome

	for _, item := range items {
		key := item.Classification.DiagnosticID + "|" + item.Difference.Subject()
		if s, ok := bySuppression[key]; ok && !used[key] {
			used[key] = true
			out.Suppressed = append(out.Suppressed, Audit{Suppression: *s, Item: item})
			continue
		}
		out.Reportable = append(out.Reportable, item)
	}

	for i := range file.Suppressions {
		s := file.Suppressions[i]
		if !used[s.key()] {
			out.Stale = append(out.Stale, s)
		}
	}
	sort.Slice(out.Stale, func(i, j int) bool {
		return out.Stale[i].key() < out.Stale[j].key()
	})

	return out
}

// Generate produces suppression entries for every currently breaking
// difference: baseline acceptance mode. Compatible differences are not
// suppressed; there is nothing to acknowledge.
func Generate(items []classify.Classified, strict bool, justification string) *File {
	f := &File{}
	for _, item := range items {
		if !item.Classification.IsBreaking(strict) {
			continue
		}
		f.Suppressions = append(f.Suppressions, Suppression{
			DiagnosticID:  item.Classification.DiagnosticID,
			Target:        item.Difference.Subject(),
			Justification: justification,
		})
	}
	sort.Slice(f.Suppressions, func(i, j int) bool {
		return f.Suppressions[i].key() < f.Suppressions[j].key()
	})
	f.Stamp()
	return f
}
