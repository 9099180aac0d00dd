package report

import (
	"fmt"

	"apicompat/internal/classify"
	"apicompat/internal/compare"
	"apicompat/internal/suppress"
	"apicompat/internal/surface"
)

// kindNoun names a member kind in prose.
func kindNoun(m *surface.Member) string {
	if m == nil {
		return "member"
	}
	if m.IsConst {
		return "constant"
	}
	return string(m.Kind)
}

func versionOf(s *surface.Surface) string {
	if s.Version != "" {
		return s.Version
	}
	return s.Name
}

// Message renders the human description of one classified difference.
// Messages name the member signature and both versions so a reader can
// act without opening the artifacts.
func Message(item classify.Classified, baseline, candidate *surface.Surface) string {
	d := item.Difference
	prev, curr := versionOf(baseline), versionOf(candidate)
	subject := d.Subject()

	switch d.Kind {
	case compare.ChangeRemoved:
		return fmt.Sprintf(
			"The %s '%s' exists in the previous version (%s) but no longer exists in the current version (%s). This is a breaking change.",
			kindNoun(d.Baseline), subject, prev, curr)
	case compare.ChangeAdded:
		return fmt.Sprintf(
			"The %s '%s' was added in the current version (%s).",
			kindNoun(d.Candidate), subject, curr)
	case compare.ChangeSignatureChanged:
		return fmt.Sprintf(
			"The %s '%s' from the previous version (%s) changed its signature to '%s' in the current version (%s). This is a breaking change.",
			kindNoun(d.Baseline), subject, prev, d.NewValue, curr)
	case compare.ChangeParameterAddedDefault:
		return fmt.Sprintf(
			"The method '%s' gained optional parameters in the current version (%s): '%s'. Source written against the previous version (%s) still compiles, but binaries compiled against it will fail to bind.",
			subject, curr, d.NewValue, prev)
	case compare.ChangeReturnTypeChanged:
		return fmt.Sprintf(
			"The %s '%s' changed its return type from '%s' in the previous version (%s) to '%s' in the current version (%s). This is a breaking change.",
			kindNoun(d.Baseline), subject, d.OldValue, prev, d.NewValue, curr)
	case compare.ChangeAccessibilityNarrowed:
		return fmt.Sprintf(
			"The %s '%s' narrowed its accessibility from %s in the previous version (%s) to %s in the current version (%s). This is a breaking change.",
			kindNoun(d.Baseline), subject, d.OldValue, prev, d.NewValue, curr)
	case compare.ChangeAccessibilityWidened:
		return fmt.Sprintf(
			"The %s '%s' widened its accessibility from %s to %s in the current version (%s).",
			kindNoun(d.Baseline), subject, d.OldValue, d.NewValue, curr)
	case compare.ChangeConstValueChanged:
		return fmt.Sprintf(
			"The constant '%s' changed its value from %s in the previous version (%s) to %s in the current version (%s). Binaries compiled against the previous version inlined the old value.",
			subject, d.OldValue, prev, d.NewValue, curr)
	default:
		return fmt.Sprintf(
			"The %s '%s' changed incompatibly between the previous version (%s) and the current version (%s).",
			kindNoun(d.Baseline), subject, prev, curr)
	}
}

// StaleMessage describes a suppression entry that matched nothing.
func StaleMessage(s suppress.Suppression) string {
	return fmt.Sprintf(
		"The suppression for %s on '%s' no longer matches any difference and can be removed.",
		s.DiagnosticID, s.Target)
}
