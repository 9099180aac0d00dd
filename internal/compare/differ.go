package compare

import (
	"sort"

	"apicompat/internal/surface"
)

// Diff produces the symmetric set of differences between a baseline and a
// candidate surface. Members are paired by fully qualified signature;
// matched pairs are inspected for shape changes, and unmatched members
// within one overload set are re-paired by minimal parameter-list edit
// distance before falling back to removed/added.
func Diff(baseline, candidate *surface.Surface) []Difference {
	baseIdx := baseline.Index()
	candIdx := candidate.Index()

	var diffs []Difference

	// Exact signature matches.
	var unmatchedBase []*surface.Member
	for i := range baseline.Members {
		bm := &baseline.Members[i]
		key := bm.Signature() + "/" + string(bm.Kind)
		if cm, ok := candIdx[key]; ok {
			diffs = append(diffs, inspectPair(bm, cm)...)
		} else {
			unmatchedBase = append(unmatchedBase, bm)
		}
	}

	var unmatchedCand []*surface.Member
	for i := range candidate.Members {
		cm := &candidate.Members[i]
		key := cm.Signature() + "/" + string(cm.Kind)
		if _, ok := baseIdx[key]; !ok {
			unmatchedCand = append(unmatchedCand, cm)
		}
	}

	diffs = append(diffs, pairOverloads(unmatchedBase, unmatchedCand)...)

	sort.SliceStable(diffs, func(i, j int) bool {
		si, sj := diffs[i].Subject(), diffs[j].Subject()
		if si != sj {
			return si < sj
		}
		return diffs[i].Kind < diffs[j].Kind
	})

	return diffs
}

// inspectPair compares two members that share a fully qualified
// signature. A pair can produce several independent differences.
func inspectPair(bm, cm *surface.Member) []Difference {
	var diffs []Difference

	if bm.ReturnType != cm.ReturnType && bm.ReturnType != "" && cm.ReturnType != "" {
		diffs = append(diffs, Difference{
			Kind:      ChangeReturnTypeChanged,
			Baseline:  bm,
			Candidate: cm,
			OldValue:  bm.ReturnType,
			NewValue:  cm.ReturnType,
		})
	}

	if bm.Accessibility != cm.Accessibility {
		kind := ChangeAccessibilityNarrowed
		if cm.Accessibility.Rank() > bm.Accessibility.Rank() {
			kind = ChangeAccessibilityWidened
		}
		diffs = append(diffs, Difference{
			Kind:      kind,
			Baseline:  bm,
			Candidate: cm,
			OldValue:  string(bm.Accessibility),
			NewValue:  string(cm.Accessibility),
		})
	}

	if bm.IsConst && cm.IsConst && bm.ConstValue != cm.ConstValue {
		diffs = append(diffs, Difference{
			Kind:      ChangeConstValueChanged,
			Baseline:  bm,
			Candidate: cm,
			OldValue:  bm.ConstValue,
			NewValue:  cm.ConstValue,
		})
	}

	return diffs
}

// pairOverloads re-pairs unmatched members that belong to the same
// overload set. The pairing minimizes parameter-list edit distance so a
// single changed overload diffs as one signature change instead of a
// spurious removed/added pair; leftovers become removals and additions.
func pairOverloads(unmatchedBase, unmatchedCand []*surface.Member) []Difference {
	candByGroup := make(map[string][]*surface.Member)
	for _, cm := range unmatchedCand {
		g := cm.OverloadGroup()
		candByGroup[g] = append(candByGroup[g], cm)
	}

	taken := make(map[*surface.Member]bool)
	var diffs []Difference

	for _, bm := range unmatchedBase {
		group := candByGroup[bm.OverloadGroup()]

		var best *surface.Member
		bestDist := -1
		for _, cm := range group {
			if taken[cm] {
				continue
			}
			d := editDistance(bm.ParameterTypes(), cm.ParameterTypes())
			if best == nil || d < bestDist || (d == bestDist && cm.Signature() < best.Signature()) {
				best = cm
				bestDist = d
			}
		}

		if best == nil {
			diffs = append(diffs, Difference{Kind: ChangeRemoved, Baseline: bm})
			continue
		}

		taken[best] = true
		diffs = append(diffs, pairedDifference(bm, best))
	}

	for _, cm := range unmatchedCand {
		if !taken[cm] {
			diffs = append(diffs, Difference{Kind: ChangeAdded, Candidate: cm})
		}
	}

	return diffs
}

// pairedDifference builds the difference for a re-paired overload,
// recognizing the special case of trailing parameters that all carry
// default values.
func pairedDifference(bm, cm *surface.Member) Difference {
	kind := ChangeSignatureChanged
	if defaultsOnlyExtension(bm, cm) {
		kind = ChangeParameterAddedDefault
	}
	return Difference{
		Kind:      kind,
		Baseline:  bm,
		Candidate: cm,
		OldValue:  bm.Signature(),
		NewValue:  cm.Signature(),
	}
}

// defaultsOnlyExtension reports whether cm is bm with extra trailing
// parameters that all have default values. Old source still compiles
// against such a member; old binaries do not.
func defaultsOnlyExtension(bm, cm *surface.Member) bool {
	if len(cm.Parameters) <= len(bm.Parameters) {
		return false
	}
	for i, p := range bm.Parameters {
		if cm.Parameters[i].Type != p.Type {
			return false
		}
	}
	for _, p := range cm.Parameters[len(bm.Parameters):] {
		if !p.HasDefault {
			return false
		}
	}
	return true
}
