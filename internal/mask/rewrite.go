package mask

import (
	"sort"

	"github.com/maskd-io/maskd/internal/detect"
)

// ResolveOverlaps reduces a match list to a set of non-intersecting spans.
// Detection deliberately returns every qualifying match, so two rules (say,
// the loose international phone pattern and the US one) can claim
// overlapping spans; span substitution is only correct when spans are
// disjoint.
//
// Matches are ordered by start ascending, then length descending, then
// confidence descending, and kept greedily: a match survives only if its
// span does not intersect any already-kept span. The input slice is not
// modified.
func ResolveOverlaps(matches []detect.Match) []detect.Match {
	if len(matches) <= 1 {
		return matches
	}

	ordered := make([]detect.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start < ordered[j].Start
		}
		lenI := ordered[i].End - ordered[i].Start
		lenJ := ordered[j].End - ordered[j].Start
		if lenI != lenJ {
			return lenI > lenJ
		}
		return ordered[i].Confidence > ordered[j].Confidence
	})

	kept := ordered[:0]
	lastEnd := -1
	for _, match := range ordered {
		if match.Start < lastEnd {
			continue
		}
		kept = append(kept, match)
		lastEnd = match.End
	}
	return kept
}
