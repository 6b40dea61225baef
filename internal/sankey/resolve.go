package sankey

import (
	"math"

	"sankey/pkg/olca"
)

// resolveMethod returns the descriptor matching id, or the first method when
// id is empty or unknown.
func resolveMethod(methods []olca.Ref, id string) olca.Ref {
	if id != "" {
		for _, m := range methods {
			if m.ID == id {
				return olca.Ref{ID: m.ID, Name: m.Name}
			}
		}
	}

	return olca.Ref{ID: methods[0].ID, Name: methods[0].Name}
}

// matchCategory finds the category with the given id.
func matchCategory(cats []olca.Ref, id string) (olca.Ref, bool) {
	for _, cat := range cats {
		if cat.ID == id {
			return cat, true
		}
	}

	return olca.Ref{}, false
}

// pickLargest returns the category with the largest absolute total impact.
// Categories without a computed total count as zero; when every total is
// zero there is no winner and ok is false.
func pickLargest(cats []olca.Ref, impacts map[string]float64) (olca.Ref, bool) {
	var best olca.Ref
	bestAmount := 0.0
	ok := false
	for _, cat := range cats {
		amount := math.Abs(impacts[cat.ID])
		if amount > bestAmount {
			bestAmount = amount
			best = cat
			ok = true
		}
	}

	return best, ok
}
