// Package dataset merges year/division slices into the combined dataset and
// persists it.
package dataset

import "github.com/sells-group/roster-cli/internal/model"

// Merge returns existing with slice folded into its division's cohort: any
// slice for the same year is removed and the new slice is appended. Merge
// does not mutate existing. An empty slice is a valid replacement.
func Merge(existing model.Dataset, slice model.YearSlice) model.Dataset {
	cohort := existing.Cohort(slice.Division)

	out := make([]model.YearSlice, 0, len(cohort)+1)
	for _, s := range cohort {
		if s.Year != slice.Year {
			out = append(out, s)
		}
	}

	if slice.Players == nil {
		slice.Players = []model.Player{}
	}
	out = append(out, slice)

	return existing.WithCohort(slice.Division, out)
}

// MergeAll folds slices into existing in order.
func MergeAll(existing model.Dataset, slices ...model.YearSlice) model.Dataset {
	for _, s := range slices {
		existing = Merge(existing, s)
	}
	return existing
}
