package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Division is one of the two independently tracked competition cohorts.
type Division string

const (
	// DivisionMen is the men's cohort.
	DivisionMen Division = "men"
	// DivisionWomen is the women's cohort.
	DivisionWomen Division = "women"
)

// Divisions lists every division in canonical order.
var Divisions = []Division{DivisionMen, DivisionWomen}

// ParseDivision parses a single division name (case-insensitive).
func ParseDivision(s string) (Division, error) {
	switch Division(strings.ToLower(strings.TrimSpace(s))) {
	case DivisionMen:
		return DivisionMen, nil
	case DivisionWomen:
		return DivisionWomen, nil
	default:
		return "", eris.Errorf("model: unknown division %q", s)
	}
}

// ParseDivisionSelector parses "men", "women" or "both" into the divisions to process.
func ParseDivisionSelector(s string) ([]Division, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") || strings.TrimSpace(s) == "" {
		return append([]Division(nil), Divisions...), nil
	}
	d, err := ParseDivision(s)
	if err != nil {
		return nil, err
	}
	return []Division{d}, nil
}

// YearSlice is the enriched record set for one (year, division) pair.
type YearSlice struct {
	Year     string   `json:"year"`
	Division Division `json:"-"`
	Players  []Player `json:"players"`
}

// Dataset is the combined multi-year dataset. Each cohort holds at most one
// slice per year.
type Dataset struct {
	Men   []YearSlice `json:"men"`
	Women []YearSlice `json:"women"`
}

// Cohort returns the slices held for d.
func (ds Dataset) Cohort(d Division) []YearSlice {
	if d == DivisionWomen {
		return ds.Women
	}
	return ds.Men
}

// WithCohort returns a copy of ds with the slices for d replaced.
func (ds Dataset) WithCohort(d Division, slices []YearSlice) Dataset {
	if d == DivisionWomen {
		ds.Women = slices
	} else {
		ds.Men = slices
	}
	return ds
}

// Find returns the slice for (d, year) if present.
func (ds Dataset) Find(d Division, year string) (YearSlice, bool) {
	for _, s := range ds.Cohort(d) {
		if s.Year == year {
			return s, true
		}
	}
	return YearSlice{}, false
}
