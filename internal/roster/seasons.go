package roster

import (
	"sort"

	"github.com/sells-group/roster-cli/internal/model"
)

// menSeasons maps a season year label to the upstream standings id.
var menSeasons = map[string]string{
	"2025": "5208",
	"2024": "4643",
	"2023": "4054",
	"2022": "3482",
	"2021": "3359",
	"2020": "2761",
	"2019": "2277",
	"2018": "2036",
}

// womenSeasons has no built-in ids; populate it through the seasons.women
// config section.
var womenSeasons = map[string]string{}

// Seasons is an immutable (division, year) → season id table.
type Seasons struct {
	ids map[model.Division]map[string]string
}

// DefaultSeasons returns the built-in table.
func DefaultSeasons() Seasons {
	return NewSeasons(nil)
}

// NewSeasons returns the built-in table overlaid with overrides. Entries in
// overrides win over built-in ids for the same year.
func NewSeasons(overrides map[model.Division]map[string]string) Seasons {
	s := Seasons{ids: map[model.Division]map[string]string{
		model.DivisionMen:   copyIDs(menSeasons),
		model.DivisionWomen: copyIDs(womenSeasons),
	}}
	for div, years := range overrides {
		if s.ids[div] == nil {
			s.ids[div] = map[string]string{}
		}
		for year, id := range years {
			s.ids[div][year] = id
		}
	}
	return s
}

// Lookup returns the season id registered for (division, year).
func (s Seasons) Lookup(division model.Division, year string) (string, bool) {
	id, ok := s.ids[division][year]
	return id, ok
}

// Years returns the registered year labels for division, newest first.
func (s Seasons) Years(division model.Division) []string {
	years := make([]string, 0, len(s.ids[division]))
	for y := range s.ids[division] {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// Table returns a copy of the ids for division.
func (s Seasons) Table(division model.Division) map[string]string {
	return copyIDs(s.ids[division])
}

func copyIDs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
