package enrich

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// teamNoise lists fragments removed from upstream team names, e.g.
// "Pennsylvania, University of" → "Pennsylvania".
var teamNoise = []string{" University", ", of"}

// CleanTeam strips institutional boilerplate from a team name.
func CleanTeam(name string) string {
	for _, noise := range teamNoise {
		name = strings.ReplaceAll(name, noise, "")
	}
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "University of ")
	return strings.TrimSpace(name)
}

// TitleCase trims s and upper-cases the first letter of each word, lower-casing the rest.
func TitleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.Und).String(s)
}

// DisplayLocation joins normalized city and country, or returns the country
// alone when city is empty.
func DisplayLocation(city, country string) string {
	if city == "" {
		return country
	}
	return city + ", " + country
}

// FormatRecord renders a win-loss record as "W-L".
func FormatRecord(wins, losses int) string {
	return strconv.Itoa(wins) + "-" + strconv.Itoa(losses)
}

// parseCount parses a non-negative integer count.
func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseRank maps the upstream rank text to an optional position. The literal
// "0" means unranked; any other zero spelling is rejected so that a present
// position is never zero.
func ParseRank(s string) (*int, bool) {
	s = strings.TrimSpace(s)
	if s == "0" {
		return nil, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return nil, false
	}
	return &n, true
}

// ParseRating parses a finite decimal rating.
func ParseRating(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
