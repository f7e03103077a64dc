package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/roster-cli/internal/model"
)

// SkipReason classifies why a season was not merged.
type SkipReason string

const (
	SkipUnknownSeason SkipReason = "unknown_season"
	SkipTransport     SkipReason = "transport"
)

// Skip records a season that was not merged.
type Skip struct {
	Year     string
	Division model.Division
	Reason   SkipReason
	Err      string
}

// Drop records a raw record rejected by the enricher.
type Drop struct {
	Year     string
	Division model.Division
	Player   string
	Err      string
}

// Merged records a slice folded into the dataset.
type Merged struct {
	Year     string
	Division model.Division
	Players  int
	Replaced bool
}

// Report summarizes one run.
type Report struct {
	RunID        string
	CombineOnly  bool
	Bootstrapped int
	Merged       []Merged
	Skipped      []Skip
	Dropped      []Drop
	Duration     time.Duration
}

// Format renders the report for the terminal.
func (r *Report) Format() string {
	var b strings.Builder

	mode := "fetch"
	if r.CombineOnly {
		mode = "combine"
	}
	fmt.Fprintf(&b, "Run %s (%s) finished in %s\n", r.RunID, mode, r.Duration.Round(time.Millisecond))
	if r.Bootstrapped > 0 {
		fmt.Fprintf(&b, "Bootstrapped %d slices from audit files\n", r.Bootstrapped)
	}

	fmt.Fprintf(&b, "Merged: %d\n", len(r.Merged))
	for _, m := range r.Merged {
		action := "added"
		if m.Replaced {
			action = "replaced"
		}
		fmt.Fprintf(&b, "  %s %s: %d players (%s)\n", m.Division, m.Year, m.Players, action)
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "Skipped: %d\n", len(r.Skipped))
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "  %s %s: %s\n", s.Division, s.Year, s.Reason)
		}
	}
	if len(r.Dropped) > 0 {
		fmt.Fprintf(&b, "Dropped records: %d\n", len(r.Dropped))
		for _, d := range r.Dropped {
			fmt.Fprintf(&b, "  %s %s %q: %s\n", d.Division, d.Year, d.Player, d.Err)
		}
	}
	return b.String()
}
