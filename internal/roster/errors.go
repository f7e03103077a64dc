package roster

import (
	"errors"
	"fmt"

	"github.com/sells-group/roster-cli/internal/model"
)

var (
	// ErrUnknownSeason is returned when a (year, division) pair has no season id.
	ErrUnknownSeason = errors.New("unknown season")

	// ErrTransport marks a failed upstream request or an undecodable response.
	ErrTransport = errors.New("roster transport failure")
)

// TransportError aborts one season's fetch.
type TransportError struct {
	Year     string
	Division model.Division
	URL      string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("roster: fetch %s %s from %s: %v", e.Division, e.Year, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
