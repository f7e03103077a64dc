package enrich

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord matches every RecordError.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrMalformedRating is the kind of a rating that is not a finite decimal.
	ErrMalformedRating = errors.New("malformed rating")
	// ErrMalformedNumber is the kind of a bad wins, losses or rank field.
	ErrMalformedNumber = errors.New("malformed number")
)

// RecordError describes why a single raw record could not be enriched.
type RecordError struct {
	Player string
	Field  string
	Value  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("enrich: %s: %s %q: %v", e.Player, e.Field, e.Value, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidRecord.
func (e *RecordError) Is(target error) bool { return target == ErrInvalidRecord }
