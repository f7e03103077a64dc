// Package geo resolves a player's home location to coordinates, degrading to
// "not found" when the geocoder has no match or keeps failing.
package geo

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/resilience"
	"github.com/sells-group/roster-cli/pkg/geocode"
)

// Location is a free-text place split into its city and country parts.
type Location struct {
	City    string
	Country string
}

// Text returns "city, country", or the country alone when city is blank.
func (l Location) Text() string {
	city := strings.TrimSpace(l.City)
	country := strings.TrimSpace(l.Country)
	if city == "" {
		return country
	}
	return city + ", " + country
}

// Outcome is the result of one Resolve call. Found is false when neither the
// full location nor the country-only fallback matched.
type Outcome struct {
	Coordinates model.Coordinates
	Found       bool
	Query       string // the query that matched, if any
	Attempts    int    // geocoder calls made across both legs
}

// Resolver wraps a geocode.Client with the retry policy and the
// country-only fallback.
type Resolver struct {
	client geocode.Client
	retry  resilience.RetryConfig
}

// NewResolver returns a Resolver. Every geocoder error is retried per retry;
// ShouldRetry is forced to resilience.RetryAlways.
func NewResolver(client geocode.Client, retry resilience.RetryConfig) *Resolver {
	retry.ShouldRetry = resilience.RetryAlways
	return &Resolver{client: client, retry: retry}
}

// Resolve returns the coordinates of loc. It never returns an error.
func (r *Resolver) Resolve(ctx context.Context, loc Location) Outcome {
	full := loc.Text()
	if full == "" {
		return Outcome{}
	}

	var out Outcome
	if coords, ok := r.lookup(ctx, full, &out); ok {
		out.Coordinates, out.Found, out.Query = coords, true, full
		return out
	}

	country := strings.TrimSpace(loc.Country)
	if country == "" || country == full {
		zap.L().Info("geo: location not found", zap.String("location", full))
		return out
	}

	zap.L().Debug("geo: falling back to country", zap.String("location", full), zap.String("country", country))
	if coords, ok := r.lookup(ctx, country, &out); ok {
		out.Coordinates, out.Found, out.Query = coords, true, country
		return out
	}

	zap.L().Info("geo: location not found", zap.String("location", full), zap.String("country", country))
	return out
}

// lookup runs one leg (a single query text) under the retry policy. An
// exhausted leg counts as no match.
func (r *Resolver) lookup(ctx context.Context, query string, out *Outcome) (model.Coordinates, bool) {
	cfg := r.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("geocoder", "geocode", zap.String("query", query))
	}

	attempt := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*geocode.Result, error) {
		return r.client.Geocode(ctx, query)
	})
	out.Attempts += attempt.Attempts

	if !attempt.OK() {
		zap.L().Info("geo: giving up on query",
			zap.String("query", query),
			zap.Int("attempts", attempt.Attempts),
			zap.String("failure", resilience.Classify(attempt.Err)),
			zap.Error(attempt.Err),
		)
		return model.Coordinates{}, false
	}
	if attempt.Value == nil || !attempt.Value.Matched {
		return model.Coordinates{}, false
	}
	return model.Coordinates{Lat: attempt.Value.Latitude, Lng: attempt.Value.Longitude}, true
}
