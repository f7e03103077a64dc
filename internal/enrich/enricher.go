// Package enrich turns raw roster records into normalized, geocoded players.
package enrich

import (
	"context"
	"strings"

	"github.com/sells-group/roster-cli/internal/geo"
	"github.com/sells-group/roster-cli/internal/model"
)

// Resolver looks up coordinates for a location.
type Resolver interface {
	Resolve(ctx context.Context, loc geo.Location) geo.Outcome
}

// Enricher converts RawRecords into Players.
type Enricher struct {
	resolver Resolver
}

// New returns an Enricher that geocodes through r.
func New(r Resolver) *Enricher {
	return &Enricher{resolver: r}
}

// Enrich normalizes raw and attaches its coordinates. Numeric fields are
// validated before the geocoder is called, so a rejected record costs no
// lookup. Unresolved locations get (0, 0).
func (e *Enricher) Enrich(ctx context.Context, raw model.RawRecord) (model.Player, error) {
	name := strings.TrimSpace(raw.Player.String())

	wins, ok := parseCount(raw.Wins.String())
	if !ok {
		return model.Player{}, &RecordError{Player: name, Field: "wins", Value: raw.Wins.String(), Err: ErrMalformedNumber}
	}
	losses, ok := parseCount(raw.Losses.String())
	if !ok {
		return model.Player{}, &RecordError{Player: name, Field: "losses", Value: raw.Losses.String(), Err: ErrMalformedNumber}
	}
	rank, ok := ParseRank(raw.TeamPosition.String())
	if !ok {
		return model.Player{}, &RecordError{Player: name, Field: "TeamPosition", Value: raw.TeamPosition.String(), Err: ErrMalformedNumber}
	}
	rating, ok := ParseRating(raw.Rating.String())
	if !ok {
		return model.Player{}, &RecordError{Player: name, Field: "Rating", Value: raw.Rating.String(), Err: ErrMalformedRating}
	}

	city := TitleCase(raw.City.String())
	country := TitleCase(raw.Country.String())

	outcome := e.resolver.Resolve(ctx, geo.Location{
		City:    strings.TrimSpace(raw.City.String()),
		Country: strings.TrimSpace(raw.Country.String()),
	})

	return model.Player{
		Name:            name,
		Team:            CleanTeam(raw.TeamName.String()),
		City:            city,
		Country:         country,
		DisplayLocation: DisplayLocation(city, country),
		Record:          FormatRecord(wins, losses),
		TeamPosition:    rank,
		Rating:          rating,
		Lat:             outcome.Coordinates.Lat,
		Lng:             outcome.Coordinates.Lng,
	}, nil
}
