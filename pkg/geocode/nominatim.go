package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/resilience"
)

// nominatimPlace is one element of the Nominatim jsonv2 search response.
// Coordinates arrive as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode queries Nominatim for the best match of query.
func (g *geocoder) Geocode(ctx context.Context, query string) (*Result, error) {
	query = normalizeQuery(query)
	if query == "" {
		return &Result{Matched: false, Source: "nominatim"}, nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	params := url.Values{
		"q":      {query},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	if g.email != "" {
		params.Set("email", g.email)
	}

	reqURL := g.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim build request")
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			fmt.Errorf("geocode: nominatim returned status %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim read body")
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse response")
	}

	if len(places) == 0 {
		return &Result{Matched: false, Source: "nominatim"}, nil
	}

	lat, lon, err := parsePlaceCoords(places[0])
	if err != nil {
		return nil, err
	}

	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: places[0].DisplayName,
		Source:      "nominatim",
		Matched:     true,
	}, nil
}

func parsePlaceCoords(p nominatimPlace) (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "geocode: parse nominatim lat %q", p.Lat)
	}
	lon, err = strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "geocode: parse nominatim lon %q", p.Lon)
	}
	return lat, lon, nil
}
