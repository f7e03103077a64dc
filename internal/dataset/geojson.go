package dataset

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/roster-cli/internal/model"
)

// ExportFilter selects which players ExportGeoJSON includes.
type ExportFilter struct {
	Divisions []model.Division
	Year      string // empty means every year
	// IncludeUnlocated keeps players whose coordinates are the (0, 0) default.
	IncludeUnlocated bool
}

// ExportGeoJSON renders the selected players as a FeatureCollection of points.
func ExportGeoJSON(ds model.Dataset, filter ExportFilter) ([]byte, error) {
	divisions := filter.Divisions
	if len(divisions) == 0 {
		divisions = model.Divisions
	}

	fc := geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, div := range divisions {
		for _, slice := range ds.Cohort(div) {
			if filter.Year != "" && slice.Year != filter.Year {
				continue
			}
			for _, p := range slice.Players {
				coords := model.Coordinates{Lat: p.Lat, Lng: p.Lng}
				if coords.IsZero() && !filter.IncludeUnlocated {
					continue
				}
				fc.Features = append(fc.Features, playerFeature(div, slice.Year, p))
			}
		}
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: encode geojson")
	}
	return data, nil
}

func playerFeature(div model.Division, year string, p model.Player) *geojson.Feature {
	props := map[string]any{
		"division":         string(div),
		"year":             year,
		"name":             p.Name,
		"team":             p.Team,
		"display_location": p.DisplayLocation,
		"record":           p.Record,
		"rating":           p.Rating,
	}
	if p.TeamPosition != nil {
		props["team_position"] = *p.TeamPosition
	}
	return &geojson.Feature{
		Geometry:   geom.NewPointFlat(geom.XY, []float64{p.Lng, p.Lat}),
		Properties: props,
	}
}
