package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

func geoDataset() model.Dataset {
	rank := 1
	return model.Dataset{
		Men: []model.YearSlice{{Year: "2023", Division: model.DivisionMen, Players: []model.Player{
			{Name: "A", Lat: 41.3, Lng: -72.9, TeamPosition: &rank},
			{Name: "Unlocated"},
		}}},
		Women: []model.YearSlice{{Year: "2024", Division: model.DivisionWomen, Players: []model.Player{
			{Name: "W", Lat: 30, Lng: 31},
		}}},
	}
}

func TestExportGeoJSON_SkipsUnlocated(t *testing.T) {
	data, err := ExportGeoJSON(geoDataset(), ExportFilter{})
	require.NoError(t, err)

	var fc featureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{-72.9, 41.3}, fc.Features[0].Geometry.Coordinates, "GeoJSON is lng, lat")
	assert.Equal(t, "men", fc.Features[0].Properties["division"])
	assert.EqualValues(t, 1, fc.Features[0].Properties["team_position"])
}

func TestExportGeoJSON_Filters(t *testing.T) {
	data, err := ExportGeoJSON(geoDataset(), ExportFilter{
		Divisions:        []model.Division{model.DivisionMen},
		Year:             "2023",
		IncludeUnlocated: true,
	})
	require.NoError(t, err)

	var fc featureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Unlocated", fc.Features[1].Properties["name"])

	data, err = ExportGeoJSON(geoDataset(), ExportFilter{Year: "1999"})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Empty(t, fc.Features)
}
